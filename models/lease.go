package models

import "time"

// VCLease is a time-bounded grant over an externally provisioned voice
// channel. The lease id doubles as the external channel id: adopting a
// pre-existing channel registers it under its own id. Invariant: End > Start.
// A lease exists only while the channel is believed to exist; removing the
// registry entry is the sole ownership-release signal.
type VCLease struct {
	ID      string
	OwnerID string
	Start   time.Time
	End     time.Time
}

// Expired reports whether the lease's end has been reached.
func (l *VCLease) Expired(now time.Time) bool {
	return !l.End.After(now)
}
