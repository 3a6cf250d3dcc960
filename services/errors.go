package services

import "errors"

// Error taxonomy shared by every engine. Validation and authorization
// failures are surfaced to the invoking actor with no state mutation;
// callers branch with errors.Is.
var (
	ErrAlreadyActive       = errors.New("a session is already active in this channel")
	ErrNotFound            = errors.New("not found")
	ErrPermissionDenied    = errors.New("only the session owner may do this")
	ErrEmptyRoster         = errors.New("no participants have joined")
	ErrInsufficientPlayers = errors.New("at least 2 players are required")
	ErrSessionClosed       = errors.New("the session no longer accepts this action")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrInvalidPeriod       = errors.New("invalid lease period")
	ErrExternalOperation   = errors.New("external operation failed")
	ErrOracleUnavailable   = errors.New("payment oracle unavailable")
)
