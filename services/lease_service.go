package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"game-night-bot/chat"
	"game-night-bot/models"
	"game-night-bot/utils"

	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
)

// LeaseService tracks time-bounded voice-channel leases and reclaims the
// expired ones on a minute tick. One mutex guards the registry; the sweep
// takes the same mutex around each reclaim, so an AddMember racing an
// expiry either fully lands before removal or fails ErrNotFound after it —
// never a grant on a deregistered channel.
type LeaseService struct {
	mu      sync.Mutex
	leases  map[string]*models.VCLease
	chat    chat.Client
	clock   clockwork.Clock
	guildID string
	admins  map[string]struct{}
}

func NewLeaseService(chatClient chat.Client, clock clockwork.Clock, guildID string, adminIDs []string) *LeaseService {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &LeaseService{
		leases:  make(map[string]*models.VCLease),
		chat:    chatClient,
		clock:   clock,
		guildID: guildID,
		admins:  admins,
	}
}

// CreateLease provisions a voice channel for the period and registers the
// lease under the new channel's id. Nothing is registered when provisioning
// fails.
func (s *LeaseService) CreateLease(ctx context.Context, ownerID, ownerName, memberID, period string) (*models.VCLease, error) {
	start, end, err := utils.ParsePeriod(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	name := slug.Make(ownerName)
	if name == "" {
		name = slug.Make(ownerID)
	}
	name = fmt.Sprintf("vc-%s-%s", name, start.In(utils.JST).Format("0102-1504"))

	channelID, err := s.chat.CreateVoiceChannel(ctx, s.guildID, name, []string{ownerID, memberID})
	if err != nil {
		return nil, fmt.Errorf("%w: create voice channel: %v", ErrExternalOperation, err)
	}

	lease := &models.VCLease{
		ID:      channelID,
		OwnerID: ownerID,
		Start:   start,
		End:     end,
	}
	s.mu.Lock()
	s.leases[lease.ID] = lease
	s.mu.Unlock()

	log.Printf("✅ [LEASE] Created %s (%s〜%s) for %s", lease.ID,
		start.In(utils.JST).Format("2006-01-02-15:04"), end.In(utils.JST).Format("2006-01-02-15:04"), ownerID)
	return lease, nil
}

// UpdateLease overwrites the period of a known lease, or adopts a
// pre-existing voice channel by registering it under its own id with the
// requester as owner.
func (s *LeaseService) UpdateLease(ctx context.Context, requesterID, leaseID, period string) (*models.VCLease, error) {
	start, end, err := utils.ParsePeriod(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lease, ok := s.leases[leaseID]
	if !ok {
		lease = &models.VCLease{ID: leaseID, OwnerID: requesterID}
		s.leases[leaseID] = lease
		log.Printf("📌 [LEASE] Adopted pre-existing channel %s for %s", leaseID, requesterID)
	}
	lease.Start = start
	lease.End = end
	log.Printf("✅ [LEASE] Updated %s to %s〜%s", leaseID,
		start.In(utils.JST).Format("2006-01-02-15:04"), end.In(utils.JST).Format("2006-01-02-15:04"))
	return lease, nil
}

// AddMember grants channel access to another user. Allowed for the lease
// owner and for holders of the elevated management capability.
func (s *LeaseService) AddMember(ctx context.Context, requesterID, leaseID, newMemberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lease, ok := s.leases[leaseID]
	if !ok {
		return ErrNotFound
	}
	if requesterID != lease.OwnerID {
		if _, admin := s.admins[requesterID]; !admin {
			return ErrPermissionDenied
		}
	}
	if err := s.chat.SetChannelPermission(ctx, leaseID, newMemberID, true); err != nil {
		return fmt.Errorf("%w: set permission: %v", ErrExternalOperation, err)
	}
	log.Printf("✅ [LEASE] %s granted %s access to %s", requesterID, newMemberID, leaseID)
	return nil
}

// StartSweep registers the reclamation pass on the shared scheduler.
func (s *LeaseService) StartSweep(sched *Scheduler) error {
	return sched.Every(1*time.Minute, "vc-lease-sweep", func() {
		s.sweepExpired(context.Background())
	})
}

// sweepExpired reclaims every lease whose end has been reached. The expired
// set is snapshotted first so the pass stays safe under concurrent creates;
// each reclaim then re-checks under the lock. The external delete is best
// effort: a failure is logged and the registry entry dropped anyway,
// trading a possible channel leak for registry correctness.
func (s *LeaseService) sweepExpired(ctx context.Context) {
	now := s.clock.Now()

	s.mu.Lock()
	var expired []string
	for id, lease := range s.leases {
		if lease.Expired(now) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	if len(expired) == 0 {
		return
	}
	log.Printf("[SWEEP] 🔁 Reclaiming %d expired lease(s)…", len(expired))

	for _, id := range expired {
		s.mu.Lock()
		lease, ok := s.leases[id]
		if !ok || !lease.Expired(now) {
			s.mu.Unlock()
			continue
		}
		if err := s.chat.DeleteVoiceChannel(ctx, id); err != nil {
			log.Printf("[SWEEP] ⚠️ Failed to delete channel %s (deregistering anyway): %v", id, err)
		} else {
			log.Printf("[SWEEP] ✅ Deleted expired channel %s", id)
		}
		delete(s.leases, id)
		s.mu.Unlock()
	}
}

// Len reports how many leases are live, for the status surface.
func (s *LeaseService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leases)
}

// Get returns the lease registered under id.
func (s *LeaseService) Get(leaseID string) (*models.VCLease, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lease, ok := s.leases[leaseID]
	return lease, ok
}
