package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/metrics"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

// TrackerService reconciles live invite use counts against the cached
// snapshot to attribute each member join to the inviter who produced it.
type TrackerService struct {
	Store   store.Store
	Gateway gateway.Gateway
	Cache   *InviteCache

	// Serialises attribution so two near-simultaneous joins cannot both
	// read the same stale snapshot.
	mu sync.Mutex
}

// PrimeGuild fetches the guild's current invites and replaces the cached
// snapshot. Called on connect for every guild and again when a new guild is
// joined. A permission failure leaves the cache absent and is logged only;
// the diff logic treats a missing snapshot as all-zero counts.
func (s *TrackerService) PrimeGuild(ctx context.Context, guildID string) error {
	log := slogx.FromContext(ctx)

	invites, err := s.Gateway.GuildInvites(ctx, guildID)
	if err != nil {
		if errors.Is(err, gateway.ErrPermissionDenied) {
			log.Warn("missing permission to fetch invites",
				slog.String("guild_id", guildID),
			)
			return nil
		}
		return fmt.Errorf("prime guild %s: %w", guildID, err)
	}

	counts := make(map[string]int, len(invites))
	for _, inv := range invites {
		counts[inv.Code] = inv.Uses
	}
	s.Cache.Replace(guildID, counts)

	log.Info("invite snapshot cached",
		slog.String("guild_id", guildID),
		slog.Int("invites", len(invites)),
	)
	return nil
}

// RecordInviteCreated seeds the cache with a freshly created invite's
// starting use count, avoiding a full refresh.
func (s *TrackerService) RecordInviteCreated(ctx context.Context, guildID, code string, uses int) {
	s.Cache.SetUses(guildID, code, uses)

	slogx.FromContext(ctx).Info("new invite cached",
		slog.String("guild_id", guildID),
		slog.String("code", code),
	)
}

// AttributeJoin diffs the guild's live invite counts against the snapshot and
// credits the inviter behind the first invite whose count grew. Scanning
// stops at the first match: if several counters moved between observations,
// the later deltas are not attributed until a future join happens to surface
// them. It returns the credited inviter id, or ok=false when no delta was
// observable (vanity joins, fetch races), which is not an error.
func (s *TrackerService) AttributeJoin(ctx context.Context, guildID string) (inviterID string, ok bool, err error) {
	log := slogx.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	invites, err := s.Gateway.GuildInvites(ctx, guildID)
	if err != nil {
		if errors.Is(err, gateway.ErrPermissionDenied) {
			log.Error("missing permission to fetch invites, join not attributed",
				slog.String("guild_id", guildID),
			)
			return "", false, nil
		}
		return "", false, fmt.Errorf("attribute join in guild %s: %w", guildID, err)
	}

	for _, inv := range invites {
		if inv.Uses <= s.Cache.Uses(guildID, inv.Code) {
			continue
		}

		balance, err := s.Store.Ledger().Credit(ctx, guildID, inv.InviterID, 1)
		if err != nil {
			return "", false, fmt.Errorf("credit inviter %s: %w", inv.InviterID, err)
		}
		s.Cache.SetUses(guildID, inv.Code, inv.Uses)
		metrics.JoinsCredited.Inc()

		log.Info("join attributed",
			slog.String("guild_id", guildID),
			slog.String("code", inv.Code),
			slog.String("inviter_id", inv.InviterID),
			slog.Int("balance", balance),
		)
		return inv.InviterID, true, nil
	}

	metrics.JoinsUnattributed.Inc()
	log.Info("no invite delta observed for join", slog.String("guild_id", guildID))
	return "", false, nil
}
