package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/metrics"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
	"github.com/aussiebroadwan/doorkeeper/pkg/idx"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

var (
	ErrInsufficientCredit = errors.New("claim: at least 1 credit required")
	ErrPoolEmpty          = errors.New("claim: no accounts available")

	// ErrDeliveryClosed mirrors the gateway sentinel for callers that only
	// import the service layer.
	ErrDeliveryClosed = gateway.ErrDeliveryClosed
)

// ClaimService exchanges one credit for one pooled account. Delivery happens
// before any state is mutated: an undeliverable account is never lost from
// the pool, and a member is never debited for an account they never received.
type ClaimService struct {
	Store   store.Store
	Gateway gateway.Gateway

	// AuditChannelID receives a best-effort notification per successful
	// claim. Empty disables the notification.
	AuditChannelID string

	// Serialises claims so two members cannot be handed the same account.
	mu sync.Mutex
}

// Claim runs the transaction for one member:
//
//  1. Validate balance (lazily initialised); fail ErrInsufficientCredit.
//  2. Validate the pool is non-empty; fail ErrPoolEmpty.
//  3. Deliver the oldest account privately. Communicates only.
//  4. On delivery success, commit: pop the pool, debit one credit, notify
//     the audit channel (best effort).
//
// A delivery failure leaves the pool and ledger exactly as they were.
func (s *ClaimService) Claim(ctx context.Context, guildID, memberID string) (domain.Claim, error) {
	log := slogx.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Balance check.
	balance, err := s.Store.Ledger().Balance(ctx, guildID, memberID)
	if err != nil {
		return domain.Claim{}, fmt.Errorf("load balance: %w", err)
	}
	if balance < 1 {
		metrics.Claims.WithLabelValues("insufficient_credit").Inc()
		log.Info("claim rejected, insufficient credit",
			slog.String("guild_id", guildID),
			slog.String("member_id", memberID),
		)
		return domain.Claim{}, ErrInsufficientCredit
	}

	// 2. Pool check.
	account, err := s.Store.Pool().First(ctx)
	if err != nil {
		if errors.Is(err, store.ErrPoolEmpty) {
			metrics.Claims.WithLabelValues("pool_empty").Inc()
			log.Info("claim rejected, pool empty",
				slog.String("guild_id", guildID),
				slog.String("member_id", memberID),
			)
			return domain.Claim{}, ErrPoolEmpty
		}
		return domain.Claim{}, fmt.Errorf("load pool: %w", err)
	}

	// 3. Delivery, before any mutation.
	err = s.Gateway.SendDirect(ctx, memberID, gateway.Message{
		Title:       "Here's your account:",
		Description: fmt.Sprintf("`%s`", account),
	})
	if err != nil {
		if errors.Is(err, gateway.ErrDeliveryClosed) {
			metrics.Claims.WithLabelValues("delivery_closed").Inc()
			log.Warn("claim delivery refused, nothing mutated",
				slog.String("guild_id", guildID),
				slog.String("member_id", memberID),
			)
			return domain.Claim{}, ErrDeliveryClosed
		}
		metrics.Claims.WithLabelValues("error").Inc()
		return domain.Claim{}, fmt.Errorf("deliver account: %w", err)
	}

	// 4. Commit: the account left the building, now make it durable.
	removed, err := s.Store.Pool().RemoveFirst(ctx)
	if err != nil {
		// Delivered but not committed. Log loudly so an operator can
		// reconcile by hand; retrying here would double-deliver.
		log.Error("delivered account could not be removed from pool",
			slog.String("guild_id", guildID),
			slog.String("member_id", memberID),
			slog.Any("error", err),
		)
		return domain.Claim{}, fmt.Errorf("commit pool removal: %w", err)
	}
	if removed != account {
		log.Error("pool front changed between peek and commit",
			slog.String("expected", account),
			slog.String("removed", removed),
		)
	}

	newBalance, err := s.Store.Ledger().Debit(ctx, guildID, memberID, 1)
	if err != nil {
		log.Error("delivered account but balance debit failed",
			slog.String("guild_id", guildID),
			slog.String("member_id", memberID),
			slog.Any("error", err),
		)
		return domain.Claim{}, fmt.Errorf("commit debit: %w", err)
	}

	remaining, err := s.Store.Pool().Size(ctx)
	if err != nil {
		remaining = -1
	} else {
		metrics.PoolAccounts.Set(float64(remaining))
	}

	claim := domain.Claim{
		ID:        idx.New(),
		GuildID:   guildID,
		MemberID:  memberID,
		Account:   account,
		Remaining: remaining,
		ClaimedAt: time.Now().UTC(),
	}

	s.notifyAudit(ctx, claim)
	metrics.Claims.WithLabelValues("success").Inc()

	log.Info("account claimed",
		slog.String("claim_id", claim.ID.String()),
		slog.String("guild_id", guildID),
		slog.String("member_id", memberID),
		slog.Int("balance", newBalance),
		slog.Int("remaining", remaining),
	)
	return claim, nil
}

// notifyAudit posts the claim to the operational channel. Failure is logged
// and never rolls back the commit.
func (s *ClaimService) notifyAudit(ctx context.Context, claim domain.Claim) {
	if s.AuditChannelID == "" {
		return
	}

	err := s.Gateway.SendChannel(ctx, s.AuditChannelID, gateway.Message{
		Title:       "Account Claimed",
		Description: fmt.Sprintf("<@%s> has claimed an account. (claim %s)", claim.MemberID, claim.ID),
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("audit notification failed",
			slog.String("claim_id", claim.ID.String()),
			slog.Any("error", err),
		)
	}
}
