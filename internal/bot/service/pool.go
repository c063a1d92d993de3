package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/metrics"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

var ErrEmptyAccount = errors.New("pool: account must not be empty")

// PoolService manages the shared pool of unclaimed accounts.
type PoolService struct {
	Store store.Store
}

// AddAccount appends an account to the back of the pool. The privileged
// command surface is the only caller.
func (s *PoolService) AddAccount(ctx context.Context, account string) error {
	if account == "" {
		return ErrEmptyAccount
	}

	if err := s.Store.Pool().Add(ctx, account); err != nil {
		return fmt.Errorf("add account: %w", err)
	}

	if size, err := s.Store.Pool().Size(ctx); err == nil {
		metrics.PoolAccounts.Set(float64(size))
		slogx.FromContext(ctx).Info("account added to pool", slog.Int("remaining", size))
	}
	return nil
}

// Remaining returns the number of unclaimed accounts.
func (s *PoolService) Remaining(ctx context.Context) (int, error) {
	size, err := s.Store.Pool().Size(ctx)
	if err != nil {
		return 0, fmt.Errorf("pool size: %w", err)
	}
	metrics.PoolAccounts.Set(float64(size))
	return size, nil
}
