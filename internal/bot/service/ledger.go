package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
)

// LedgerService answers balance queries for the command surface.
type LedgerService struct {
	Store store.Store
}

// Balance returns the member's current credit balance. A member seen for the
// first time is initialised to 0 and that initialisation is persisted, so two
// consecutive checks with no intervening mutation always agree.
func (s *LedgerService) Balance(ctx context.Context, guildID, memberID string) (int, error) {
	balance, err := s.Store.Ledger().Balance(ctx, guildID, memberID)
	if err != nil {
		return 0, fmt.Errorf("load balance: %w", err)
	}
	return balance, nil
}
