package file

import (
	"context"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
)

// ledgerDocumentName is the invite-credit ledger; it lands on disk as
// invites.json in the shape {"<guild-id>": {"<member-id>": n}}.
const ledgerDocumentName = "invites"

type ledgerRepo struct {
	s *Store
}

func (r *ledgerRepo) load() (domain.Ledger, error) {
	ledger := domain.Ledger{}
	err := r.s.Load(ledgerDocumentName, domain.Ledger{}, &ledger)
	return ledger, err
}

func (r *ledgerRepo) Balance(_ context.Context, guildID, memberID string) (int, error) {
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	ledger, err := r.load()
	if err != nil {
		return 0, err
	}

	// First observation of this member creates the entry, and the creation
	// is persisted so later reads see the same document.
	if ledger.Ensure(guildID, memberID) {
		if err := r.s.Save(ledgerDocumentName, ledger); err != nil {
			return 0, err
		}
	}

	return ledger.Balance(guildID, memberID), nil
}

func (r *ledgerRepo) Credit(_ context.Context, guildID, memberID string, amount int) (int, error) {
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	ledger, err := r.load()
	if err != nil {
		return 0, err
	}

	balance := ledger.Apply(guildID, memberID, amount)
	if err := r.s.Save(ledgerDocumentName, ledger); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *ledgerRepo) Debit(_ context.Context, guildID, memberID string, amount int) (int, error) {
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	ledger, err := r.load()
	if err != nil {
		return 0, err
	}

	if ledger.Balance(guildID, memberID)-amount < 0 {
		return 0, store.ErrNegativeBalance
	}

	balance := ledger.Apply(guildID, memberID, -amount)
	if err := r.s.Save(ledgerDocumentName, ledger); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *ledgerRepo) Snapshot(_ context.Context) (domain.Ledger, error) {
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	ledger, err := r.load()
	if err != nil {
		return nil, err
	}

	out := domain.Ledger{}
	for guildID, members := range ledger {
		out[guildID] = make(map[string]int, len(members))
		for memberID, balance := range members {
			out[guildID][memberID] = balance
		}
	}
	return out, nil
}
