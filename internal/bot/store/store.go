package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
)

var (
	// ErrPoolEmpty is returned when the accounts pool has nothing to claim.
	ErrPoolEmpty = errors.New("store: pool empty")

	// ErrNegativeBalance guards the ledger invariant: a debit may never take
	// a balance below zero.
	ErrNegativeBalance = errors.New("store: balance would go negative")

	// ErrInvalidDocument is returned when a save is attempted with a value
	// that does not encode to a keyed JSON object.
	ErrInvalidDocument = errors.New("store: document must be a keyed mapping")
)

// Store is the root data access interface. Concrete drivers (file today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, the same split the stored documents have on disk.
type Store interface {
	Pool() Pool
	Ledger() Ledger

	// Close releases any underlying resources.
	Close() error
}

// Pool is the ordered set of unclaimed accounts. Insertion order is claim
// order: the front of the pool is the oldest account and is claimed first.
type Pool interface {
	// Accounts returns the pool in claim order.
	Accounts(ctx context.Context) ([]string, error)

	// Size returns the number of unclaimed accounts.
	Size(ctx context.Context) (int, error)

	// Add appends an account to the back of the pool.
	Add(ctx context.Context, account string) error

	// First returns the next claimable account without removing it, or
	// ErrPoolEmpty. Claims peek here before attempting delivery.
	First(ctx context.Context) (string, error)

	// RemoveFirst pops the front of the pool and persists the removal. It is
	// the commit half of a claim and must only run after delivery succeeded.
	RemoveFirst(ctx context.Context) (string, error)
}

// Ledger tracks per-guild, per-member credit balances.
type Ledger interface {
	// Balance returns the member's balance, lazily initialising an absent
	// entry to 0 and persisting that initialisation.
	Balance(ctx context.Context, guildID, memberID string) (int, error)

	// Credit adds amount to the member's balance and returns the new value.
	Credit(ctx context.Context, guildID, memberID string, amount int) (int, error)

	// Debit subtracts amount from the member's balance and returns the new
	// value. Fails with ErrNegativeBalance rather than going below zero.
	Debit(ctx context.Context, guildID, memberID string, amount int) (int, error)

	// Snapshot returns a copy of the full ledger, for read-only inspection.
	Snapshot(ctx context.Context) (domain.Ledger, error)
}
