package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	saved := poolDocument{Accounts: []string{"alpha", "beta"}}
	require.NoError(t, s.Save("accounts", saved))

	var loaded poolDocument
	require.NoError(t, s.Load("accounts", defaultPoolDocument(), &loaded))
	require.Equal(t, saved, loaded)
}

func TestSaveRejectsNonMappingDocuments(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.ErrorIs(t, s.Save("accounts", []string{"alpha"}), store.ErrInvalidDocument)
	require.ErrorIs(t, s.Save("accounts", "alpha"), store.ErrInvalidDocument)
	require.ErrorIs(t, s.Save("accounts", 42), store.ErrInvalidDocument)

	// Nothing may have been written by a rejected save.
	_, err := os.Stat(s.path("accounts"))
	require.True(t, os.IsNotExist(err))
}

func TestSaveLeavesNoTemporaryFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Save("accounts", defaultPoolDocument()))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "accounts.json", entries[0].Name())
}

func TestLoadHealsMissingFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var loaded poolDocument
	require.NoError(t, s.Load("accounts", poolDocument{Accounts: []string{}}, &loaded))
	require.Empty(t, loaded.Accounts)

	// The default must have been persisted, so a second load reads the file
	// rather than healing again.
	data, err := os.ReadFile(s.path("accounts"))
	require.NoError(t, err)
	require.JSONEq(t, `{"accounts": []}`, string(data))

	var again poolDocument
	require.NoError(t, s.Load("accounts", poolDocument{Accounts: []string{}}, &again))
	require.Equal(t, loaded, again)
}

func TestLoadHealsCorruptFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.path("accounts"), []byte("{not json"), 0o644))

	var loaded poolDocument
	require.NoError(t, s.Load("accounts", poolDocument{Accounts: []string{"seed"}}, &loaded))
	require.Equal(t, []string{"seed"}, loaded.Accounts)

	data, err := os.ReadFile(s.path("accounts"))
	require.NoError(t, err)
	require.JSONEq(t, `{"accounts": ["seed"]}`, string(data))
}

func TestLoadHealsWrongShape(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// Valid JSON, wrong shape for the ledger.
	require.NoError(t, os.WriteFile(s.path("invites"), []byte(`{"g": "oops"}`), 0o644))

	ledger := domain.Ledger{}
	require.NoError(t, s.Load("invites", domain.Ledger{}, &ledger))
	require.Empty(t, ledger)
}

func TestDocumentsArePrettyPrinted(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Save("accounts", poolDocument{Accounts: []string{"alpha"}}))

	data, err := os.ReadFile(filepath.Join(s.dir, "accounts.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), "\n    \"accounts\"")
}

func TestPoolFIFO(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pool := newTestStore(t).Pool()

	_, err := pool.First(ctx)
	require.ErrorIs(t, err, store.ErrPoolEmpty)

	require.NoError(t, pool.Add(ctx, "oldest"))
	require.NoError(t, pool.Add(ctx, "newest"))

	first, err := pool.First(ctx)
	require.NoError(t, err)
	require.Equal(t, "oldest", first)

	size, err := pool.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, size)

	removed, err := pool.RemoveFirst(ctx)
	require.NoError(t, err)
	require.Equal(t, "oldest", removed)

	remaining, err := pool.Accounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"newest"}, remaining)
}

func TestLedgerLazyInitialisationPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	balance, err := s.Ledger().Balance(ctx, "guild", "member")
	require.NoError(t, err)
	require.Zero(t, balance)

	// The initialisation must be durable, not just in-memory.
	data, err := os.ReadFile(s.path("invites"))
	require.NoError(t, err)
	require.JSONEq(t, `{"guild": {"member": 0}}`, string(data))
}

func TestLedgerCreditAndDebit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := newTestStore(t).Ledger()

	balance, err := ledger.Credit(ctx, "guild", "member", 2)
	require.NoError(t, err)
	require.Equal(t, 2, balance)

	balance, err = ledger.Debit(ctx, "guild", "member", 1)
	require.NoError(t, err)
	require.Equal(t, 1, balance)

	_, err = ledger.Debit(ctx, "guild", "member", 5)
	require.ErrorIs(t, err, store.ErrNegativeBalance)

	balance, err = ledger.Balance(ctx, "guild", "member")
	require.NoError(t, err)
	require.Equal(t, 1, balance)
}
