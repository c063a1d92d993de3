package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerEnsure(t *testing.T) {
	t.Parallel()

	ledger := Ledger{}
	require.True(t, ledger.Ensure("g1", "m1"))
	require.False(t, ledger.Ensure("g1", "m1"))
	require.Zero(t, ledger.Balance("g1", "m1"))
}

func TestLedgerApply(t *testing.T) {
	t.Parallel()

	ledger := Ledger{}
	require.Equal(t, 2, ledger.Apply("g1", "m1", 2))
	require.Equal(t, 1, ledger.Apply("g1", "m1", -1))
	require.Equal(t, 1, ledger.Balance("g1", "m1"))

	// Absent members read as zero without being created.
	require.Zero(t, ledger.Balance("g1", "other"))
	_, exists := ledger["g1"]["other"]
	require.False(t, exists)
}
