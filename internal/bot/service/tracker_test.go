package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway/gatewaytest"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/store/drivers/file"
)

func newTracker(t *testing.T) (*TrackerService, *gatewaytest.Fake) {
	t.Helper()

	db, err := file.NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	gw := gatewaytest.New()
	return &TrackerService{Store: db, Gateway: gw, Cache: NewInviteCache()}, gw
}

func TestPrimeGuild(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caches live counts", func(t *testing.T) {
		tracker, gw := newTracker(t)
		gw.Invites["g1"] = []domain.Invite{
			{Code: "aaa", GuildID: "g1", InviterID: "alice", Uses: 3},
			{Code: "bbb", GuildID: "g1", InviterID: "bob", Uses: 5},
		}

		require.NoError(t, tracker.PrimeGuild(ctx, "g1"))
		require.Equal(t, map[string]int{"aaa": 3, "bbb": 5}, tracker.Cache.Snapshot("g1"))
	})

	t.Run("permission failure leaves cache absent", func(t *testing.T) {
		tracker, gw := newTracker(t)
		gw.InvitesErr = gateway.ErrPermissionDenied

		require.NoError(t, tracker.PrimeGuild(ctx, "g1"))
		require.Empty(t, tracker.Cache.Snapshot("g1"))
	})
}

func TestAttributeJoin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("credits the inviter behind the grown counter", func(t *testing.T) {
		tracker, gw := newTracker(t)
		tracker.Cache.Replace("g1", map[string]int{"aaa": 3, "bbb": 5})
		gw.Invites["g1"] = []domain.Invite{
			{Code: "aaa", GuildID: "g1", InviterID: "alice", Uses: 3},
			{Code: "bbb", GuildID: "g1", InviterID: "bob", Uses: 6},
		}

		inviterID, ok, err := tracker.AttributeJoin(ctx, "g1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "bob", inviterID)

		balance, err := tracker.Store.Ledger().Balance(ctx, "g1", "bob")
		require.NoError(t, err)
		require.Equal(t, 1, balance)

		require.Equal(t, map[string]int{"aaa": 3, "bbb": 6}, tracker.Cache.Snapshot("g1"))
	})

	t.Run("no delta issues no credit", func(t *testing.T) {
		tracker, gw := newTracker(t)
		tracker.Cache.Replace("g1", map[string]int{"aaa": 3, "bbb": 5})
		gw.Invites["g1"] = []domain.Invite{
			{Code: "aaa", GuildID: "g1", InviterID: "alice", Uses: 3},
			{Code: "bbb", GuildID: "g1", InviterID: "bob", Uses: 5},
		}

		_, ok, err := tracker.AttributeJoin(ctx, "g1")
		require.NoError(t, err)
		require.False(t, ok)

		snapshot, err := tracker.Store.Ledger().Snapshot(ctx)
		require.NoError(t, err)
		require.Empty(t, snapshot)
	})

	t.Run("absent cache entries read as zero", func(t *testing.T) {
		tracker, gw := newTracker(t)
		gw.Invites["g1"] = []domain.Invite{
			{Code: "aaa", GuildID: "g1", InviterID: "alice", Uses: 1},
		}

		inviterID, ok, err := tracker.AttributeJoin(ctx, "g1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "alice", inviterID)
	})

	t.Run("first match wins when several counters grew", func(t *testing.T) {
		tracker, gw := newTracker(t)
		tracker.Cache.Replace("g1", map[string]int{"aaa": 1, "bbb": 1})
		gw.Invites["g1"] = []domain.Invite{
			{Code: "aaa", GuildID: "g1", InviterID: "alice", Uses: 2},
			{Code: "bbb", GuildID: "g1", InviterID: "bob", Uses: 2},
		}

		inviterID, ok, err := tracker.AttributeJoin(ctx, "g1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "alice", inviterID)

		// Only the matched invite's cache entry moves.
		require.Equal(t, map[string]int{"aaa": 2, "bbb": 1}, tracker.Cache.Snapshot("g1"))

		balance, err := tracker.Store.Ledger().Balance(ctx, "g1", "bob")
		require.NoError(t, err)
		require.Zero(t, balance)
	})

	t.Run("permission failure yields no state change and no error", func(t *testing.T) {
		tracker, gw := newTracker(t)
		gw.InvitesErr = gateway.ErrPermissionDenied

		_, ok, err := tracker.AttributeJoin(ctx, "g1")
		require.NoError(t, err)
		require.False(t, ok)

		snapshot, err := tracker.Store.Ledger().Snapshot(ctx)
		require.NoError(t, err)
		require.Empty(t, snapshot)
	})
}

func TestRecordInviteCreated(t *testing.T) {
	t.Parallel()

	tracker, _ := newTracker(t)
	tracker.RecordInviteCreated(context.Background(), "g1", "fresh", 0)
	require.Equal(t, map[string]int{"fresh": 0}, tracker.Cache.Snapshot("g1"))
}
