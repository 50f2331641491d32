package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "cryptomatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("close store: %v", cerr)
		}
	})
	return st
}

func TestUpsertScoreKeepsMaxAndAddsXP(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.GetPlayer(ctx, "0xabc")
	require.ErrorIs(t, err, ErrNotFound)

	stats, err := st.UpsertScore(ctx, "0xabc", 7, 2.5)
	require.NoError(t, err)
	require.Equal(t, 7, stats.Score)
	require.InDelta(t, 2.5, stats.XP, 1e-9)
	require.False(t, stats.NFTMinted)
	require.False(t, stats.UpdatedAt.IsZero())

	stats, err = st.UpsertScore(ctx, "0xabc", 3, 1)
	require.NoError(t, err)
	require.Equal(t, 7, stats.Score)
	require.InDelta(t, 3.5, stats.XP, 1e-9)

	stats, err = st.UpsertScore(ctx, "0xabc", 12, 0)
	require.NoError(t, err)
	require.Equal(t, 12, stats.Score)
	require.InDelta(t, 3.5, stats.XP, 1e-9)

	// Replaying a candidate score never lowers the stored best.
	stats, err = st.UpsertScore(ctx, "0xabc", 12, 0)
	require.NoError(t, err)
	require.Equal(t, 12, stats.Score)

	got, err := st.GetPlayer(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, stats.Score, got.Score)
	require.InDelta(t, stats.XP, got.XP, 1e-9)
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	for _, p := range []struct {
		wallet string
		score  int
		xp     float64
	}{
		{"0x01", 10, 5},
		{"0x02", 30, 1},
		{"0x03", 10, 9},
		{"0x04", 1, 100},
	} {
		_, err := st.UpsertScore(ctx, p.wallet, p.score, p.xp)
		require.NoError(t, err)
	}
	require.NoError(t, st.SetIdentity(ctx, "0x03", "alice.eth"))

	entries, err := st.Leaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "0x02", entries[0].WalletAddress)
	require.Equal(t, "0x03", entries[1].WalletAddress)
	require.Equal(t, "alice.eth", entries[1].DisplayIdentity)
	require.Equal(t, "0x01", entries[2].WalletAddress)
	for i, e := range entries {
		require.Equal(t, i+1, e.Rank)
	}

	count, err := st.CountQualified(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	entries, err = st.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSetIdentityCreatesPlayer(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.SetIdentity(ctx, "0xdef", "@bob"))
	stats, err := st.GetPlayer(ctx, "0xdef")
	require.NoError(t, err)
	require.Equal(t, "@bob", stats.DisplayIdentity)
	require.Equal(t, 0, stats.Score)

	_, err = st.UpsertScore(ctx, "0xdef", 4, 1)
	require.NoError(t, err)
	stats, err = st.GetPlayer(ctx, "0xdef")
	require.NoError(t, err)
	require.Equal(t, "@bob", stats.DisplayIdentity)
}

func TestMarkNFTMinted(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.ErrorIs(t, st.MarkNFTMinted(ctx, "0xmissing"), ErrNotFound)

	_, err := st.UpsertScore(ctx, "0xabc", 120, 10)
	require.NoError(t, err)
	require.NoError(t, st.MarkNFTMinted(ctx, "0xabc"))
	stats, err := st.GetPlayer(ctx, "0xabc")
	require.NoError(t, err)
	require.True(t, stats.NFTMinted)

	stats, err = st.UpsertScore(ctx, "0xabc", 1, 1)
	require.NoError(t, err)
	require.True(t, stats.NFTMinted)
}

func TestRoundsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		wallet := "0xabc"
		if i == 2 {
			wallet = ""
		}
		started := base.Add(time.Duration(i) * time.Minute)
		id, err := st.InsertRound(ctx, model.RoundRecord{
			SessionID:     fmt.Sprintf("session-%d", i/2),
			WalletAddress: wallet,
			SetIndex:      i,
			Mode:          "Classic Mode",
			Outcome:       model.OutcomeCompleted,
			Score:         (i + 1) * 5,
			MatchedPairs:  5,
			PairCount:     5,
			XPEarned:      5,
			StartedAt:     started,
			EndedAt:       started.Add(30 * time.Second),
			DurationMs:    30000,
		})
		require.NoError(t, err)
		require.Positive(t, id)
	}

	all, err := st.ListRounds(ctx, model.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, 0, all[0].SetIndex)
	require.True(t, all[0].EndedAt.Equal(base.Add(30*time.Second)))

	mine, err := st.ListRounds(ctx, model.HistoryFilter{Wallet: "0xabc"})
	require.NoError(t, err)
	require.Len(t, mine, 3)

	since := base.Add(100 * time.Second)
	recent, err := st.ListRounds(ctx, model.HistoryFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, 2, recent[0].SetIndex)

	last, err := st.ListRounds(ctx, model.HistoryFilter{Last: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, 3, last[0].SetIndex)
	require.Equal(t, 20, last[0].Score)
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]string{
		"":           "sqlite",
		"SQLite":     "sqlite",
		"postgresql": "postgres",
		"mysql":      "mysql",
	} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		require.Equal(t, want, d.Name())
	}
	_, err := DialectFor("oracle")
	require.Error(t, err)
}

func TestRebindNumbered(t *testing.T) {
	d, err := DialectFor("postgres")
	require.NoError(t, err)
	require.Equal(t,
		"SELECT a FROM t WHERE x = $1 AND y >= $2 LIMIT $3",
		d.Rebind("SELECT a FROM t WHERE x = ? AND y >= ? LIMIT ?"))

	lite, err := DialectFor("sqlite")
	require.NoError(t, err)
	require.Equal(t, "x = ?", lite.Rebind("x = ?"))
}

func TestRetryableErrors(t *testing.T) {
	lite, _ := DialectFor("sqlite")
	pg, _ := DialectFor("postgres")
	my, _ := DialectFor("mysql")

	require.True(t, lite.Retryable(errors.New("database is locked (5) (SQLITE_BUSY)")))
	require.False(t, lite.Retryable(errors.New("no such table")))
	require.False(t, lite.Retryable(nil))

	require.True(t, pg.Retryable(fmt.Errorf("upsert: %w", &pq.Error{Code: "40001"})))
	require.False(t, pg.Retryable(&pq.Error{Code: "23505"}))

	require.True(t, my.Retryable(&mysql.MySQLError{Number: 1213}))
	require.False(t, my.Retryable(&mysql.MySQLError{Number: 1062}))
	require.False(t, my.Retryable(errors.New("plain")))
}

func TestOpenDSNRejectsEmpty(t *testing.T) {
	_, err := OpenDSN("postgres", "")
	require.Error(t, err)
}
