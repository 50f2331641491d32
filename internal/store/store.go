// Package store handles SQL persistence of player stats and round history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// ErrNotFound is returned when a player has no stored record.
var ErrNotFound = errors.New("player not found")

const (
	maxAttempts  = 3
	retryBackoff = 25 * time.Millisecond
	// Fixed width so text comparison orders timestamps.
	timeLayout   = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store wraps SQL access for player stats.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens or creates the SQLite database at path and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return OpenDSN("sqlite", path)
}

// OpenDSN opens a database for the named driver (sqlite, postgres or mysql).
func OpenDSN(driver, dsn string) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn for %s", dialect.Name())
	}
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, dialect: dialect}
	if err := dialect.ConfigureConnection(db); err != nil {
		store.closeQuietly()
		return nil, err
	}
	if err := store.migrate(); err != nil {
		store.closeQuietly()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the name of the active SQL dialect.
func (s *Store) Dialect() string {
	return s.dialect.Name()
}

func (s *Store) closeQuietly() {
	if cerr := s.db.Close(); cerr != nil {
		// Best-effort close on setup failure.
		_ = cerr
	}
}

func (s *Store) migrate() error {
	for _, stmt := range s.dialect.Migrations() {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// withRetry runs fn up to maxAttempts times while the backend reports a
// transient conflict.
func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !s.dialect.Retryable(err) || attempt == maxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const playerColumns = `wallet_address, score, xp, display_identity, nft_minted, updated_at`

// GetPlayer returns the stored stats for wallet.
func (s *Store) GetPlayer(ctx context.Context, wallet string) (model.PlayerStats, error) {
	return s.getPlayer(ctx, s.db, wallet)
}

func (s *Store) getPlayer(ctx context.Context, q queryer, wallet string) (model.PlayerStats, error) {
	query := s.dialect.Rebind(`SELECT ` + playerColumns + ` FROM players WHERE wallet_address = ?`)
	var stats model.PlayerStats
	var updatedAt string
	err := q.QueryRowContext(ctx, query, wallet).Scan(
		&stats.WalletAddress,
		&stats.Score,
		&stats.XP,
		&stats.DisplayIdentity,
		&stats.NFTMinted,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PlayerStats{}, ErrNotFound
	}
	if err != nil {
		return model.PlayerStats{}, err
	}
	parsed, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return model.PlayerStats{}, err
	}
	stats.UpdatedAt = parsed
	return stats, nil
}

// UpsertScore stores max(existing, score) and adds xpDelta in one statement
// and returns the merged record.
func (s *Store) UpsertScore(ctx context.Context, wallet string, score int, xpDelta float64) (model.PlayerStats, error) {
	var merged model.PlayerStats
	err := s.withRetry(ctx, func() (err error) {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				if rerr := tx.Rollback(); rerr != nil {
					// Best-effort rollback.
					_ = rerr
				}
			}
		}()
		now := time.Now().UTC().Format(timeLayout)
		if _, err = tx.ExecContext(ctx, s.dialect.Rebind(s.dialect.UpsertScore()), wallet, score, xpDelta, false, now); err != nil {
			return err
		}
		merged, err = s.getPlayer(ctx, tx, wallet)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return model.PlayerStats{}, err
	}
	return merged, nil
}

// SetIdentity stores the display identity, creating the player if needed.
func (s *Store) SetIdentity(ctx context.Context, wallet, identity string) error {
	now := time.Now().UTC().Format(timeLayout)
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, s.dialect.Rebind(s.dialect.UpsertIdentity()), wallet, identity, false, now)
		return err
	})
}

// MarkNFTMinted flags the achievement NFT as minted for wallet.
func (s *Store) MarkNFTMinted(ctx context.Context, wallet string) error {
	now := time.Now().UTC().Format(timeLayout)
	query := s.dialect.Rebind(`UPDATE players SET nft_minted = ?, updated_at = ? WHERE wallet_address = ?`)
	var affected int64
	err := s.withRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx, query, true, now, wallet)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Leaderboard returns the top players ordered by score, then XP.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := s.dialect.Rebind(`SELECT wallet_address, display_identity, score, xp
		FROM players
		ORDER BY score DESC, xp DESC, wallet_address ASC
		LIMIT ?`)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		entry := model.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.WalletAddress, &entry.DisplayIdentity, &entry.Score, &entry.XP); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountQualified counts players whose best score is at least minScore.
func (s *Store) CountQualified(ctx context.Context, minScore int) (int, error) {
	var count int
	query := s.dialect.Rebind(`SELECT COUNT(*) FROM players WHERE score >= ?`)
	if err := s.db.QueryRowContext(ctx, query, minScore).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertRound stores a finished set attempt.
func (s *Store) InsertRound(ctx context.Context, r model.RoundRecord) (int64, error) {
	query := `INSERT INTO rounds (session_id, wallet_address, set_index, mode, outcome, score, matched_pairs, pair_count, xp_earned, started_at, ended_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		r.SessionID,
		r.WalletAddress,
		r.SetIndex,
		r.Mode,
		r.Outcome,
		r.Score,
		r.MatchedPairs,
		r.PairCount,
		r.XPEarned,
		r.StartedAt.UTC().Format(timeLayout),
		r.EndedAt.UTC().Format(timeLayout),
		r.DurationMs,
	}
	var id int64
	err := s.withRetry(ctx, func() error {
		if !s.dialect.SupportsLastInsertID() {
			return s.db.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		}
		res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListRounds returns rounds in chronological order filtered by wallet and
// time. Last keeps only the most recent rounds.
func (s *Store) ListRounds(ctx context.Context, filter model.HistoryFilter) ([]model.RoundRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Wallet != "" {
		clauses = append(clauses, "wallet_address = ?")
		args = append(args, filter.Wallet)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, session_id, wallet_address, set_index, mode, outcome, score, matched_pairs, pair_count, xp_earned, started_at, ended_at, duration_ms
		FROM rounds
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundRecord
	for rows.Next() {
		var r model.RoundRecord
		var startedAt, endedAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.WalletAddress, &r.SetIndex, &r.Mode, &r.Outcome,
			&r.Score, &r.MatchedPairs, &r.PairCount, &r.XPEarned, &startedAt, &endedAt, &r.DurationMs); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(rounds) > filter.Last {
		rounds = rounds[len(rounds)-filter.Last:]
	}
	return rounds, nil
}
