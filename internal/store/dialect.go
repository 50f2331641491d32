package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Dialect isolates the SQL that differs between backends.
type Dialect interface {
	// Name is the config value selecting the dialect.
	Name() string
	// DriverName is passed to sql.Open.
	DriverName() string
	// Rebind rewrites ? placeholders when the driver needs another syntax.
	Rebind(query string) string
	// SupportsLastInsertID reports whether Result.LastInsertId works.
	SupportsLastInsertID() bool
	ConfigureConnection(db *sql.DB) error
	Migrations() []string
	// UpsertScore takes wallet, score, xp delta, nft flag, updated_at.
	UpsertScore() string
	// UpsertIdentity takes wallet, identity, nft flag, updated_at.
	UpsertIdentity() string
	// Retryable reports transient lock or serialization conflicts.
	Retryable(err error) bool
}

// DialectFor maps a driver name from config to a Dialect.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "postgres", "postgresql", "pg":
		return postgresDialect{}, nil
	case "mysql", "mariadb":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

func rebindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) SupportsLastInsertID() bool { return true }

func (sqliteDialect) ConfigureConnection(db *sql.DB) error {
	// SQLite has one writer; keep a single pooled connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		return err
	}
	return nil
}

func (sqliteDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS players (
			wallet_address TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0,
			xp REAL NOT NULL DEFAULT 0,
			display_identity TEXT NOT NULL DEFAULT '',
			nft_minted INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			wallet_address TEXT NOT NULL,
			set_index INTEGER NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			matched_pairs INTEGER NOT NULL,
			pair_count INTEGER NOT NULL,
			xp_earned REAL NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_players_score ON players(score DESC, xp DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
	}
}

func (sqliteDialect) UpsertScore() string {
	return `INSERT INTO players (wallet_address, score, xp, nft_minted, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(wallet_address) DO UPDATE SET
			score = MAX(players.score, excluded.score),
			xp = players.xp + excluded.xp,
			updated_at = excluded.updated_at`
}

func (sqliteDialect) UpsertIdentity() string {
	return `INSERT INTO players (wallet_address, display_identity, nft_minted, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(wallet_address) DO UPDATE SET
			display_identity = excluded.display_identity,
			updated_at = excluded.updated_at`
}

func (sqliteDialect) Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) DriverName() string { return "postgres" }
func (postgresDialect) Rebind(query string) string { return rebindNumbered(query) }
func (postgresDialect) SupportsLastInsertID() bool { return false }

func (postgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func (postgresDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS players (
			wallet_address TEXT PRIMARY KEY,
			score INTEGER NOT NULL DEFAULT 0,
			xp DOUBLE PRECISION NOT NULL DEFAULT 0,
			display_identity TEXT NOT NULL DEFAULT '',
			nft_minted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			wallet_address TEXT NOT NULL,
			set_index INTEGER NOT NULL,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			matched_pairs INTEGER NOT NULL,
			pair_count INTEGER NOT NULL,
			xp_earned DOUBLE PRECISION NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_players_score ON players(score DESC, xp DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
	}
}

func (postgresDialect) UpsertScore() string {
	return `INSERT INTO players (wallet_address, score, xp, nft_minted, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (wallet_address) DO UPDATE SET
			score = GREATEST(players.score, EXCLUDED.score),
			xp = players.xp + EXCLUDED.xp,
			updated_at = EXCLUDED.updated_at`
}

func (postgresDialect) UpsertIdentity() string {
	return `INSERT INTO players (wallet_address, display_identity, nft_minted, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (wallet_address) DO UPDATE SET
			display_identity = EXCLUDED.display_identity,
			updated_at = EXCLUDED.updated_at`
}

func (postgresDialect) Retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	default:
		return false
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) DriverName() string { return "mysql" }
func (mysqlDialect) Rebind(query string) string { return query }
func (mysqlDialect) SupportsLastInsertID() bool { return true }

func (mysqlDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func (mysqlDialect) Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS players (
			wallet_address VARCHAR(64) PRIMARY KEY,
			score INT NOT NULL DEFAULT 0,
			xp DOUBLE NOT NULL DEFAULT 0,
			display_identity VARCHAR(255) NOT NULL DEFAULT '',
			nft_minted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at VARCHAR(64) NOT NULL,
			INDEX idx_players_score (score, xp)
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			session_id VARCHAR(64) NOT NULL,
			wallet_address VARCHAR(64) NOT NULL,
			set_index INT NOT NULL,
			mode VARCHAR(128) NOT NULL,
			outcome VARCHAR(32) NOT NULL,
			score INT NOT NULL,
			matched_pairs INT NOT NULL,
			pair_count INT NOT NULL,
			xp_earned DOUBLE NOT NULL,
			started_at VARCHAR(64) NOT NULL,
			ended_at VARCHAR(64) NOT NULL,
			duration_ms BIGINT NOT NULL,
			INDEX idx_rounds_ended_at (ended_at)
		);`,
	}
}

func (mysqlDialect) UpsertScore() string {
	return `INSERT INTO players (wallet_address, score, xp, nft_minted, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			score = GREATEST(score, VALUES(score)),
			xp = xp + VALUES(xp),
			updated_at = VALUES(updated_at)`
}

func (mysqlDialect) UpsertIdentity() string {
	return `INSERT INTO players (wallet_address, display_identity, nft_minted, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			display_identity = VALUES(display_identity),
			updated_at = VALUES(updated_at)`
}

func (mysqlDialect) Retryable(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	// 1205 lock wait timeout, 1213 deadlock.
	return myErr.Number == 1205 || myErr.Number == 1213
}
