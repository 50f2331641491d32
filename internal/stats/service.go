package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/cryptomatch/internal/model"
	"github.com/verte-zerg/cryptomatch/internal/store"
)

var (
	// ErrNotFound means the player has no stored stats yet.
	ErrNotFound = store.ErrNotFound
	// ErrDisabled is returned by every call when no wallet is connected.
	ErrDisabled = errors.New("stats disabled: no wallet connected")
	// ErrInvalidWallet means the player id is not a hex wallet address.
	ErrInvalidWallet = errors.New("invalid wallet address")
	// ErrNotEligible means the player's best score is below QualifyScore.
	ErrNotEligible = errors.New("score below NFT qualification threshold")
	// ErrInvalidUpdate rejects negative scores or XP deltas.
	ErrInvalidUpdate = errors.New("score and xp delta must be non-negative")
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Service is the persistent player stats backend.
type Service interface {
	GetStats(ctx context.Context, player string) (model.PlayerStats, error)
	// UpdateStats stores max(existing, score) and adds xpDelta atomically.
	UpdateStats(ctx context.Context, player string, score int, xpDelta float64) (model.PlayerStats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	SetIdentity(ctx context.Context, player, display string) error
	MarkNFTMinted(ctx context.Context, player string) error
	CountQualified(ctx context.Context, minScore int) (int, error)
}

// ClampLimit applies the leaderboard default and upper bound.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

// Local serves stats straight from a store.
type Local struct {
	st  *store.Store
	log zerolog.Logger
}

// NewLocal wraps st as a Service.
func NewLocal(st *store.Store, log zerolog.Logger) *Local {
	return &Local{st: st, log: log.With().Str("component", "stats").Logger()}
}

func (l *Local) GetStats(ctx context.Context, player string) (model.PlayerStats, error) {
	wallet, err := NormalizeWallet(player)
	if err != nil {
		return model.PlayerStats{}, err
	}
	return l.st.GetPlayer(ctx, wallet)
}

func (l *Local) UpdateStats(ctx context.Context, player string, score int, xpDelta float64) (model.PlayerStats, error) {
	wallet, err := NormalizeWallet(player)
	if err != nil {
		return model.PlayerStats{}, err
	}
	if score < 0 || xpDelta < 0 {
		return model.PlayerStats{}, ErrInvalidUpdate
	}
	stats, err := l.st.UpsertScore(ctx, wallet, score, xpDelta)
	if err != nil {
		return model.PlayerStats{}, fmt.Errorf("update stats: %w", err)
	}
	l.log.Debug().
		Str("wallet", wallet).
		Int("candidate", score).
		Int("best", stats.Score).
		Float64("xp", stats.XP).
		Msg("stats updated")
	return stats, nil
}

func (l *Local) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return l.st.Leaderboard(ctx, ClampLimit(limit))
}

func (l *Local) SetIdentity(ctx context.Context, player, display string) error {
	wallet, err := NormalizeWallet(player)
	if err != nil {
		return err
	}
	return l.st.SetIdentity(ctx, wallet, display)
}

func (l *Local) MarkNFTMinted(ctx context.Context, player string) error {
	wallet, err := NormalizeWallet(player)
	if err != nil {
		return err
	}
	stats, err := l.st.GetPlayer(ctx, wallet)
	if err != nil {
		return err
	}
	if stats.Score < QualifyScore {
		return ErrNotEligible
	}
	if err := l.st.MarkNFTMinted(ctx, wallet); err != nil {
		return err
	}
	l.log.Info().Str("wallet", wallet).Int("score", stats.Score).Msg("achievement nft minted")
	return nil
}

func (l *Local) CountQualified(ctx context.Context, minScore int) (int, error) {
	return l.st.CountQualified(ctx, minScore)
}

// Disabled is the Service used without a connected wallet.
type Disabled struct{}

func (Disabled) GetStats(context.Context, string) (model.PlayerStats, error) {
	return model.PlayerStats{}, ErrDisabled
}

func (Disabled) UpdateStats(context.Context, string, int, float64) (model.PlayerStats, error) {
	return model.PlayerStats{}, ErrDisabled
}

func (Disabled) GetLeaderboard(context.Context, int) ([]model.LeaderboardEntry, error) {
	return nil, ErrDisabled
}

func (Disabled) SetIdentity(context.Context, string, string) error { return ErrDisabled }

func (Disabled) MarkNFTMinted(context.Context, string) error { return ErrDisabled }

func (Disabled) CountQualified(context.Context, int) (int, error) { return 0, ErrDisabled }
