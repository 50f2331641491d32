// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Wallet      string
	Identity    string
	Layout      string
	StatsURL    string
	CatalogPath string
	DBDriver    string
	DBDSN       string
	Policy      PolicyConfig
}

// PolicyConfig holds the tunable scoring and timing knobs.
type PolicyConfig struct {
	ChainWindowMs     int
	ComboStep         float64
	ComboCap          float64
	IncorrectWindowMs int
	ToastMs           int
}

// WordPair is a term and its definition.
type WordPair struct {
	Term       string `toml:"term" json:"term"`
	Definition string `toml:"definition" json:"definition"`
}

// CardKind tells which side of a WordPair a card shows.
type CardKind int

const (
	KindTerm CardKind = iota
	KindDefinition
)

func (k CardKind) String() string {
	switch k {
	case KindTerm:
		return "term"
	case KindDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// Card is one face of a WordPair on the board.
type Card struct {
	ID        int
	Text      string
	Kind      CardKind
	Matched   bool
	Selected  bool
	Incorrect bool
}

// SpecialRules are optional per-mode rule switches.
type SpecialRules struct {
	InvisibleCards         bool `toml:"invisible-cards"`
	ShuffleIntervalSeconds int  `toml:"shuffle-interval"`
	ChainCombo             bool `toml:"chain-combo"`
	MemoryPhaseSeconds     int  `toml:"memory-phase"`
	SpeedRound             bool `toml:"speed-round"`
}

// GameMode is a named ruleset applied to two consecutive sets.
type GameMode struct {
	Name             string       `toml:"name"`
	Description      string       `toml:"description"`
	TimeLimitSeconds int          `toml:"time-limit"`
	XPMultiplier     float64      `toml:"xp-multiplier"`
	Rules            SpecialRules `toml:"rules"`
}

// PlayerStats is the persisted record of a player.
type PlayerStats struct {
	WalletAddress   string    `json:"walletAddress"`
	Score           int       `json:"score"`
	XP              float64   `json:"xp"`
	DisplayIdentity string    `json:"displayIdentity,omitempty"`
	NFTMinted       bool      `json:"nftMinted"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	WalletAddress   string  `json:"walletAddress"`
	DisplayIdentity string  `json:"displayIdentity,omitempty"`
	Score           int     `json:"score"`
	XP              float64 `json:"xp"`
}

// Round outcomes recorded in history.
const (
	OutcomeCompleted = "completed"
	OutcomeTimeout   = "timeout"
)

// RoundRecord captures one finished set attempt.
type RoundRecord struct {
	ID            int64
	SessionID     string
	WalletAddress string
	SetIndex      int
	Mode          string
	Outcome       string
	Score         int
	MatchedPairs  int
	PairCount     int
	XPEarned      float64
	StartedAt     time.Time
	EndedAt       time.Time
	DurationMs    int64
}

// HistoryFilter defines filters and options for history output.
type HistoryFilter struct {
	Wallet      string
	Since       *time.Time
	Last        int
	CurveWindow int
}
