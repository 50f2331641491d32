package engine

import (
	"math"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/generator"
	"github.com/verte-zerg/cryptomatch/internal/model"
)

// Policy holds scoring and timing constants.
type Policy struct {
	BaseXP          float64
	ChainWindow     time.Duration
	ComboStep       float64
	ComboCap        float64
	IncorrectWindow time.Duration
	ToastDuration   time.Duration
	Layout          generator.Layout
}

// DefaultPolicy returns the reference constants.
func DefaultPolicy() Policy {
	return Policy{
		BaseXP:          1,
		ChainWindow:     3000 * time.Millisecond,
		ComboStep:       0.5,
		ComboCap:        2,
		IncorrectWindow: 500 * time.Millisecond,
		ToastDuration:   3000 * time.Millisecond,
		Layout:          generator.LayoutColumns,
	}
}

// WithConfig overrides the policy with every positive value from cfg.
func (p Policy) WithConfig(cfg model.PolicyConfig) Policy {
	if cfg.ChainWindowMs > 0 {
		p.ChainWindow = time.Duration(cfg.ChainWindowMs) * time.Millisecond
	}
	if cfg.ComboStep > 0 {
		p.ComboStep = cfg.ComboStep
	}
	if cfg.ComboCap > 0 {
		p.ComboCap = cfg.ComboCap
	}
	if cfg.IncorrectWindowMs > 0 {
		p.IncorrectWindow = time.Duration(cfg.IncorrectWindowMs) * time.Millisecond
	}
	if cfg.ToastMs > 0 {
		p.ToastDuration = time.Duration(cfg.ToastMs) * time.Millisecond
	}
	return p
}

// Chains reports whether a match at now continues the combo started by the
// previous correct match at last.
func (p Policy) Chains(mode model.GameMode, last, now time.Time) bool {
	if !mode.Rules.ChainCombo || last.IsZero() {
		return false
	}
	return now.Sub(last) <= p.ChainWindow
}

// MatchXP is the XP awarded for one correct match.
func (p Policy) MatchXP(mode model.GameMode, combo int, chained bool) float64 {
	xp := p.BaseXP * mode.XPMultiplier
	if chained {
		xp *= 1 + p.ComboBonus(combo)
	}
	return xp
}

// ComboBonus is the extra multiplier earned by a chain of the given length.
func (p Policy) ComboBonus(combo int) float64 {
	if combo <= 0 {
		return 0
	}
	return math.Min(float64(combo)*p.ComboStep, p.ComboCap)
}
