package stats

import (
	"context"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// HistorySource lists stored rounds.
type HistorySource interface {
	ListRounds(ctx context.Context, filter model.HistoryFilter) ([]model.RoundRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Rounds       []model.RoundRecord
	WindowRounds []model.RoundRecord
	ModesAll     []ModeAggregate
	ModesWindow  []ModeAggregate
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src HistorySource, filter model.HistoryFilter) (Report, error) {
	rounds, err := src.ListRounds(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(rounds) > filter.Last {
		rounds = rounds[len(rounds)-filter.Last:]
	}
	window := lastRounds(rounds, filter.CurveWindow)
	return Report{
		Rounds:       rounds,
		WindowRounds: window,
		ModesAll:     AggregateModes(rounds),
		ModesWindow:  AggregateModes(window),
	}, nil
}

func lastRounds(rounds []model.RoundRecord, window int) []model.RoundRecord {
	if window <= 0 || len(rounds) <= window {
		return rounds
	}
	return rounds[len(rounds)-window:]
}
