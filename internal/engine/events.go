package engine

import (
	"fmt"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// EventKind tags an Event.
type EventKind int

const (
	EventSetComplete EventKind = iota
	EventRoundTimeout
	EventIncorrectMatch
	EventGameOver
	EventModeChanged
	EventStatsUnavailable
)

func (k EventKind) String() string {
	switch k {
	case EventSetComplete:
		return "set-complete"
	case EventRoundTimeout:
		return "round-timeout"
	case EventIncorrectMatch:
		return "incorrect-match"
	case EventGameOver:
		return "game-over"
	case EventModeChanged:
		return "mode-changed"
	case EventStatsUnavailable:
		return "stats-unavailable"
	default:
		return "unknown"
	}
}

// Event is a transient notification for the presentation layer. Duration is
// how long it should stay on screen.
type Event struct {
	Kind          EventKind
	SetIndex      int
	Score         int
	Mode          model.GameMode
	CorrectAnswer string
	Outcome       Outcome
	Round         *model.RoundRecord
	Err           error
	Duration      time.Duration
}

// Message renders the event as a one-line notice.
func (e Event) Message() string {
	switch e.Kind {
	case EventSetComplete:
		return fmt.Sprintf("Set %d complete! Score: %d", e.SetIndex+1, e.Score)
	case EventRoundTimeout:
		return "Time's up!"
	case EventIncorrectMatch:
		return fmt.Sprintf("Incorrect match! The correct match was: %s", e.CorrectAnswer)
	case EventGameOver:
		if e.Outcome == OutcomeAllSetsComplete {
			return fmt.Sprintf("You've completed all sets! Final score: %d", e.Score)
		}
		return fmt.Sprintf("Game over. Final score: %d", e.Score)
	case EventModeChanged:
		return fmt.Sprintf("%s: %s", e.Mode.Name, e.Mode.Description)
	case EventStatsUnavailable:
		return "Couldn't save your stats - continuing"
	default:
		return ""
	}
}

// StatsRequestKind tags a StatsRequest.
type StatsRequestKind int

const (
	StatsLoad StatsRequestKind = iota
	StatsUpdate
)

// StatsRequest asks the driver to talk to the stats service. Results never
// block the session; they come back through ApplyRemote or StatsFailed.
type StatsRequest struct {
	Kind    StatsRequestKind
	Player  string
	Score   int
	XPDelta float64
}
