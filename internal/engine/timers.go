package engine

import "time"

// TimerKind identifies which engine timer a request belongs to.
type TimerKind int

const (
	TimerCountdown TimerKind = iota
	TimerShuffle
	TimerMemoryPreview
	TimerIncorrect
	timerKindCount
)

func (k TimerKind) String() string {
	switch k {
	case TimerCountdown:
		return "countdown"
	case TimerShuffle:
		return "shuffle"
	case TimerMemoryPreview:
		return "memory-preview"
	case TimerIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Timer is a single-shot request: after After elapses the driver hands it back
// through Engine.Fire. Gen tags the arming; a stale Gen is ignored.
type Timer struct {
	Kind  TimerKind
	Gen   uint64
	After time.Duration
}

type timerSet struct {
	gens    [timerKindCount]uint64
	pending []Timer
}

func (ts *timerSet) arm(kind TimerKind, after time.Duration) {
	ts.gens[kind]++
	ts.pending = append(ts.pending, Timer{Kind: kind, Gen: ts.gens[kind], After: after})
}

func (ts *timerSet) cancelAll() {
	for k := range ts.gens {
		ts.gens[k]++
	}
}

func (ts *timerSet) current(t Timer) bool {
	if t.Kind < 0 || t.Kind >= timerKindCount {
		return false
	}
	return ts.gens[t.Kind] == t.Gen
}

// take drains pending requests, dropping any cancelled before the driver saw them.
func (ts *timerSet) take() []Timer {
	if len(ts.pending) == 0 {
		return nil
	}
	out := make([]Timer, 0, len(ts.pending))
	for _, t := range ts.pending {
		if ts.current(t) {
			out = append(out, t)
		}
	}
	ts.pending = nil
	return out
}
