package stats

import (
	"time"

	"gambit/event"
	"gambit/game"
	"gambit/match"
)

var CollectorType = match.NewComponentType()

// Collector times every move from its turn start to the move, and adds
// the totals as MoveTime when stats are added.
type Collector struct {
	turnStart time.Time
	thinking  *game.Color
	moves     game.ByColor[[]time.Duration]
}

func NewCollector() *Collector {
	return &Collector{}
}

func (*Collector) Type() *match.ComponentType { return CollectorType }

// MoveTimes is how long c took over each of its moves so far.
func (t *Collector) MoveTimes(c game.Color) []time.Duration {
	return t.moves[c]
}

func (t *Collector) Total(c game.Color) time.Duration {
	var sum time.Duration
	for _, d := range t.moves[c] {
		sum += d
	}
	return sum
}

func (t *Collector) Handlers() []event.Binding[*match.Match] {
	return []event.Binding[*match.Match]{
		match.OnTurn(match.TurnStart, func(m *match.Match, c game.Color) error {
			t.turnStart = m.Now()
			t.thinking = &c
			return nil
		}),
		match.OnTurn(match.TurnEnd, func(m *match.Match, c game.Color) error {
			t.complete(m, c)
			return nil
		}),
		match.OnTurn(match.TurnUndo, func(m *match.Match, c game.Color) error {
			if n := len(t.moves[c]); n > 0 {
				t.moves[c] = t.moves[c][:n-1]
			}
			t.thinking = nil
			return nil
		}),
		match.OnLifecycle(match.Stop, func(m *match.Match) error {
			// a move that ends the match gets no turn end
			h := m.Board().History()
			if t.thinking != nil && len(h) > 0 && h[len(h)-1].Color() == *t.thinking {
				t.complete(m, *t.thinking)
			}
			t.thinking = nil
			return nil
		}),
		event.On(AddStatsEvent, func(m *match.Match, sinks game.ByColor[Sink]) error {
			for _, c := range game.Colors {
				sinks[c].Add(MoveTime, int64(t.Total(c)))
			}
			return nil
		}),
	}
}

func (t *Collector) complete(m *match.Match, c game.Color) {
	if t.thinking == nil || *t.thinking != c {
		return
	}
	t.moves[c] = append(t.moves[c], m.Now().Sub(t.turnStart))
	t.thinking = nil
}
