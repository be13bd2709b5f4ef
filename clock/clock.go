// Package clock keeps each side's remaining time as a match component.
package clock

import (
	"fmt"
	"time"

	"gambit/event"
	"gambit/game"
	"gambit/match"
	"gambit/registry"
)

var Type = match.NewComponentType()

func Register(m *registry.Module) error {
	return match.ComponentTypes(m.Catalog()).Register(m, "clock", Type)
}

// Clock counts down the side to move. It only starts at the end of the first
// turn, except under a Fixed control which runs from the start. Time is
// sampled on every Update and at every turn end.
type Clock struct {
	control    TimeControl
	remaining  game.ByColor[time.Duration]
	turnLength time.Duration
	last       time.Time
	started    bool
	stopped    bool
}

func New(tc TimeControl) *Clock {
	return &Clock{control: tc, remaining: game.Both(tc.Initial)}
}

func (*Clock) Type() *match.ComponentType { return Type }

func (c *Clock) Control() TimeControl {
	return c.control
}

func (c *Clock) Remaining(col game.Color) time.Duration {
	return c.remaining[col]
}

func (c *Clock) TurnLength() time.Duration {
	return c.turnLength
}

func (c *Clock) Started() bool {
	return c.started
}

func (c *Clock) AddTime(col game.Color, d time.Duration) {
	c.remaining[col] += d
}

func (c *Clock) SetTime(col game.Color, d time.Duration) {
	c.remaining[col] = d
}

func (c *Clock) Handlers() []event.Binding[*match.Match] {
	return []event.Binding[*match.Match]{
		event.On(match.LifecycleEvent, c.lifecycle),
		match.OnTurn(match.TurnEnd, c.turnEnd),
		event.On(match.PropertiesEvent, func(m *match.Match, p *match.Properties) error {
			for _, col := range game.Colors {
				p.Set(col.String()+"_time", Format(c.remaining[col]))
			}
			return nil
		}),
	}
}

func (c *Clock) lifecycle(m *match.Match, k match.LifecycleKind) error {
	switch k {
	case match.Start:
		c.last = m.Now()
		c.started = c.control.Type == Fixed
	case match.Sync:
		switch m.State() {
		case match.StateInitial:
			c.started, c.stopped = false, false
		case match.StateRunning:
			c.started, c.stopped = c.control.Type == Fixed, false
			c.last = m.Now()
		default:
			c.started, c.stopped = true, true
		}
	case match.Stop, match.Panic:
		c.stopped = true
	case match.Update:
		return c.charge(m, m.Board().Turn())
	}
	return nil
}

// charge deducts the time since the last sample from col.
func (c *Clock) charge(m *match.Match, col game.Color) error {
	if !c.started || c.stopped {
		return nil
	}
	now := m.Now()
	dt := now.Sub(c.last)
	c.last = now
	c.turnLength += dt
	if c.control.Type == Simple {
		c.remaining[col] -= max(min(dt, c.turnLength-c.control.Increment), 0)
	} else {
		c.remaining[col] -= dt
	}

	for _, side := range game.Colors {
		if c.remaining[side] < 0 {
			m.Logger().Info().Stringer("color", side).Msg("flag fell")
			return m.Stop(m.Board().Variant().Timeout(m.Board(), side))
		}
	}
	return nil
}

func (c *Clock) turnEnd(m *match.Match, mover game.Color) error {
	if c.stopped {
		return nil
	}
	if err := c.charge(m, mover); err != nil || c.stopped {
		return err
	}

	increment := c.control.Increment
	if !c.started {
		increment = 0
		c.started = true
		c.last = m.Now()
	}
	switch c.control.Type {
	case Fixed:
		c.remaining[mover] = c.control.Initial
	case Increment:
		c.remaining[mover] += increment
	case Bronstein:
		c.remaining[mover] += min(increment, c.turnLength)
	}
	c.turnLength = 0
	return nil
}

// Format renders a remaining time as m:ss, or h:mm:ss from an hour up.
func Format(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h, m, s := int(d/time.Hour), int(d/time.Minute)%60, int(d/time.Second)%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
