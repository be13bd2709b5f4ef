// Package player seats sides in a match: humans submitting moves, and
// engines answering a position with a move in coordinate notation.
package player

import (
	"context"
	"io"

	"gambit/event"
	"gambit/game"
	"gambit/match"
	"gambit/registry"
)

// SideType tells what is behind a side.
type SideType struct {
	registry.Handle
}

func (t *SideType) String() string {
	if t.Bound() {
		return t.Key().String()
	}
	return "side type"
}

var (
	HumanType  = &SideType{}
	EngineType = &SideType{}

	SidesType = match.NewComponentType()
)

func SideTypes(c *registry.Catalog) *registry.Registry[*SideType] {
	return registry.Kind[*SideType](c, "side_type")
}

// Register adds the side types and the sides component type.
func Register(m *registry.Module) error {
	c := m.Catalog()
	if err := SideTypes(c).RegisterAll(m,
		registry.E("human", HumanType),
		registry.E("engine", EngineType),
	); err != nil {
		return err
	}
	return match.ComponentTypes(c).Register(m, "sides", SidesType)
}

// Side is one seat of a match. Move is called off the match goroutine with
// a private copy of the board, and must give up when ctx ends.
type Side interface {
	Name() string
	Type() *SideType
	Move(ctx context.Context, b *game.Board) (string, error)
}

// Sides is the component holding both seats. It closes them when the
// match is cleared or errors.
type Sides struct {
	sides  game.ByColor[Side]
	closed bool
}

func NewSides(white, black Side) *Sides {
	return &Sides{sides: game.ByColor[Side]{white, black}}
}

func (*Sides) Type() *match.ComponentType { return SidesType }

func (s *Sides) Side(c game.Color) Side {
	return s.sides[c]
}

func (s *Sides) Handlers() []event.Binding[*match.Match] {
	return []event.Binding[*match.Match]{
		match.OnLifecycle(match.Clear, s.close).After(),
		match.OnLifecycle(match.Panic, s.close).After(),
		event.On(match.PropertiesEvent, func(m *match.Match, p *match.Properties) error {
			for _, c := range game.Colors {
				p.Set(c.String(), s.sides[c].Name())
			}
			return nil
		}),
	}
}

func (s *Sides) close(m *match.Match) error {
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for _, side := range s.sides {
		if cl, ok := side.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				m.Logger().Warn().Err(err).Str("side", side.Name()).Msg("closing side")
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}

// Resolve turns a side's answer into a move of b. Human input goes through
// the board's own parser, so a typo is an ordinary illegal move; anything
// else is held to the engine protocol.
func Resolve(s Side, b *game.Board, answer string) (*game.Move, error) {
	if _, ok := s.(*Human); ok {
		return b.MoveByUCI(answer)
	}
	mv, err := ResolveMove(b, answer)
	if err != nil {
		if pe, ok := err.(*EngineProtocolError); ok {
			pe.Engine = s.Name()
		}
		return nil, err
	}
	return mv, nil
}
