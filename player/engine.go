package player

import (
	"context"
	"io"

	"gambit/game"
	"gambit/utils"
)

// Engine answers a position, given as FEN, with a move in coordinate
// notation such as "e2e4" or "a7a8q".
type Engine interface {
	Name() string
	BestMove(ctx context.Context, fen string) (string, error)
}

// EngineSide seats an engine.
type EngineSide struct {
	Engine Engine
}

func NewEngineSide(e Engine) *EngineSide {
	return &EngineSide{Engine: e}
}

func (s *EngineSide) Name() string  { return s.Engine.Name() }
func (*EngineSide) Type() *SideType { return EngineType }

func (s *EngineSide) Move(ctx context.Context, b *game.Board) (string, error) {
	return s.Engine.BestMove(ctx, b.FEN().String())
}

func (s *EngineSide) Close() error {
	if c, ok := s.Engine.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ResolveMove finds the legal move of b an engine meant: the moves of the
// origin square whose display square is the target, with the promotion
// letter applied. Anything that does not resolve is an *EngineProtocolError.
func ResolveMove(b *game.Board, s string) (*game.Move, error) {
	fail := func(reason string) error {
		return &EngineProtocolError{FEN: b.FEN().String(), Move: s, Reason: reason}
	}
	if len(s) < 4 || len(s) > 5 {
		return nil, fail("not a coordinate move")
	}
	origin, err := game.ParsePos(s[:2])
	if err != nil {
		return nil, fail("bad origin square")
	}
	target, err := game.ParsePos(s[2:4])
	if err != nil {
		return nil, fail("bad target square")
	}

	candidates := utils.Filter(b.LegalMoves(origin), func(mv *game.Move) bool {
		return mv.Display == target
	})
	for _, mv := range candidates {
		promo := mv.Promotion()
		if promo == nil {
			if len(s) == 5 {
				return nil, fail("promotion on a move that does not promote")
			}
			return mv, nil
		}
		if len(s) == 4 {
			return nil, fail("missing promotion")
		}
		t, ok := game.PieceTypeByChar(b.Variant().PieceTypes(), rune(s[4]))
		if !ok {
			return nil, fail("unknown promotion piece")
		}
		if err := promo.Choose(t.Of(mv.Color())); err != nil {
			return nil, fail(err.Error())
		}
		return mv, nil
	}
	return nil, fail("no such legal move")
}
