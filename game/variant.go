package game

import (
	"fmt"
	"slices"

	"gambit/registry"
)

// Variant is the rule set a board is played under. Boards always call back
// through their own variant, so a variant embedding Standard overrides a
// rule simply by redefining the method.
type Variant interface {
	registry.Binder
	PieceTypes() []*PieceType
	StartFEN() FEN
	PieceMoves(b *Board, p BoardPiece) []*Move
	IsLegal(b *Board, m *Move) bool
	InCheck(b *Board, c Color) bool
	// CheckForEnd inspects the position after a move; nil means play on.
	CheckForEnd(b *Board) *Results
	Timeout(b *Board, c Color) Results
	StartingPieceHasMoved(fen FEN, pos Pos, p Piece) bool
	Validate(b *Board) error
	// RequiredComponents lists component types a match must carry.
	RequiredComponents() []registry.Key
}

// Standard is orthodox chess, with Chess960 castling when the board asks for it.
type Standard struct {
	registry.Handle
}

var StandardVariant = &Standard{}

func (*Standard) PieceTypes() []*PieceType {
	return []*PieceType{King, Queen, Rook, Bishop, Knight, Pawn}
}

func (*Standard) StartFEN() FEN {
	return StartFEN()
}

func (*Standard) PieceMoves(b *Board, p BoardPiece) []*Move {
	return StandardMoves(b, p)
}

// IsLegal plays m on a scratch board and rejects it if the mover's king is
// then attacked. A castling king must also not pass through attacked squares.
func (*Standard) IsLegal(b *Board, m *Move) bool {
	if !b.IsValid(m) {
		return false
	}
	c := m.Color()
	if m.Castles() != nil {
		for _, p := range m.PassedThrough {
			if b.IsAttacked(p, c.Other()) {
				return false
			}
		}
	}
	after, err := b.Simulate(m)
	if err != nil {
		return false
	}
	return !after.variant.InCheck(after, c)
}

func (*Standard) InCheck(b *Board, c Color) bool {
	k, ok := b.King(c)
	return ok && b.IsAttacked(k.Pos, c.Other())
}

func (*Standard) CheckForEnd(b *Board) *Results {
	toMove := b.turn
	if len(b.AllLegalMoves(toMove)) == 0 {
		if b.InCheck(toMove) {
			r := LostBy(toMove, Checkmate)
			return &r
		}
		r := DrawBy(Stalemate)
		return &r
	}
	if r := drawByRule(b); r != nil {
		return r
	}
	if insufficientMaterial(b) {
		r := DrawBy(InsufficientMaterial)
		return &r
	}
	return nil
}

// drawByRule covers threefold repetition and the fifty-move rule.
func drawByRule(b *Board) *Results {
	if b.RepetitionCount() >= 3 {
		r := DrawBy(Repetition)
		return &r
	}
	if b.halfmove >= 100 {
		r := DrawBy(FiftyMoves)
		return &r
	}
	return nil
}

func insufficientMaterial(b *Board) bool {
	white, black := b.PiecesOf(White), b.PiecesOf(Black)
	minorOnly := func(ps []BoardPiece) bool {
		return slices.ContainsFunc(ps, func(p BoardPiece) bool {
			return p.Type() == Knight || p.Type() == Bishop
		})
	}
	switch {
	case len(white) == 1 && len(black) == 1:
		return true
	case len(white) == 2 && len(black) == 1:
		return minorOnly(white)
	case len(black) == 2 && len(white) == 1:
		return minorOnly(black)
	}
	return false
}

// Timeout loses for c unless the opponent has only a king left.
func (*Standard) Timeout(b *Board, c Color) Results {
	if len(b.PiecesOf(c.Other())) == 1 {
		return DrawBy(DrawTimeout)
	}
	return LostBy(c, Timeout)
}

func (*Standard) StartingPieceHasMoved(fen FEN, pos Pos, p Piece) bool {
	switch p.Type {
	case Pawn:
		if p.Color == White {
			return pos.Rank != 1
		}
		return pos.Rank != fen.Size().Ranks-2
	case Rook:
		return !slices.Contains(fen.Castling[p.Color], pos.File)
	}
	return false
}

// Validate requires one king per side, the side not to move out of check,
// and Chess960 castling rights only on Chess960 boards.
func (*Standard) Validate(b *Board) error {
	for _, c := range Colors {
		n := 0
		for _, p := range b.PiecesOf(c) {
			if p.Type() == King {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("%w: %v has %d kings", ErrInvalidPosition, c, n)
		}
	}
	if !b.chess960 && b.initial.IsChess960Castling() {
		return fmt.Errorf("%w: castling rights %q need Chess960", ErrInvalidPosition, b.initial.castlingString())
	}
	if b.variant.InCheck(b, b.turn.Other()) {
		return fmt.Errorf("%w: %v is in check but not to move", ErrInvalidPosition, b.turn.Other())
	}
	return nil
}

func (*Standard) RequiredComponents() []registry.Key {
	return nil
}
