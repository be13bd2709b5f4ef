package game

import (
	"fmt"
	"slices"
)

// Antichess: captures are compulsory, the king is an ordinary piece that
// pawns may promote to, and a side with no pieces or no moves wins.
type Antichess struct {
	Standard
}

var AntichessVariant = &Antichess{}

var antichessPromotions = append(slices.Clone(StandardPromotions), King)

func (*Antichess) StartFEN() FEN {
	f := StartFEN()
	f.Castling = ByColor[[]int]{}
	return f
}

func (*Antichess) PieceMoves(b *Board, p BoardPiece) []*Move {
	switch p.Type() {
	case Pawn:
		return Promotions(b, PawnMoves(b, p), antichessPromotions)
	case King:
		return Jumps(b, p, AllAround)
	}
	return StandardMoves(b, p)
}

// IsLegal allows a non-capture only when no capture is available.
func (*Antichess) IsLegal(b *Board, m *Move) bool {
	if !b.IsValid(m) {
		return false
	}
	if takes(b, m) {
		return true
	}
	return !slices.ContainsFunc(b.AllMoves(m.Color()), func(o *Move) bool { return takes(b, o) })
}

func takes(b *Board, m *Move) bool {
	c := m.Capture()
	return c != nil && !b.IsEmpty(c.Capture)
}

func (*Antichess) InCheck(*Board, Color) bool {
	return false
}

func (*Antichess) CheckForEnd(b *Board) *Results {
	toMove := b.turn
	if len(b.PiecesOf(toMove)) == 0 {
		r := WonBy(toMove, AllPiecesLost)
		return &r
	}
	if len(b.AllLegalMoves(toMove)) == 0 {
		r := WonBy(toMove, StalemateVictory)
		return &r
	}
	return drawByRule(b)
}

// Timeout loses for c; a lone opposing king is no excuse here.
func (*Antichess) Timeout(_ *Board, c Color) Results {
	return LostBy(c, Timeout)
}

func (*Antichess) Validate(b *Board) error {
	for _, c := range Colors {
		if len(b.initial.Castling[c]) > 0 {
			return fmt.Errorf("%w: no castling in antichess", ErrInvalidPosition)
		}
		if len(b.PiecesOf(c)) == 0 {
			return fmt.Errorf("%w: %v has no pieces", ErrInvalidPosition, c)
		}
	}
	return nil
}
