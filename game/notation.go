package game

import (
	"fmt"
	"strings"
	"unicode"
)

// SAN renders an applied move in standard algebraic notation. Capture,
// disambiguation and check are only known once the move has been applied.
func SAN(m *Move) string {
	var sb strings.Builder
	pawn := m.Piece.Type() == Pawn
	castles := m.Castles()
	target := m.Target()

	if !pawn && castles == nil {
		sb.WriteRune(unicode.ToUpper(m.Piece.Type().Char()))
		if target != nil {
			sb.WriteString(target.Disambiguation)
		}
	}
	if c := m.Capture(); c != nil && c.Success {
		if pawn {
			sb.WriteByte(m.Piece.Pos.FileChar())
		}
		sb.WriteByte('x')
	}
	if target != nil {
		sb.WriteString(target.Target.String())
	}
	if castles != nil {
		sb.WriteString(castles.Side.Notation())
	}
	if p := m.Promotion(); p != nil && p.Promotion != nil {
		sb.WriteByte('=')
		sb.WriteRune(unicode.ToUpper(p.Promotion.Type.Char()))
	}
	if ct := m.Check(); ct != nil {
		sb.WriteString(ct.Check.Char())
	}
	return sb.String()
}

// MoveByUCI finds the legal move written in coordinate form, such as "e2e4"
// or "e7e8q". A promotion move written without a letter is rejected.
func (b *Board) MoveByUCI(s string) (*Move, error) {
	origin, rest, err := splitSquare(s)
	if err != nil {
		return nil, err
	}
	display, rest, err := splitSquare(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) > 1 {
		return nil, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	if bp, ok := b.pieces[origin]; !ok || bp.Color() != b.turn {
		return nil, fmt.Errorf("%w: %q, no %v piece on %v", ErrIllegalMove, s, b.turn, origin)
	}

	for _, m := range b.LegalMoves(origin) {
		if m.Display != display {
			continue
		}
		promo := m.Promotion()
		if promo == nil {
			if rest != "" {
				continue
			}
			return m, nil
		}
		if rest == "" {
			return nil, fmt.Errorf("%w: %q", ErrPromotionMissing, s)
		}
		t, ok := PieceTypeByChar(b.variant.PieceTypes(), rune(rest[0]))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPromotionInvalid, s)
		}
		if err := promo.Choose(t.Of(m.Color())); err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}

// splitSquare reads one square off the front of s: a file letter and rank digits.
func splitSquare(s string) (Pos, string, error) {
	if len(s) < 2 {
		return Pos{}, "", fmt.Errorf("%w: %q", ErrInvalidPos, s)
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	p, err := ParsePos(s[:i])
	if err != nil {
		return Pos{}, "", err
	}
	return p, s[i:], nil
}
