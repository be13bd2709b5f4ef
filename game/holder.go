package game

import "slices"

// PieceHolder is somewhere placed pieces live: the squares, or the captured pool.
type PieceHolder interface {
	Exists(p PlacedPiece) bool
	CanExist(p PlacedPiece) bool
	Create(p PlacedPiece)
	Destroy(p PlacedPiece)
}

type squares struct{ b *Board }

func (s squares) Exists(p PlacedPiece) bool {
	bp := p.(BoardPiece)
	cur, ok := s.b.pieces[bp.Pos]
	return ok && cur == bp
}

func (s squares) CanExist(p PlacedPiece) bool {
	bp := p.(BoardPiece)
	if !s.b.size.Contains(bp.Pos) {
		return false
	}
	_, taken := s.b.pieces[bp.Pos]
	return !taken
}

func (s squares) Create(p PlacedPiece) {
	bp := p.(BoardPiece)
	s.b.pieces[bp.Pos] = bp
}

func (s squares) Destroy(p PlacedPiece) {
	delete(s.b.pieces, p.(BoardPiece).Pos)
}

type capturedPool struct{ b *Board }

func (c capturedPool) index(p PlacedPiece) int {
	cp := p.(CapturedPiece)
	for i := len(c.b.captured) - 1; i >= 0; i-- {
		if c.b.captured[i] == cp {
			return i
		}
	}
	return -1
}

func (c capturedPool) Exists(p PlacedPiece) bool {
	return c.index(p) >= 0
}

func (capturedPool) CanExist(PlacedPiece) bool {
	return true
}

func (c capturedPool) Create(p PlacedPiece) {
	c.b.captured = append(c.b.captured, p.(CapturedPiece))
}

func (c capturedPool) Destroy(p PlacedPiece) {
	if i := c.index(p); i >= 0 {
		c.b.captured = append(c.b.captured[:i], c.b.captured[i+1:]...)
	}
}

func (b *Board) holder(p PlacedPiece) PieceHolder {
	if _, ok := p.(CapturedPiece); ok {
		return capturedPool{b}
	}
	return squares{b}
}

// multiMove applies moves all or nothing: every removal is checked, then
// removed; every creation is checked (restoring the removals in reverse on
// failure), then created. The captured pool is restored as it was, order
// included.
func (b *Board) multiMove(moves []Transition) error {
	for _, t := range moves {
		if t.From != nil && !b.holder(t.From).Exists(t.From) {
			return &PieceError{Piece: t.From, Err: ErrPieceMissing}
		}
	}

	pool := slices.Clone(b.captured)
	destroyed := make([]PlacedPiece, 0, len(moves))
	for _, t := range moves {
		if t.From != nil {
			b.holder(t.From).Destroy(t.From)
			destroyed = append(destroyed, t.From)
		}
	}

	claimed := make(map[Pos]bool, len(moves))
	for _, t := range moves {
		if t.To == nil {
			continue
		}
		ok := b.holder(t.To).CanExist(t.To)
		if bp, isBoard := t.To.(BoardPiece); isBoard {
			ok = ok && !claimed[bp.Pos]
			claimed[bp.Pos] = true
		}
		if !ok {
			for i := len(destroyed) - 1; i >= 0; i-- {
				if _, isBoard := destroyed[i].(BoardPiece); isBoard {
					b.holder(destroyed[i]).Create(destroyed[i])
				}
			}
			b.captured = pool
			return &PieceError{Piece: t.To, Err: ErrPieceBlocked}
		}
	}

	for _, t := range moves {
		if t.To != nil {
			b.holder(t.To).Create(t.To)
		}
	}
	return nil
}
