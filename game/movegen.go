package game

import "slices"

var (
	Orthogonal  = rotations(1, 0)
	Diagonal    = rotations(1, 1)
	KnightLeaps = rotations(2, 1)
	AllAround   = append(slices.Clone(Orthogonal), Diagonal...)
)

// StandardPromotions are the pieces a pawn may become in standard chess.
var StandardPromotions = []*PieceType{Queen, Rook, Bishop, Knight}

func capturing(p BoardPiece, at Pos, mustCapture bool) *CaptureTrait {
	return &CaptureTrait{Capture: at, HasToCapture: mustCapture, By: p.Color()}
}

// Jumps moves or captures one step in each direction.
func Jumps(b *Board, p BoardPiece, dirs []Dir) []*Move {
	var out []*Move
	for _, d := range dirs {
		to := p.Pos.Add(d.DF, d.DR)
		if !b.size.Contains(to) {
			continue
		}
		out = append(out, NewMove(p, to, capturing(p, to, false), &TargetTrait{Target: to}, &CheckTrait{}))
	}
	return out
}

// Rays slides in each direction up to the board edge. Every square on the way
// must be empty; validation drops the blocked ones.
func Rays(b *Board, p BoardPiece, dirs []Dir) []*Move {
	var out []*Move
	for _, d := range dirs {
		var path []Pos
		for to := p.Pos.Add(d.DF, d.DR); b.size.Contains(to); to = to.Add(d.DF, d.DR) {
			m := NewMove(p, to, capturing(p, to, false), &TargetTrait{Target: to}, &CheckTrait{})
			m.NeededEmpty = slices.Clone(path)
			out = append(out, m)
			path = append(path, to)
		}
	}
	return out
}

// PawnMoves covers the single and double push, both diagonal captures and
// both en passant captures. A double push marks the skipped square.
func PawnMoves(b *Board, p BoardPiece) []*Move {
	var out []*Move
	fwd := p.Color().Forward()
	one := p.Pos.Add(0, fwd)
	if b.size.Contains(one) {
		m := NewMove(p, one, &TargetTrait{Target: one}, &CheckTrait{})
		m.NeededEmpty = []Pos{one}
		out = append(out, m)
	}
	two := p.Pos.Add(0, 2*fwd)
	if b.size.Contains(two) && !p.HasMoved {
		m := NewMove(p, two,
			&TargetTrait{Target: two},
			&CheckTrait{},
			&FlagTrait{Flags: map[Pos]map[*Flag]int{one: {EnPassant: 0}}},
		)
		m.NeededEmpty = []Pos{one, two}
		out = append(out, m)
	}
	for _, side := range []int{-1, 1} {
		to := p.Pos.Add(side, fwd)
		if !b.size.Contains(to) {
			continue
		}
		out = append(out, NewMove(p, to, capturing(p, to, true), &TargetTrait{Target: to}, &CheckTrait{}))
		out = append(out, NewMove(p, to,
			capturing(p, p.Pos.Add(side, 0), true),
			&TargetTrait{Target: to},
			&RequireFlagTrait{Flags: map[Pos][]*Flag{to: {EnPassant}}},
			&CheckTrait{},
		))
	}
	return out
}

// Promotions adds a promotion choice to every move that ends on the last rank.
func Promotions(b *Board, moves []*Move, types []*PieceType) []*Move {
	for _, m := range moves {
		t := m.Target()
		if t == nil {
			continue
		}
		if t.Target.Rank != 0 && t.Target.Rank != b.size.Ranks-1 {
			continue
		}
		opts := make([]Piece, 0, len(types))
		for _, pt := range types {
			opts = append(opts, pt.Of(m.Color()))
		}
		m.With(&PromotionTrait{Options: opts})
	}
	return moves
}

// KingMoves is one step in every direction plus castling with each unmoved
// rook on the king's rank.
func KingMoves(b *Board, p BoardPiece) []*Move {
	out := Jumps(b, p, AllAround)
	if p.HasMoved {
		return out
	}
	for _, rook := range b.PiecesOf(p.Color()) {
		if rook.Type() != Rook || rook.HasMoved || rook.Pos.Rank != p.Pos.Rank {
			continue
		}
		out = append(out, castles(b, p, rook))
	}
	return out
}

func castles(b *Board, king, rook BoardPiece) *Move {
	side := Kingside
	kf, rf := b.size.Files-2, b.size.Files-3
	if rook.Pos.File < king.Pos.File {
		side = Queenside
		kf, rf = 2, 3
	}
	rank := king.Pos.Rank
	target, rookTarget := P(kf, rank), P(rf, rank)

	var needed []Pos
	for _, f := range append(between(king.Pos.File, kf), between(rook.Pos.File, rf)...) {
		if f == king.Pos.File || f == rook.Pos.File {
			continue
		}
		if pos := P(f, rank); !slices.Contains(needed, pos) {
			needed = append(needed, pos)
		}
	}
	var passed []Pos
	for _, f := range between(king.Pos.File, kf) {
		passed = append(passed, P(f, rank))
	}

	display := target
	if b.chess960 {
		display = rook.Pos
	}
	m := NewMove(king, display,
		&CastlesTrait{Side: side, Rook: rook, Target: target, RookTarget: rookTarget},
		&CheckTrait{},
	)
	m.NeededEmpty = needed
	m.PassedThrough = passed
	return m
}

// StandardMoves generates the pseudo-legal moves of the six standard pieces.
func StandardMoves(b *Board, p BoardPiece) []*Move {
	switch p.Type() {
	case King:
		return KingMoves(b, p)
	case Queen:
		return Rays(b, p, AllAround)
	case Rook:
		return Rays(b, p, Orthogonal)
	case Bishop:
		return Rays(b, p, Diagonal)
	case Knight:
		return Jumps(b, p, KnightLeaps)
	case Pawn:
		return Promotions(b, PawnMoves(b, p), StandardPromotions)
	}
	return nil
}
