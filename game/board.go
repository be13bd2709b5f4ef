package game

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Board is the position of one match: placed pieces, the captured pool,
// flags, move counters and history. A Board is not safe for concurrent use;
// hand other goroutines a Clone.
type Board struct {
	variant  Variant
	size     Size
	chess960 bool

	pieces   map[Pos]BoardPiece
	captured []CapturedPiece
	flags    flagTable

	halfmove int
	fullmove int
	turn     Color

	initial   FEN
	history   []*Move
	last      *undoRecord
	positions map[string]int
}

type undoRecord struct {
	plan     []Transition
	flags    flagTable
	halfmove int
	fullmove int
	turn     Color
	key      string
}

type BoardOption func(*Board)

// Chess960 enables Chess960 castling notation: castles are displayed on the
// rook's square and castling rights are written as file letters.
func Chess960() BoardOption {
	return func(b *Board) { b.chess960 = true }
}

// NewBoard sets up fen for variant v and has the variant validate it.
func NewBoard(v Variant, fen FEN, opts ...BoardOption) (*Board, error) {
	b, err := newBoard(v, fen, opts...)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewStartBoard is NewBoard from the variant's start position.
func NewStartBoard(v Variant, opts ...BoardOption) (*Board, error) {
	return NewBoard(v, v.StartFEN(), opts...)
}

func newBoard(v Variant, fen FEN, opts ...BoardOption) (*Board, error) {
	b := &Board{
		variant:   v,
		size:      fen.Size(),
		pieces:    make(map[Pos]BoardPiece),
		flags:     make(flagTable),
		halfmove:  fen.Halfmove,
		fullmove:  fen.Fullmove,
		turn:      fen.Turn,
		initial:   fen,
		positions: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}

	placed, err := fen.Pieces(v.PieceTypes())
	if err != nil {
		return nil, err
	}
	for pos, p := range placed {
		b.pieces[pos] = BoardPiece{Pos: pos, Piece: p, HasMoved: v.StartingPieceHasMoved(fen, pos, p)}
	}
	if fen.EnPassant != nil {
		b.flags.add(*fen.EnPassant, EnPassant, 1)
	}
	b.positions[b.positionKey()] = 1
	return b, nil
}

// Clone is a deep copy of the position and its history. The copy cannot undo.
func (b *Board) Clone() *Board {
	c := b.scratch()
	c.history = slices.Clone(b.history)
	c.positions = maps.Clone(b.positions)
	return c
}

// scratch copies only what move simulation needs.
func (b *Board) scratch() *Board {
	return &Board{
		variant:   b.variant,
		size:      b.size,
		chess960:  b.chess960,
		pieces:    maps.Clone(b.pieces),
		captured:  slices.Clone(b.captured),
		flags:     b.flags.clone(),
		halfmove:  b.halfmove,
		fullmove:  b.fullmove,
		turn:      b.turn,
		initial:   b.initial,
		positions: map[string]int{},
	}
}

func (b *Board) Variant() Variant  { return b.variant }
func (b *Board) Size() Size        { return b.size }
func (b *Board) IsChess960() bool  { return b.chess960 }
func (b *Board) Turn() Color       { return b.turn }
func (b *Board) Halfmove() int     { return b.halfmove }
func (b *Board) Fullmove() int     { return b.fullmove }
func (b *Board) InitialFEN() FEN   { return b.initial }
func (b *Board) History() []*Move  { return slices.Clone(b.history) }
func (b *Board) CanUndo() bool     { return b.last != nil }
func (b *Board) Captured() []CapturedPiece {
	return slices.Clone(b.captured)
}

// LastMove is the most recently applied move, or nil.
func (b *Board) LastMove() *Move {
	if len(b.history) == 0 {
		return nil
	}
	return b.history[len(b.history)-1]
}

func (b *Board) PieceAt(p Pos) (BoardPiece, bool) {
	bp, ok := b.pieces[p]
	return bp, ok
}

func (b *Board) IsEmpty(p Pos) bool {
	_, ok := b.pieces[p]
	return !ok
}

// Pieces lists pieces file by file, rank by rank.
func (b *Board) Pieces() []BoardPiece {
	out := make([]BoardPiece, 0, len(b.pieces))
	for f := 0; f < b.size.Files; f++ {
		for r := 0; r < b.size.Ranks; r++ {
			if bp, ok := b.pieces[P(f, r)]; ok {
				out = append(out, bp)
			}
		}
	}
	return out
}

func (b *Board) PiecesOf(c Color) []BoardPiece {
	var out []BoardPiece
	for _, bp := range b.Pieces() {
		if bp.Color() == c {
			out = append(out, bp)
		}
	}
	return out
}

func (b *Board) King(c Color) (BoardPiece, bool) {
	for _, bp := range b.pieces {
		if bp.Type() == King && bp.Color() == c {
			return bp, true
		}
	}
	return BoardPiece{}, false
}

// Flags returns a copy of the flags on p and their ages.
func (b *Board) Flags(p Pos) map[*Flag][]int {
	out := make(map[*Flag][]int, len(b.flags[p]))
	for f, ages := range b.flags[p] {
		out[f] = slices.Clone(ages)
	}
	return out
}

func (b *Board) HasActiveFlag(p Pos, f *Flag) bool {
	return b.flags.active(p, f)
}

// AddFlag marks p with f at the given age.
func (b *Board) AddFlag(p Pos, f *Flag, age int) {
	b.flags.add(p, f, age)
}

// RepetitionCount is how many times the current position has occurred.
func (b *Board) RepetitionCount() int {
	return b.positions[b.positionKey()]
}

func (b *Board) positionKey() string {
	return b.FEN().PositionKey()
}

// IsValid checks m against the current occupancy: required flags active,
// needed squares empty, and a capture target that is neither missing (when
// required) nor friendly.
func (b *Board) IsValid(m *Move) bool {
	cur, ok := b.pieces[m.Piece.Pos]
	if !ok || cur != m.Piece {
		return false
	}
	if rf := m.RequireFlag(); rf != nil && !rf.satisfied(b) {
		return false
	}
	for _, p := range m.NeededEmpty {
		if !b.IsEmpty(p) {
			return false
		}
	}
	if c := m.Capture(); c != nil {
		victim, ok := b.pieces[c.Capture]
		if !ok && c.HasToCapture {
			return false
		}
		if ok && victim.Color() == m.Piece.Color() {
			return false
		}
	}
	return true
}

// Moves returns the pseudo-legal moves of the piece on p, in generation order.
func (b *Board) Moves(p Pos) []*Move {
	bp, ok := b.pieces[p]
	if !ok {
		return nil
	}
	var out []*Move
	for _, m := range b.variant.PieceMoves(b, bp) {
		if b.IsValid(m) {
			out = append(out, m)
		}
	}
	return out
}

// LegalMoves filters Moves through the variant's legality rule.
func (b *Board) LegalMoves(p Pos) []*Move {
	var out []*Move
	for _, m := range b.Moves(p) {
		if b.variant.IsLegal(b, m) {
			out = append(out, m)
		}
	}
	return out
}

func (b *Board) AllMoves(c Color) []*Move {
	var out []*Move
	for _, bp := range b.PiecesOf(c) {
		out = append(out, b.Moves(bp.Pos)...)
	}
	return out
}

func (b *Board) AllLegalMoves(c Color) []*Move {
	var out []*Move
	for _, bp := range b.PiecesOf(c) {
		out = append(out, b.LegalMoves(bp.Pos)...)
	}
	return out
}

// IsLegal reports whether m is currently legal for the side to move.
func (b *Board) IsLegal(m *Move) bool {
	return m.Piece.Color() == b.turn && b.IsValid(m) && b.variant.IsLegal(b, m)
}

// IsAttacked reports whether any piece of color by could capture on p,
// ignoring whether doing so would expose its own king.
func (b *Board) IsAttacked(p Pos, by Color) bool {
	for _, bp := range b.PiecesOf(by) {
		for _, m := range b.variant.PieceMoves(b, bp) {
			c := m.Capture()
			if c == nil || c.Capture != p {
				continue
			}
			if rf := m.RequireFlag(); rf != nil && !rf.satisfied(b) {
				continue
			}
			if !b.allEmpty(m.NeededEmpty) {
				continue
			}
			return true
		}
	}
	return false
}

func (b *Board) allEmpty(ps []Pos) bool {
	for _, p := range ps {
		if !b.IsEmpty(p) {
			return false
		}
	}
	return true
}

func (b *Board) InCheck(c Color) bool {
	return b.variant.InCheck(b, c)
}

// Simulate plays m's piece changes on a scratch copy and returns the copy.
// Counters, turn and flags are left as they were.
func (b *Board) Simulate(m *Move) (*Board, error) {
	s := b.scratch()
	x := newExec(s, m, true)
	if err := x.run(PhaseInspect, PhasePromote); err != nil {
		return nil, err
	}
	if err := s.multiMove(x.plan); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyMove plays m: its traits in phase order, the piece batch as one
// transaction, then the clocks, the turn and flag aging. On error nothing
// has changed: a flag or check trait that fails after the batch is
// committed rolls it back.
func (b *Board) ApplyMove(m *Move) (PiecesMoved, error) {
	if m.Piece.Color() != b.turn {
		return PiecesMoved{}, fmt.Errorf("%w: %v to move", ErrNotYourTurn, b.turn)
	}
	for _, p := range m.NeededEmpty {
		if bp, ok := b.pieces[p]; ok {
			return PiecesMoved{}, &PieceError{Piece: bp, Err: ErrPieceBlocked}
		}
	}

	x := newExec(b, m, false)
	if err := x.run(PhaseInspect, PhasePromote); err != nil {
		return PiecesMoved{}, err
	}
	rec := &undoRecord{
		flags:    b.flags.clone(),
		halfmove: b.halfmove,
		fullmove: b.fullmove,
		turn:     b.turn,
	}
	prev := b.last
	if err := b.multiMove(x.plan); err != nil {
		return PiecesMoved{}, err
	}
	if err := x.run(PhaseFlag, PhaseFlag); err != nil {
		if rerr := b.multiMove(inversePlan(x.plan)); rerr != nil {
			return PiecesMoved{}, errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
		b.flags = rec.flags
		return PiecesMoved{}, err
	}

	if c := m.Capture(); m.Piece.Type() == Pawn || (c != nil && c.Success) {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if b.turn == Black {
		b.fullmove++
	}
	b.turn = b.turn.Other()
	b.flags.age()

	rec.plan = x.plan
	rec.key = b.positionKey()
	b.positions[rec.key]++
	b.history = append(b.history, m)
	b.last = rec

	if err := x.run(PhaseCheck, PhaseCheck); err != nil {
		if _, rerr := b.UndoLastMove(); rerr != nil {
			return PiecesMoved{}, errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
		b.last = prev
		return PiecesMoved{}, err
	}
	return PiecesMoved{Moves: x.plan}, nil
}

// UndoLastMove reverts the most recent ApplyMove. Only one move can be
// undone; a second call fails with ErrNothingToUndo.
func (b *Board) UndoLastMove() (PiecesMoved, error) {
	rec := b.last
	if rec == nil {
		return PiecesMoved{}, ErrNothingToUndo
	}
	inverse := inversePlan(rec.plan)
	if err := b.multiMove(inverse); err != nil {
		return PiecesMoved{}, fmt.Errorf("undo: %w", err)
	}

	if b.positions[rec.key]--; b.positions[rec.key] <= 0 {
		delete(b.positions, rec.key)
	}
	b.flags = rec.flags
	b.halfmove = rec.halfmove
	b.fullmove = rec.fullmove
	b.turn = rec.turn
	b.history = b.history[:len(b.history)-1]
	b.last = nil
	return PiecesMoved{Moves: inverse}, nil
}

func inversePlan(plan []Transition) []Transition {
	inverse := make([]Transition, 0, len(plan))
	for i := len(plan) - 1; i >= 0; i-- {
		inverse = append(inverse, Transition{From: plan[i].To, To: plan[i].From})
	}
	return inverse
}

// Spawned lists every piece as a creation, for observers syncing from scratch.
func (b *Board) Spawned() PiecesMoved {
	var out PiecesMoved
	for _, bp := range b.Pieces() {
		out.Moves = append(out.Moves, Transition{To: bp})
	}
	for _, cp := range b.captured {
		out.Moves = append(out.Moves, Transition{To: cp})
	}
	return out
}
