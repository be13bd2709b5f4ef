package game

import (
	"fmt"
	"strings"
	"unicode"
)

// Move is a bundle of traits acting on one moving piece. Moves are generated
// fresh for a position and used at most once.
type Move struct {
	Piece         BoardPiece
	Display       Pos
	NeededEmpty   []Pos
	PassedThrough []Pos
	traits        []Trait
}

func NewMove(piece BoardPiece, display Pos, traits ...Trait) *Move {
	m := &Move{Piece: piece, Display: display}
	for _, t := range traits {
		m.With(t)
	}
	return m
}

// With adds t, replacing any trait of the same type.
func (m *Move) With(t Trait) *Move {
	for i, cur := range m.traits {
		if cur.Type() == t.Type() {
			m.traits[i] = t
			return m
		}
	}
	m.traits = append(m.traits, t)
	return m
}

// Without drops the trait of type tt, if present.
func (m *Move) Without(tt *TraitType) *Move {
	for i, cur := range m.traits {
		if cur.Type() == tt {
			m.traits = append(m.traits[:i:i], m.traits[i+1:]...)
			break
		}
	}
	return m
}

func (m *Move) Traits() []Trait {
	return append([]Trait(nil), m.traits...)
}

func (m *Move) Trait(tt *TraitType) (Trait, bool) {
	for _, t := range m.traits {
		if t.Type() == tt {
			return t, true
		}
	}
	return nil, false
}

func traitAs[T Trait](m *Move, tt *TraitType) T {
	var zero T
	t, ok := m.Trait(tt)
	if !ok {
		return zero
	}
	v, ok := t.(T)
	if !ok {
		return zero
	}
	return v
}

func (m *Move) Target() *TargetTrait { return traitAs[*TargetTrait](m, TargetTraitType) }
func (m *Move) Capture() *CaptureTrait {
	return traitAs[*CaptureTrait](m, CaptureTraitType)
}
func (m *Move) Castles() *CastlesTrait { return traitAs[*CastlesTrait](m, CastlesTraitType) }
func (m *Move) Promotion() *PromotionTrait {
	return traitAs[*PromotionTrait](m, PromotionTraitType)
}
func (m *Move) RequireFlag() *RequireFlagTrait {
	return traitAs[*RequireFlagTrait](m, RequireFlagTraitType)
}
func (m *Move) Flag() *FlagTrait   { return traitAs[*FlagTrait](m, FlagTraitType) }
func (m *Move) Check() *CheckTrait { return traitAs[*CheckTrait](m, CheckTraitType) }

func (m *Move) Origin() Pos {
	return m.Piece.Pos
}

func (m *Move) Color() Color {
	return m.Piece.Color()
}

// UCI is the coordinate form: origin, display square and a lowercase
// promotion letter when one is chosen.
func (m *Move) UCI() string {
	var sb strings.Builder
	sb.WriteString(m.Piece.Pos.String())
	sb.WriteString(m.Display.String())
	if p := m.Promotion(); p != nil && p.Promotion != nil {
		sb.WriteRune(unicode.ToLower(p.Promotion.Type.Char()))
	}
	return sb.String()
}

func (m *Move) String() string {
	return m.UCI()
}

// Transition is one half of a piece change: From is removed and To is
// created. Either may be nil.
type Transition struct {
	From PlacedPiece
	To   PlacedPiece
}

func (t Transition) String() string {
	return fmt.Sprintf("%v -> %v", t.From, t.To)
}

// PiecesMoved reports every transition of one committed batch.
type PiecesMoved struct {
	Moves []Transition
}

// Exec is the planning context traits run in. Traits record the pieces they
// move under a name; the board commits the whole plan at once.
type Exec struct {
	Board    *Board
	Move     *Move
	simulate bool
	plan     []Transition
	names    map[string]int
}

func newExec(b *Board, m *Move, simulate bool) *Exec {
	return &Exec{Board: b, Move: m, simulate: simulate, names: make(map[string]int)}
}

// Simulating reports a legality check on a scratch board: traits must not
// record results.
func (x *Exec) Simulating() bool {
	return x.simulate
}

// Track plans from becoming to under name. Tracking an existing name again
// keeps its original From.
func (x *Exec) Track(name string, from, to PlacedPiece) {
	if i, ok := x.names[name]; ok {
		x.plan[i].To = to
		return
	}
	x.names[name] = len(x.plan)
	x.plan = append(x.plan, Transition{From: from, To: to})
}

// Tracked returns where name is planned to end up.
func (x *Exec) Tracked(name string) (PlacedPiece, bool) {
	i, ok := x.names[name]
	if !ok {
		return nil, false
	}
	return x.plan[i].To, true
}

func (x *Exec) Retarget(name string, to PlacedPiece) error {
	i, ok := x.names[name]
	if !ok {
		return fmt.Errorf("%w: nothing tracked as %q", ErrPieceMissing, name)
	}
	x.plan[i].To = to
	return nil
}

func (x *Exec) run(from, to Phase) error {
	for ph := from; ph <= to; ph++ {
		for _, t := range x.Move.traits {
			if t.Phase() != ph {
				continue
			}
			if err := t.Execute(x); err != nil {
				return fmt.Errorf("%v trait: %w", t.Type(), err)
			}
		}
	}
	return nil
}
