package game

import (
	"fmt"
	"slices"

	"gambit/registry"
	"gambit/utils"
)

type TraitType struct {
	registry.Handle
	name string
}

func NewTraitType(name string) *TraitType {
	return &TraitType{name: name}
}

func (t *TraitType) String() string {
	if t.Bound() {
		return t.Key().String()
	}
	return t.name
}

var (
	TargetTraitType      = NewTraitType("target")
	CaptureTraitType     = NewTraitType("capture")
	CastlesTraitType     = NewTraitType("castles")
	PromotionTraitType   = NewTraitType("promotion")
	RequireFlagTraitType = NewTraitType("require_flag")
	FlagTraitType        = NewTraitType("flag")
	CheckTraitType       = NewTraitType("check")
)

// Phase orders trait execution. Phases up to PhasePromote only plan piece
// transitions; the planned batch is committed before PhaseFlag.
type Phase int8

const (
	PhaseInspect Phase = iota
	PhaseCapture
	PhaseMove
	PhasePromote
	PhaseFlag
	PhaseCheck
)

// Trait is one independent behavior carried by a Move.
type Trait interface {
	Type() *TraitType
	Phase() Phase
	Execute(x *Exec) error
}

// TargetTrait moves the main piece to Target. Disambiguation is filled in
// when the move is applied, for notation.
type TargetTrait struct {
	Target         Pos
	Disambiguation string
}

func (*TargetTrait) Type() *TraitType { return TargetTraitType }
func (*TargetTrait) Phase() Phase     { return PhaseInspect }

func (t *TargetTrait) Execute(x *Exec) error {
	m := x.Move
	if !x.simulate {
		t.Disambiguation = disambiguate(x.Board, m, t.Target)
	}
	x.Track("main", m.Piece, m.Piece.MovedTo(t.Target))
	return nil
}

// disambiguate returns the SAN origin hint needed to tell m apart from moves
// of same-kind pieces to the same square.
func disambiguate(b *Board, m *Move, target Pos) string {
	if m.Piece.Type() == Pawn {
		return ""
	}
	var rivals []Pos
	for _, p := range b.PiecesOf(m.Piece.Color()) {
		if p.Pos == m.Piece.Pos || p.Piece != m.Piece.Piece {
			continue
		}
		for _, o := range b.LegalMoves(p.Pos) {
			if t := o.Target(); t != nil && t.Target == target {
				rivals = append(rivals, p.Pos)
				break
			}
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	origin := m.Piece.Pos
	sameFile := slices.ContainsFunc(rivals, func(p Pos) bool { return p.File == origin.File })
	if !sameFile {
		return string(origin.FileChar())
	}
	sameRank := slices.ContainsFunc(rivals, func(p Pos) bool { return p.Rank == origin.Rank })
	if !sameRank {
		return origin.String()[1:]
	}
	return origin.String()
}

// CaptureTrait removes whatever stands on Capture into the captured pool.
type CaptureTrait struct {
	Capture      Pos
	HasToCapture bool
	By           Color
	Success      bool
	Captured     Piece
}

func (*CaptureTrait) Type() *TraitType { return CaptureTraitType }
func (*CaptureTrait) Phase() Phase     { return PhaseCapture }

func (t *CaptureTrait) Execute(x *Exec) error {
	victim, ok := x.Board.PieceAt(t.Capture)
	if !ok {
		if t.HasToCapture {
			return fmt.Errorf("%w on %v", ErrNothingToCapture, t.Capture)
		}
		return nil
	}
	if victim.Color() == t.By {
		return &PieceError{Piece: victim, Err: ErrPieceBlocked}
	}
	x.Track("capture", victim, CapturedPiece{Piece: victim.Piece, CapturedBy: t.By})
	if !x.simulate {
		t.Success = true
		t.Captured = victim.Piece
	}
	return nil
}

type CastleSide int8

const (
	Kingside CastleSide = iota
	Queenside
)

// Notation is the SAN form, "O-O" or "O-O-O".
func (s CastleSide) Notation() string {
	if s == Queenside {
		return "O-O-O"
	}
	return "O-O"
}

// CastlesTrait moves the king to Target and Rook to RookTarget in one batch.
type CastlesTrait struct {
	Side       CastleSide
	Rook       BoardPiece
	Target     Pos
	RookTarget Pos
}

func (*CastlesTrait) Type() *TraitType { return CastlesTraitType }
func (*CastlesTrait) Phase() Phase     { return PhaseMove }

func (t *CastlesTrait) Execute(x *Exec) error {
	king := x.Move.Piece
	x.Track("main", king, king.MovedTo(t.Target))
	x.Track("rook", t.Rook, t.Rook.MovedTo(t.RookTarget))
	return nil
}

// PromotionTrait replaces the main piece at its destination. Promotion must
// be chosen from Options before the move is applied.
type PromotionTrait struct {
	Options   []Piece
	Promotion *Piece
}

func (*PromotionTrait) Type() *TraitType { return PromotionTraitType }
func (*PromotionTrait) Phase() Phase     { return PhasePromote }

// Choose sets the promotion piece.
func (t *PromotionTrait) Choose(p Piece) error {
	if utils.FindIndex(t.Options, p) < 0 {
		return fmt.Errorf("%w: %v", ErrPromotionInvalid, p)
	}
	t.Promotion = &p
	return nil
}

func (t *PromotionTrait) Execute(x *Exec) error {
	choice := t.Promotion
	if choice == nil {
		if !x.simulate || len(t.Options) == 0 {
			return ErrPromotionMissing
		}
		choice = &t.Options[0]
	}
	if utils.FindIndex(t.Options, *choice) < 0 {
		return fmt.Errorf("%w: %v", ErrPromotionInvalid, *choice)
	}
	cur, ok := x.Tracked("main")
	if !ok {
		return fmt.Errorf("%w: promotion without a moving piece", ErrPieceMissing)
	}
	bp, ok := cur.(BoardPiece)
	if !ok {
		return &PieceError{Piece: cur, Err: ErrPieceBlocked}
	}
	return x.Retarget("main", BoardPiece{Pos: bp.Pos, Piece: *choice, HasMoved: true})
}

// RequireFlagTrait aborts the move unless every listed flag is active.
type RequireFlagTrait struct {
	Flags map[Pos][]*Flag
}

func (*RequireFlagTrait) Type() *TraitType { return RequireFlagTraitType }
func (*RequireFlagTrait) Phase() Phase     { return PhaseInspect }

func (t *RequireFlagTrait) Execute(x *Exec) error {
	if !t.satisfied(x.Board) {
		return ErrFlagInactive
	}
	return nil
}

func (t *RequireFlagTrait) satisfied(b *Board) bool {
	for p, flags := range t.Flags {
		for _, f := range flags {
			if !b.HasActiveFlag(p, f) {
				return false
			}
		}
	}
	return true
}

// FlagTrait sets flags once the pieces have moved.
type FlagTrait struct {
	Flags map[Pos]map[*Flag]int
}

func (*FlagTrait) Type() *TraitType { return FlagTraitType }
func (*FlagTrait) Phase() Phase     { return PhaseFlag }

func (t *FlagTrait) Execute(x *Exec) error {
	if x.simulate {
		return nil
	}
	for p, flags := range t.Flags {
		for f, age := range flags {
			x.Board.flags.add(p, f, age)
		}
	}
	return nil
}

type CheckType int8

const (
	NoCheck CheckType = iota
	Check
	CheckMate
)

// Char is the SAN suffix.
func (c CheckType) Char() string {
	switch c {
	case Check:
		return "+"
	case CheckMate:
		return "#"
	}
	return ""
}

// CheckTrait records whether the move left the opponent in check or mate.
type CheckTrait struct {
	Check CheckType
}

func (*CheckTrait) Type() *TraitType { return CheckTraitType }
func (*CheckTrait) Phase() Phase     { return PhaseCheck }

func (t *CheckTrait) Execute(x *Exec) error {
	if x.simulate {
		return nil
	}
	b := x.Board
	opp := x.Move.Piece.Color().Other()
	switch {
	case !b.InCheck(opp):
		t.Check = NoCheck
	case len(b.AllLegalMoves(opp)) == 0:
		t.Check = CheckMate
	default:
		t.Check = Check
	}
	return nil
}
