package game

import (
	"fmt"
	"unicode"

	"gambit/registry"
)

// PieceType is a kind of piece. Identity is the pointer; the registry key is
// bound when the owning module registers it.
type PieceType struct {
	registry.Handle
	char rune
}

func NewPieceType(char rune) *PieceType {
	return &PieceType{char: unicode.ToLower(char)}
}

var (
	King   = NewPieceType('k')
	Queen  = NewPieceType('q')
	Rook   = NewPieceType('r')
	Bishop = NewPieceType('b')
	Knight = NewPieceType('n')
	Pawn   = NewPieceType('p')
)

// Char is the lowercase display character.
func (t *PieceType) Char() rune {
	return t.char
}

func (t *PieceType) Name() string {
	if t.Bound() {
		return t.Key().Name
	}
	return string(t.char)
}

func (t *PieceType) String() string {
	if t.Bound() {
		return t.Key().String()
	}
	return string(t.char)
}

func (t *PieceType) Of(c Color) Piece {
	return Piece{Type: t, Color: c}
}

// PieceTypeByChar finds the type with the given character, case-insensitively.
func PieceTypeByChar(types []*PieceType, char rune) (*PieceType, bool) {
	char = unicode.ToLower(char)
	for _, t := range types {
		if t.char == char {
			return t, true
		}
	}
	return nil, false
}

type Piece struct {
	Type  *PieceType
	Color Color
}

// Char is the FEN letter: uppercase for white.
func (p Piece) Char() rune {
	if p.Color == White {
		return unicode.ToUpper(p.Type.char)
	}
	return p.Type.char
}

// Key is "<color>_<type>" in the piece type's module.
func (p Piece) Key() registry.Key {
	k := p.Type.Key()
	return registry.NewKey(k.Module, p.Color.String()+"_"+k.Name)
}

func (p Piece) String() string {
	return p.Color.String() + "_" + p.Type.Name()
}

// PlacedPiece is a piece together with where it is: on a square or in the
// captured pool. Values are compared structurally; moving a piece replaces the
// value, it never mutates it.
type PlacedPiece interface {
	PieceOf() Piece
	String() string
	placed()
}

type BoardPiece struct {
	Pos      Pos
	Piece    Piece
	HasMoved bool
}

func (p BoardPiece) PieceOf() Piece { return p.Piece }
func (p BoardPiece) Color() Color   { return p.Piece.Color }
func (p BoardPiece) Type() *PieceType {
	return p.Piece.Type
}

func (p BoardPiece) String() string {
	return fmt.Sprintf("%v@%v", p.Piece, p.Pos)
}

func (BoardPiece) placed() {}

// MovedTo is the same piece after moving to pos.
func (p BoardPiece) MovedTo(pos Pos) BoardPiece {
	return BoardPiece{Pos: pos, Piece: p.Piece, HasMoved: true}
}

type CapturedPiece struct {
	Piece      Piece
	CapturedBy Color
}

func (p CapturedPiece) PieceOf() Piece { return p.Piece }

func (p CapturedPiece) String() string {
	return fmt.Sprintf("%v captured by %v", p.Piece, p.CapturedBy)
}

func (CapturedPiece) placed() {}
