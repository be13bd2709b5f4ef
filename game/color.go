package game

import "fmt"

type Color int8

const (
	White Color = iota
	Black
)

var Colors = [2]Color{White, Black}

func (c Color) Other() Color {
	return 1 - c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("Color(%d)", int8(c))
}

// Char is the FEN active-color letter.
func (c Color) Char() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Forward is the rank direction pawns of this color advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// ByColor holds one value per color, indexed by Color.
type ByColor[T any] [2]T

func Both[T any](v T) ByColor[T] {
	return ByColor[T]{v, v}
}
