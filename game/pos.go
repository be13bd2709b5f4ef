package game

import (
	"fmt"
	"strconv"
)

// Pos is a square: 0-based file and rank. a1 is {0, 0}.
type Pos struct {
	File int
	Rank int
}

func P(file, rank int) Pos {
	return Pos{File: file, Rank: rank}
}

func (p Pos) Add(df, dr int) Pos {
	return Pos{File: p.File + df, Rank: p.Rank + dr}
}

func (p Pos) FileChar() byte {
	return byte('a' + p.File)
}

func (p Pos) String() string {
	return string(p.FileChar()) + strconv.Itoa(p.Rank+1)
}

// MustPos parses a square literal and panics on bad input. Meant for tables and tests.
func MustPos(s string) Pos {
	p, err := ParsePos(s)
	if err != nil {
		panic(err)
	}
	return p
}

func ParsePos(s string) (Pos, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return Pos{}, fmt.Errorf("%w: %q", ErrInvalidPos, s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 {
		return Pos{}, fmt.Errorf("%w: %q", ErrInvalidPos, s)
	}
	return Pos{File: int(s[0] - 'a'), Rank: rank - 1}, nil
}

// Size is the board extent.
type Size struct {
	Files int
	Ranks int
}

var StandardSize = Size{Files: 8, Ranks: 8}

func (s Size) Contains(p Pos) bool {
	return p.File >= 0 && p.Rank >= 0 && p.File < s.Files && p.Rank < s.Ranks
}

// Dir is a step on the board.
type Dir struct {
	DF, DR int
}

// rotations returns the distinct images of (a, b) under the board's
// rotations and reflections: 4 for orthogonal or diagonal steps, 8 for leaps.
func rotations(a, b int) []Dir {
	cand := []Dir{
		{a, b}, {-b, a}, {-a, -b}, {b, -a},
		{b, a}, {-a, b}, {-b, -a}, {a, -b},
	}
	out := make([]Dir, 0, 8)
	seen := make(map[Dir]bool, 8)
	for _, d := range cand {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func between(a, b int) []int {
	if a > b {
		a, b = b, a
	}
	out := make([]int, 0, b-a+1)
	for i := a; i <= b; i++ {
		out = append(out, i)
	}
	return out
}
