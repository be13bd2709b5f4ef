package game

import (
	"slices"

	"gambit/registry"
)

// Flag is a per-square marker that ages by one at the end of every move.
// Ages beyond MaxAge are dropped.
type Flag struct {
	registry.Handle
	MaxAge int
	active func(age int) bool
}

func NewFlag(maxAge int, active func(age int) bool) *Flag {
	return &Flag{MaxAge: maxAge, active: active}
}

func (f *Flag) Active(age int) bool {
	return f.active(age)
}

func (f *Flag) String() string {
	if f.Bound() {
		return f.Key().String()
	}
	return "flag"
}

// EnPassant marks the square a pawn skipped over. Captures onto it are
// possible only on the very next move.
var EnPassant = NewFlag(1, func(age int) bool { return age == 1 })

// flagTable keeps, per square and flag, a sorted list of ages.
type flagTable map[Pos]map[*Flag][]int

func (t flagTable) add(p Pos, f *Flag, age int) {
	byFlag, ok := t[p]
	if !ok {
		byFlag = make(map[*Flag][]int)
		t[p] = byFlag
	}
	ages := byFlag[f]
	i, _ := slices.BinarySearch(ages, age)
	byFlag[f] = slices.Insert(ages, i, age)
}

func (t flagTable) active(p Pos, f *Flag) bool {
	for _, age := range t[p][f] {
		if f.Active(age) {
			return true
		}
	}
	return false
}

// age increments every age and prunes the expired ones.
func (t flagTable) age() {
	for p, byFlag := range t {
		for f, ages := range byFlag {
			kept := ages[:0]
			for _, a := range ages {
				if a+1 <= f.MaxAge {
					kept = append(kept, a+1)
				}
			}
			if len(kept) == 0 {
				delete(byFlag, f)
			} else {
				byFlag[f] = kept
			}
		}
		if len(byFlag) == 0 {
			delete(t, p)
		}
	}
}

func (t flagTable) clone() flagTable {
	out := make(flagTable, len(t))
	for p, byFlag := range t {
		m := make(map[*Flag][]int, len(byFlag))
		for f, ages := range byFlag {
			m[f] = slices.Clone(ages)
		}
		out[p] = m
	}
	return out
}
