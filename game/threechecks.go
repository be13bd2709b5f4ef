package game

import (
	"strconv"

	"gambit/registry"
)

// CheckLimitCount is how many checks a side may receive in three-check.
const CheckLimitCount = 3

// ThreeChecks is standard chess where the third check received loses.
type ThreeChecks struct {
	Standard
}

var ThreeChecksVariant = &ThreeChecks{}

// CheckCounterKey names the component that displays the check count.
var CheckCounterKey = registry.NewKey(registry.DefaultNamespace, "check_counter")

// Checks counts the checks each color has received, from the move history.
func Checks(b *Board) ByColor[int] {
	var out ByColor[int]
	for _, m := range b.history {
		if ct := m.Check(); ct != nil && ct.Check != NoCheck {
			out[m.Color().Other()]++
		}
	}
	return out
}

func (t *ThreeChecks) CheckForEnd(b *Board) *Results {
	checks := Checks(b)
	for _, c := range Colors {
		if checks[c] >= CheckLimitCount {
			r := LostBy(c, CheckLimit, strconv.Itoa(CheckLimitCount))
			return &r
		}
	}
	return t.Standard.CheckForEnd(b)
}

func (*ThreeChecks) RequiredComponents() []registry.Key {
	return []registry.Key{CheckCounterKey}
}
