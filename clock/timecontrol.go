package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadTimeControl = errors.New("bad time control")

type ControlType int8

const (
	Fixed ControlType = iota
	Increment
	Bronstein
	Simple
)

var controlNames = map[ControlType]string{
	Fixed:     "fixed",
	Increment: "increment",
	Bronstein: "bronstein",
	Simple:    "simple",
}

func (t ControlType) String() string {
	if s, ok := controlNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ControlType(%d)", int8(t))
}

// UsesIncrement is false for Fixed, which resets instead.
func (t ControlType) UsesIncrement() bool {
	return t != Fixed
}

// TimeControl is the starting time per side and what happens after a move.
// For Fixed, Initial is the time allowed for every move.
type TimeControl struct {
	Type      ControlType
	Initial   time.Duration
	Increment time.Duration
}

// ParseTimeControl reads "minutes+seconds", optionally prefixed by a control
// type: "5+3", "bronstein:3+2", "fixed:0.5". A bare form is an increment
// control.
func ParseTimeControl(s string) (TimeControl, error) {
	tc := TimeControl{Type: Increment}
	rest := s
	if name, after, ok := strings.Cut(s, ":"); ok {
		found := false
		for t, n := range controlNames {
			if n == name {
				tc.Type, found = t, true
			}
		}
		if !found {
			return TimeControl{}, fmt.Errorf("%w: %q, unknown type %q", ErrBadTimeControl, s, name)
		}
		rest = after
	}

	minutes, seconds, hasInc := strings.Cut(rest, "+")
	m, err := strconv.ParseFloat(minutes, 64)
	if err != nil || m <= 0 {
		return TimeControl{}, fmt.Errorf("%w: %q, bad minutes", ErrBadTimeControl, s)
	}
	tc.Initial = time.Duration(m * float64(time.Minute))
	if hasInc {
		sec, err := strconv.Atoi(seconds)
		if err != nil || sec < 0 {
			return TimeControl{}, fmt.Errorf("%w: %q, bad increment", ErrBadTimeControl, s)
		}
		tc.Increment = time.Duration(sec) * time.Second
	}
	if tc.Type == Fixed && tc.Increment != 0 {
		return TimeControl{}, fmt.Errorf("%w: %q, fixed controls have no increment", ErrBadTimeControl, s)
	}
	return tc, nil
}

func (tc TimeControl) String() string {
	s := tc.Type.String() + ":" + strconv.FormatFloat(tc.Initial.Minutes(), 'f', -1, 64)
	if tc.Type.UsesIncrement() {
		s += "+" + strconv.Itoa(int(tc.Increment/time.Second))
	}
	return s
}

// PGN renders the TimeControl tag value: "300+3", "600", or "1/30" for fixed.
func (tc TimeControl) PGN() string {
	secs := strconv.FormatInt(int64(tc.Initial/time.Second), 10)
	if tc.Type == Fixed {
		return "1/" + secs
	}
	if tc.Increment != 0 {
		secs += "+" + strconv.FormatInt(int64(tc.Increment/time.Second), 10)
	}
	return secs
}

func (tc TimeControl) MarshalText() ([]byte, error) {
	return []byte(tc.String()), nil
}

func (tc *TimeControl) UnmarshalText(b []byte) error {
	v, err := ParseTimeControl(string(b))
	if err != nil {
		return err
	}
	*tc = v
	return nil
}
