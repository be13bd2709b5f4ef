package game

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gambit/registry"
)

type Score int8

const (
	WhiteWins Score = iota
	BlackWins
	Drawn
)

func Victory(c Color) Score {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Winner returns the winning color, or false for a draw.
func (s Score) Winner() (Color, bool) {
	switch s {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	}
	return White, false
}

// PGN is the result token used in PGN tags and movetext.
func (s Score) PGN() string {
	switch s {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	}
	return "1/2-1/2"
}

func (s Score) String() string {
	return s.PGN()
}

type EndKind int8

const (
	EndNormal EndKind = iota
	EndAbandoned
	EndTimeForfeit
	EndEmergency
)

func (k EndKind) String() string {
	switch k {
	case EndNormal:
		return "normal"
	case EndAbandoned:
		return "abandoned"
	case EndTimeForfeit:
		return "time forfeit"
	case EndEmergency:
		return "emergency"
	}
	return fmt.Sprintf("EndKind(%d)", int8(k))
}

// EndReason is why a match ended. Registered by name; Key().Name is the
// locale-neutral identifier collaborators translate.
type EndReason struct {
	registry.Handle
	Kind EndKind
}

func NewEndReason(kind EndKind) *EndReason {
	return &EndReason{Kind: kind}
}

var (
	Checkmate            = NewEndReason(EndNormal)
	Resignation          = NewEndReason(EndAbandoned)
	Walkover             = NewEndReason(EndAbandoned)
	Stalemate            = NewEndReason(EndNormal)
	InsufficientMaterial = NewEndReason(EndNormal)
	FiftyMoves           = NewEndReason(EndNormal)
	Repetition           = NewEndReason(EndNormal)
	DrawAgreement        = NewEndReason(EndNormal)
	Timeout              = NewEndReason(EndTimeForfeit)
	DrawTimeout          = NewEndReason(EndTimeForfeit)
	Error                = NewEndReason(EndEmergency)
	AllPiecesLost        = NewEndReason(EndNormal)
	StalemateVictory     = NewEndReason(EndNormal)
	CheckLimit           = NewEndReason(EndNormal)
)

func (r *EndReason) String() string {
	if r.Bound() {
		return r.Key().String()
	}
	return "end reason"
}

// Title turns the registered name into display words: "fifty_moves" becomes "Fifty Moves".
func (r *EndReason) Title() string {
	return TitleName(r.Key().Name)
}

// TitleName title-cases a snake_case registry name.
func TitleName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

type Results struct {
	Score  Score
	Reason *EndReason
	Args   []string
}

func WonBy(c Color, reason *EndReason, args ...string) Results {
	return Results{Score: Victory(c), Reason: reason, Args: args}
}

func LostBy(c Color, reason *EndReason, args ...string) Results {
	return Results{Score: Victory(c.Other()), Reason: reason, Args: args}
}

func DrawBy(reason *EndReason, args ...string) Results {
	return Results{Score: Drawn, Reason: reason, Args: args}
}

func (r Results) String() string {
	s := r.Score.PGN() + " by " + r.Reason.String()
	if len(r.Args) > 0 {
		s += " (" + strings.Join(r.Args, ", ") + ")"
	}
	return s
}
