// Package pgn exports matches in Portable Game Notation.
package pgn

import (
	"fmt"
	"strconv"
	"strings"

	"gambit/clock"
	"gambit/game"
	"gambit/match"
	"gambit/player"
)

type Tag struct {
	Name  string
	Value string
}

func (t Tag) String() string {
	return fmt.Sprintf("[%s %q]", t.Name, t.Value)
}

// PGN is a tag section and the SAN movetext of one game.
type PGN struct {
	Tags      []Tag
	Moves     []string
	Initial   game.Color
	StartMove int
	Result    string
}

// Get returns the value of the first tag called name.
func (p *PGN) Get(name string) (string, bool) {
	for _, t := range p.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// Generate builds the PGN of m. Player names come from the sides component
// and the time control from the clock, when the match has them.
func Generate(m *match.Match) *PGN {
	b := m.Board()
	initial := b.InitialFEN()

	result := "*"
	termination := "unterminated"
	if r := m.Results(); r != nil {
		result = r.Score.PGN()
		termination = r.Reason.Kind.String()
	}
	names := game.ByColor[string]{"?", "?"}
	if sides, ok := match.Get[*player.Sides](m, player.SidesType); ok {
		for _, c := range game.Colors {
			names[c] = sides.Side(c).Name()
		}
	}
	timeControl := "-"
	if clk, ok := match.Get[*clock.Clock](m, clock.Type); ok {
		timeControl = clk.Control().PGN()
	}
	start := m.StartTime()

	p := &PGN{
		Initial:   initial.Turn,
		StartMove: initial.Fullmove,
		Result:    result,
		Tags: []Tag{
			{"Event", "Casual game"},
			{"Site", "gambit"},
			{"Date", start.Format("2006.01.02")},
			{"Round", "1"},
			{"White", names[game.White]},
			{"Black", names[game.Black]},
			{"Result", result},
			{"PlyCount", strconv.Itoa(len(b.History()))},
			{"TimeControl", timeControl},
			{"Time", start.Format("15:04:05")},
			{"Termination", termination},
			{"Mode", "ICS"},
		},
	}
	if !initial.IsInitial() {
		p.Tags = append(p.Tags, Tag{"SetUp", "1"}, Tag{"FEN", initial.String()})
	}
	if v := variantName(b); v != "" {
		p.Tags = append(p.Tags, Tag{"Variant", v})
	}
	for _, mv := range b.History() {
		p.Moves = append(p.Moves, game.SAN(mv))
	}
	return p
}

func variantName(b *game.Board) string {
	k := b.Variant().Key()
	if b.Variant() == game.StandardVariant {
		if b.IsChess960() {
			return "Chess960"
		}
		return ""
	}
	return game.TitleName(k.Name)
}

// String renders tags, a blank line, then the movetext, one full move per line.
func (p *PGN) String() string {
	var sb strings.Builder
	for _, t := range p.Tags {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	shift := 2*p.StartMove - 2
	if p.Initial == game.Black {
		shift++
		sb.WriteString(strconv.Itoa(p.StartMove))
		sb.WriteString("... ")
	}
	for i, san := range p.Moves {
		if (i+shift)%2 == 0 {
			sb.WriteString(strconv.Itoa((i+shift)/2 + 1))
			sb.WriteString(". ")
		}
		sb.WriteString(san)
		if (i+shift)%2 == 1 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(p.Result)
	sb.WriteByte('\n')
	return sb.String()
}
