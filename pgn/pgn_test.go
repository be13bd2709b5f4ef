package pgn

import (
	"strings"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"gambit/clock"
	"gambit/game"
	"gambit/match"
	"gambit/player"
	"gambit/registry"
)

func newMatch(t *testing.T, b *game.Board, cs ...match.Component) *match.Match {
	t.Helper()
	c := registry.NewCatalog()
	_, err := c.Load(registry.DefaultNamespace, func(m *registry.Module) error {
		for _, reg := range []func(*registry.Module) error{game.Register, match.Register, clock.Register, player.Register} {
			if err := reg(m); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	start := time.Date(2024, 7, 14, 18, 30, 5, 0, time.UTC)
	m, err := match.New(c, b, cs, match.WithNow(func() time.Time { return start }))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	return m
}

func play(t *testing.T, m *match.Match, moves ...string) {
	t.Helper()
	for _, s := range moves {
		mv, err := m.Board().MoveByUCI(s)
		require.NoError(t, err, s)
		require.NoError(t, m.FinishMove(mv), s)
	}
}

func TestGenerate(t *testing.T) {
	b, err := game.NewStartBoard(game.StandardVariant)
	require.NoError(t, err)
	sides := player.NewSides(player.NewHuman("ann"), player.NewHuman("bob"))
	m := newMatch(t, b, sides, clock.New(clock.TimeControl{Type: clock.Increment, Initial: 5 * time.Minute, Increment: 3 * time.Second}))

	play(t, m, "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1", "f6e4", "d2d4", "e5d4", "f1e1", "d7d5", "c4d5", "d8d5", "b1c3")
	p := Generate(m)

	for name, want := range map[string]string{
		"White":       "ann",
		"Black":       "bob",
		"Date":        "2024.07.14",
		"Time":        "18:30:05",
		"TimeControl": "300+3",
		"PlyCount":    "15",
		"Result":      "*",
		"Termination": "unterminated",
	} {
		v, ok := p.Get(name)
		require.True(t, ok, name)
		require.Equal(t, want, v, name)
	}
	_, ok := p.Get("FEN")
	require.False(t, ok, "standard start needs no setup")

	s := p.String()
	require.Contains(t, s, "1. e4 e5\n2. Nf3 Nc6\n3. Bc4 Nf6\n4. O-O Nxe4\n")
	require.Contains(t, s, "8. Nc3 *\n")

	t.Run("notnil reads it back", func(t *testing.T) {
		opt, err := chess.PGN(strings.NewReader(s))
		require.NoError(t, err)
		g := chess.NewGame(opt)
		require.Len(t, g.Moves(), 15)

		want := strings.Fields(m.Board().FEN().String())
		got := strings.Fields(g.Position().String())
		require.Equal(t, want[:3], got[:3], "placement, turn and castling agree")
	})

	t.Run("result after the end", func(t *testing.T) {
		require.NoError(t, m.Resign(game.Black))
		p := Generate(m)
		v, _ := p.Get("Termination")
		require.Equal(t, "abandoned", v)
		require.True(t, strings.HasSuffix(p.String(), "1-0\n"))

		opt, err := chess.PGN(strings.NewReader(p.String()))
		require.NoError(t, err)
		require.Equal(t, "1-0", string(chess.NewGame(opt).Outcome()))
	})
}

func TestGenerateSetUp(t *testing.T) {
	fen := "4k3/8/8/8/8/8/4P3/4K2R b K - 3 12"
	b, err := game.NewBoard(game.StandardVariant, game.MustParseFEN(fen))
	require.NoError(t, err)
	m := newMatch(t, b)
	play(t, m, "e8d7", "e1g1", "d7c6")

	p := Generate(m)
	v, ok := p.Get("FEN")
	require.True(t, ok)
	require.Equal(t, fen, v)
	v, _ = p.Get("White")
	require.Equal(t, "?", v)
	v, _ = p.Get("TimeControl")
	require.Equal(t, "-", v)
	require.Contains(t, p.String(), "\n12... Kd7\n13. O-O Kc6\n*\n")
}

func TestVariantTag(t *testing.T) {
	b, err := game.NewStartBoard(game.ThreeChecksVariant)
	require.NoError(t, err)
	m := newMatch(t, b, &match.CheckCounter{})
	v, ok := Generate(m).Get("Variant")
	require.True(t, ok)
	require.Equal(t, "Three Checks", v)

	b, err = game.NewBoard(game.StandardVariant, game.RandomChess960FEN(rand.New(rand.NewSource(3))), game.Chess960())
	require.NoError(t, err)
	v, ok = Generate(newMatch(t, b)).Get("Variant")
	require.True(t, ok)
	require.Equal(t, "Chess960", v)
}
