package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gambit/event"
	"gambit/game"
	"gambit/match"
	"gambit/registry"
)

var bonusType = match.NewComponentType()

// bonus adds one extra win to white through the event.
type bonus struct{}

func (bonus) Type() *match.ComponentType { return bonusType }

func (bonus) Handlers() []event.Binding[*match.Match] {
	return []event.Binding[*match.Match]{
		event.On(AddStatsEvent, func(m *match.Match, sinks game.ByColor[Sink]) error {
			sinks[game.White].Add(Wins, 1)
			return nil
		}),
	}
}

func finishedMatch(t *testing.T, cs ...match.Component) *match.Match {
	t.Helper()
	c := registry.NewCatalog()
	_, err := c.Load(registry.DefaultNamespace, func(m *registry.Module) error {
		for _, reg := range []func(*registry.Module) error{game.Register, match.Register, Register} {
			if err := reg(m); err != nil {
				return err
			}
		}
		return match.ComponentTypes(c).Register(m, "bonus", bonusType)
	})
	require.NoError(t, err)

	b, err := game.NewStartBoard(game.StandardVariant)
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m, err := match.New(c, b, cs, match.WithNow(func() time.Time { return now }))
	require.NoError(t, err)
	require.NoError(t, m.Start())

	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		now = now.Add(30 * time.Second)
		mv, err := m.Board().MoveByUCI(s)
		require.NoError(t, err)
		require.NoError(t, m.FinishMove(mv))
	}
	require.Equal(t, match.StateStopped, m.State())
	return m
}

func TestAddStats(t *testing.T) {
	t.Run("winner and loser", func(t *testing.T) {
		m := finishedMatch(t)
		white, black := NewMemory(), NewMemory()
		require.NoError(t, AddStats(m, game.ByColor[Sink]{white, black}))

		require.Equal(t, int64(1), black.Get(Wins))
		require.Equal(t, int64(1), white.Get(Losses))
		require.Zero(t, white.Get(Wins))
		require.Equal(t, int64(2), white.Get(MovesPlayed))
		require.Equal(t, int64(2), black.Get(MovesPlayed))
		require.Equal(t, int64(2*time.Minute), white.Get(TimePlayed))
	})

	t.Run("components add through the event", func(t *testing.T) {
		m := finishedMatch(t, bonus{})
		white := NewMemory()
		require.NoError(t, AddStats(m, game.ByColor[Sink]{white, Void{}}))
		require.Equal(t, int64(1), white.Get(Wins))
	})

	t.Run("nothing before the end", func(t *testing.T) {
		c := registry.NewCatalog()
		_, err := c.Load(registry.DefaultNamespace, func(m *registry.Module) error {
			if err := game.Register(m); err != nil {
				return err
			}
			return match.Register(m)
		})
		require.NoError(t, err)
		b, err := game.NewStartBoard(game.StandardVariant)
		require.NoError(t, err)
		m, err := match.New(c, b, nil)
		require.NoError(t, err)
		require.ErrorIs(t, AddStats(m, game.Both[Sink](Void{})), match.ErrInvalidState)
	})

	t.Run("tee", func(t *testing.T) {
		a, b := NewMemory(), NewMemory()
		s := Tee(a, b)
		s.Add(Draws, 1, 2)
		require.Zero(t, a.Get(Draws), "staged until commit")
		require.NoError(t, s.Commit())
		require.Equal(t, int64(3), a.Get(Draws))
		require.Equal(t, int64(3), b.Get(Draws))
	})
}

func TestWriter(t *testing.T) {
	m := finishedMatch(t)
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	id := m.ID().String()
	w.AddMatch(RecordOf(m, "ann", "bob"))
	require.NoError(t, AddStats(m, game.ByColor[Sink]{w.Sink(id, "ann"), w.Sink(id, "bob")}))
	require.NoError(t, w.Flush())

	read := func(name string) [][]string {
		f, err := os.Open(filepath.Join(w.Dir(), name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	matches := read("match_records.csv")
	require.Len(t, matches, 2)
	require.Equal(t, []string{id, "chess:standard", "ann", "bob", "0-1", "chess:checkmate"}, matches[1][:6])
	require.Equal(t, "4", matches[1][9])

	stats := read("stat_records.csv")
	require.Equal(t, []string{"match", "player", "stat", "value"}, stats[0])
	require.Contains(t, stats, []string{id, "bob", "chess:wins", "1"})
	require.Contains(t, stats, []string{id, "ann", "chess:moves_played", "2"})
}

func TestCollector(t *testing.T) {
	col := NewCollector()
	m := finishedMatch(t, col)

	require.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, col.MoveTimes(game.White))
	require.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, col.MoveTimes(game.Black), "the mating move counts")

	white, black := NewMemory(), NewMemory()
	require.NoError(t, AddStats(m, game.ByColor[Sink]{white, black}))
	require.Equal(t, int64(time.Minute), white.Get(MoveTime))
	require.Equal(t, int64(time.Minute), black.Get(MoveTime))
}
