package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gambit/clock"
	"gambit/game"
	"gambit/match"
	"gambit/player"
	"gambit/registry"
	"gambit/stats"
)

func TestLoad(t *testing.T) {
	c, err := Catalog()
	require.NoError(t, err)

	m, ok := c.Module(registry.DefaultNamespace)
	require.True(t, ok)
	require.Equal(t, registry.Finished, m.Phase())

	for name, want := range map[string]*match.ComponentType{
		"clock":         clock.Type,
		"sides":         player.SidesType,
		"chessboard":    match.ChessboardType,
		"check_counter": match.CheckCounterType,
	} {
		got, err := match.ComponentTypes(c).Resolve(name)
		require.NoError(t, err, name)
		require.Same(t, want, got, name)
	}

	v, err := game.Variants(c).Resolve("chess:three_checks")
	require.NoError(t, err)
	require.Same(t, game.ThreeChecksVariant, v)

	s, err := stats.Stats(c).Resolve("time_played")
	require.NoError(t, err)
	require.Same(t, stats.TimePlayed, s)

	t.Run("twice", func(t *testing.T) {
		_, err := Load(c)
		require.ErrorIs(t, err, registry.ErrModuleLoaded)
	})
}
