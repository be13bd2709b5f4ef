package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gambit/clock"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gambit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
		require.Equal(t, clock.Increment, cfg.TimeControl.Type)
		require.Equal(t, 5*time.Minute, cfg.TimeControl.Initial)
	})

	t.Run("file then environment", func(t *testing.T) {
		path := writeFile(t, `
variant: three_checks
time_control: "bronstein:3+2"
white: random
tick: 250ms
max_plies: 80
sqlite: stats.db
`)
		t.Setenv("GAMBIT_MAX_PLIES", "40")
		t.Setenv("GAMBIT_BLACK", "dragontooth")
		t.Setenv("LOG_PRETTY", "true")

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "three_checks", cfg.Variant)
		require.Equal(t, clock.TimeControl{Type: clock.Bronstein, Initial: 3 * time.Minute, Increment: 2 * time.Second}, cfg.TimeControl)
		require.Equal(t, "random", cfg.White)
		require.Equal(t, "dragontooth", cfg.Black)
		require.Equal(t, 250*time.Millisecond, cfg.Tick)
		require.Equal(t, 40, cfg.MaxPlies, "environment wins over the file")
		require.Equal(t, "stats.db", cfg.SQLite)
		require.True(t, cfg.LogPretty)
		require.Equal(t, Default().StatsDir, cfg.StatsDir, "untouched fields keep their default")
	})

	t.Run("time control from the environment", func(t *testing.T) {
		t.Setenv("GAMBIT_TIME_CONTROL", "fixed:0.5")
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, clock.TimeControl{Type: clock.Fixed, Initial: 30 * time.Second}, cfg.TimeControl)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)

		_, err = Load(writeFile(t, "time_control: 5+x\n"))
		require.ErrorContains(t, err, "bad increment")

		_, err = Load(writeFile(t, "white: stockfish\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = Load(writeFile(t, "variant: \"a:b:c\"\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		t.Setenv("GAMBIT_MAX_PLIES", "-1")
		_, err = Load("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
