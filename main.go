package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gambit/builtin"
	"gambit/clock"
	"gambit/config"
	"gambit/game"
	"gambit/gamemaster"
	"gambit/match"
	"gambit/pgn"
	"gambit/player"
	"gambit/registry"
	"gambit/stats"
	"gambit/stats/sqlstore"
)

// PlyLimit ends a self-play game that ran past the configured cap.
var PlyLimit = game.NewEndReason(game.EndAbandoned)

func main() {
	path := flag.String("config", "", "YAML config file")
	games := flag.Int("games", 1, "Number of games to play")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *games); err != nil {
		log.Fatal().Err(err).Msg("self-play failed")
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func run(ctx context.Context, cfg config.Config, games int) error {
	c, err := builtin.Catalog()
	if err != nil {
		return err
	}
	if _, err := c.Load("selfplay", func(m *registry.Module) error {
		return game.EndReasons(c).Register(m, "ply_limit", PlyLimit)
	}); err != nil {
		return err
	}
	variant, err := game.Variants(c).Resolve(cfg.Variant)
	if err != nil {
		return fmt.Errorf("variant %q: %w", cfg.Variant, err)
	}

	writer, err := stats.NewWriter(cfg.StatsDir)
	if err != nil {
		return err
	}
	var store *sqlstore.Store
	if cfg.SQLite != "" {
		if store, err = sqlstore.Open(ctx, cfg.SQLite); err != nil {
			return err
		}
		defer store.Close()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < games; i++ {
		log.Info().Msgf("game %d started", i+1)
		m, err := playGame(ctx, c, cfg, variant, rng)
		if err != nil {
			return err
		}
		fmt.Println(pgn.Generate(m))

		sides, _ := match.Get[*player.Sides](m, player.SidesType)
		names := game.ByColor[string]{sides.Side(game.White).Name(), sides.Side(game.Black).Name()}
		writer.AddMatch(stats.RecordOf(m, names[game.White], names[game.Black]))
		var sinks game.ByColor[stats.Sink]
		for _, col := range game.Colors {
			sinks[col] = writer.Sink(m.ID().String(), names[col])
			if store != nil {
				sinks[col] = stats.Tee(sinks[col], store.Sink(ctx, names[col]))
			}
		}
		if err := stats.AddStats(m, sinks); err != nil {
			return err
		}
		log.Info().Msgf("game %d over: %v", i+1, m.Results())
	}

	if err := writer.Flush(); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("records written")
	return nil
}

func playGame(ctx context.Context, c *registry.Catalog, cfg config.Config, v game.Variant, rng *rand.Rand) (*match.Match, error) {
	var opts []game.BoardOption
	var b *game.Board
	var err error
	if cfg.Chess960 {
		opts = append(opts, game.Chess960())
		b, err = game.NewBoard(v, game.RandomChess960FEN(rng), opts...)
	} else {
		b, err = game.NewStartBoard(v)
	}
	if err != nil {
		return nil, err
	}

	white, err := newEngine(cfg.White, v, cfg, rng.Uint64(), opts)
	if err != nil {
		return nil, err
	}
	black, err := newEngine(cfg.Black, v, cfg, rng.Uint64(), opts)
	if err != nil {
		return nil, err
	}
	components := []match.Component{
		player.NewSides(player.NewEngineSide(white), player.NewEngineSide(black)),
		clock.New(cfg.TimeControl),
		match.NewRequests(),
		stats.NewCollector(),
	}
	if v == game.ThreeChecksVariant {
		components = append(components, &match.CheckCounter{})
	}

	m, err := match.New(c, b, components)
	if err != nil {
		return nil, err
	}
	r, err := gamemaster.NewRunner(m, gamemaster.WithTick(cfg.Tick), gamemaster.WithMaxPlies(cfg.MaxPlies))
	if err != nil {
		return nil, err
	}
	err = r.Run(ctx)
	switch {
	case errors.Is(err, gamemaster.ErrPlyLimit):
		err = m.Stop(game.DrawBy(PlyLimit))
	case errors.Is(err, gamemaster.ErrMatchErrored):
		log.Error().Err(err).Msg("match errored")
		err = nil
	}
	return m, err
}

func newEngine(kind string, v game.Variant, cfg config.Config, seed uint64, opts []game.BoardOption) (player.Engine, error) {
	switch kind {
	case "random":
		return player.NewRandomEngine(v, seed, opts...), nil
	case "dragontooth":
		if v != game.StandardVariant || cfg.Chess960 {
			return nil, fmt.Errorf("%w: dragontooth plays standard chess only", config.ErrInvalidConfig)
		}
		return player.NewDragontooth(seed), nil
	}
	return nil, fmt.Errorf("%w: unknown engine %q", config.ErrInvalidConfig, kind)
}
