package gamemaster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gambit/clock"
	"gambit/game"
	"gambit/match"
	"gambit/player"
	"gambit/registry"
)

// script plays a fixed list of moves, one per call.
type script struct {
	name  string
	mu    sync.Mutex
	moves []string
}

func (s *script) Name() string { return s.name }

func (s *script) BestMove(ctx context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.moves) == 0 {
		return "", player.ErrNoMove
	}
	mv := s.moves[0]
	s.moves = s.moves[1:]
	return mv, nil
}

func newCatalog(t *testing.T) *registry.Catalog {
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
	return c
}

func newRunner(t *testing.T, white, black player.Side, opts []Option, cs ...match.Component) *Runner {
	t.Helper()
	b, err := game.NewStartBoard(game.StandardVariant)
	require.NoError(t, err)
	cs = append(cs, player.NewSides(white, black))
	m, err := match.New(newCatalog(t), b, cs, match.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	opts = append([]Option{WithLogger(zerolog.Nop()), WithTick(time.Millisecond)}, opts...)
	r, err := NewRunner(m, opts...)
	require.NoError(t, err)
	return r
}

func engine(name string, moves ...string) player.Side {
	return player.NewEngineSide(&script{name: name, moves: moves})
}

func TestRunToTheEnd(t *testing.T) {
	t.Run("checkmate", func(t *testing.T) {
		r := newRunner(t, engine("w", "f2f3", "g2g4"), engine("b", "e7e5", "d8h4"), nil)
		require.NoError(t, r.Run(context.Background()))

		m := r.Match()
		require.Equal(t, match.StateStopped, m.State())
		require.Equal(t, game.BlackWins, m.Results().Score)
		require.Same(t, game.Checkmate, m.Results().Reason)
		require.Len(t, m.Board().History(), 4)
	})

	t.Run("repetition", func(t *testing.T) {
		r := newRunner(t,
			engine("w", "g1f3", "f3g1", "g1f3", "f3g1"),
			engine("b", "g8f6", "f6g8", "g8f6", "f6g8"), nil)
		require.NoError(t, r.Run(context.Background()))
		require.Same(t, game.Repetition, r.Match().Results().Reason)
	})

	t.Run("ply limit leaves the match running", func(t *testing.T) {
		r := newRunner(t,
			engine("w", "g1f3", "f3g1", "g1f3", "f3g1"),
			engine("b", "g8f6", "f6g8", "g8f6", "f6g8"),
			[]Option{WithMaxPlies(6)})
		err := r.Run(context.Background())
		require.ErrorIs(t, err, ErrPlyLimit)
		require.True(t, r.Match().Running())
		require.Len(t, r.Match().Board().History(), 6)
	})

	t.Run("only once", func(t *testing.T) {
		r := newRunner(t, engine("w", "f2f3", "g2g4"), engine("b", "e7e5", "d8h4"), nil)
		require.NoError(t, r.Run(context.Background()))
		require.ErrorIs(t, r.Run(context.Background()), ErrAlreadyRunning)
		require.ErrorIs(t, r.Do(context.Background(), func(*match.Match) {}), ErrRunnerStopped)
	})
}

func TestEngineFailures(t *testing.T) {
	t.Run("protocol error", func(t *testing.T) {
		r := newRunner(t, engine("w", "e2e5"), engine("b"), nil)
		err := r.Run(context.Background())
		require.ErrorIs(t, err, ErrMatchErrored)

		var pe *player.EngineProtocolError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "w", pe.Engine)
		require.Equal(t, "e2e5", pe.Move)

		m := r.Match()
		require.Equal(t, match.StateErrored, m.State())
		require.Same(t, game.Error, m.Results().Reason)
	})

	t.Run("engine gives up", func(t *testing.T) {
		r := newRunner(t, engine("w", "e2e4"), engine("b"), nil)
		err := r.Run(context.Background())
		require.ErrorIs(t, err, ErrMatchErrored)
		require.ErrorIs(t, err, player.ErrNoMove)
		require.Len(t, r.Match().Board().History(), 1)
	})
}

func TestHumans(t *testing.T) {
	ann, bob := player.NewHuman("ann"), player.NewHuman("bob")
	r := newRunner(t, ann, bob, nil)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx) }()

	history := func() int {
		n := -1
		_ = r.Do(ctx, func(m *match.Match) { n = len(m.Board().History()) })
		return n
	}

	require.NoError(t, ann.Submit("e2e5"))
	require.Eventually(t, func() bool { return ann.Submit("e2e4") == nil }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return history() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, bob.Submit("e7e5"))
	require.Eventually(t, func() bool { return history() == 2 }, time.Second, time.Millisecond)

	var outcomes []match.RequestOutcome
	offer := func(c game.Color) {
		var err error
		require.NoError(t, r.Do(ctx, func(m *match.Match) {
			var o match.RequestOutcome
			o, err = m.Offer(match.DrawOffer, c)
			outcomes = append(outcomes, o)
		}))
		require.NoError(t, err)
	}
	offer(game.White)
	offer(game.Black)
	require.Equal(t, []match.RequestOutcome{match.Pending, match.Accepted}, outcomes)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after the draw")
	}
	res := r.Match().Results()
	require.Equal(t, game.Drawn, res.Score)
	require.Same(t, game.DrawAgreement, res.Reason)
}

func TestStaleAskKeepsHumanInput(t *testing.T) {
	ann, bob := player.NewHuman("ann"), player.NewHuman("bob")
	r := newRunner(t, ann, bob, nil)

	require.NoError(t, ann.Submit("e2e4"))
	ctx, cancel := context.WithCancel(context.Background())
	stop := r.ask(ctx, make(chan selection), 0)
	time.Sleep(10 * time.Millisecond)
	stop()
	cancel()

	runCtx, done := context.WithCancel(context.Background())
	defer done()
	go func() { _ = r.Run(runCtx) }()

	var uci []string
	require.Eventually(t, func() bool {
		uci = nil
		_ = r.Do(runCtx, func(m *match.Match) {
			for _, mv := range m.Board().History() {
				uci = append(uci, mv.UCI())
			}
		})
		return len(uci) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, []string{"e2e4"}, uci)
}

func TestTimeout(t *testing.T) {
	tc := clock.TimeControl{Type: clock.Fixed, Initial: 20 * time.Millisecond}
	r := newRunner(t, player.NewHuman("ann"), player.NewHuman("bob"), nil, clock.New(tc))
	require.NoError(t, r.Run(context.Background()))

	res := r.Match().Results()
	require.Equal(t, game.BlackWins, res.Score)
	require.Same(t, game.Timeout, res.Reason)
}

func TestCancel(t *testing.T) {
	r := newRunner(t, player.NewHuman("ann"), player.NewHuman("bob"), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := r.Run(ctx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.True(t, r.Match().Running())
}

func TestNeedsSides(t *testing.T) {
	b, err := game.NewStartBoard(game.StandardVariant)
	require.NoError(t, err)
	m, err := match.New(newCatalog(t), b, nil)
	require.NoError(t, err)
	_, err = NewRunner(m)
	require.ErrorIs(t, err, match.ErrComponentNotFound)
}
