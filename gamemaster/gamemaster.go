// Package gamemaster drives a match between two sides until it ends.
package gamemaster

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gambit/match"
	"gambit/meta"
	"gambit/player"
)

var (
	ErrPlyLimit       = errors.New("ply limit reached")
	ErrMatchErrored   = errors.New("match errored")
	ErrRunnerStopped  = errors.New("runner stopped")
	ErrAlreadyRunning = errors.New("runner already running")
)

// Runner owns a match: every change to it happens on the goroutine running
// Run. Sides choose their moves on their own goroutines, on a copy of the
// board.
type Runner struct {
	match    *match.Match
	sides    *player.Sides
	tick     time.Duration
	maxPlies int
	log      zerolog.Logger
	cause    error

	work    chan func(*match.Match)
	done    chan struct{}
	running chan struct{}
}

type Option func(*Runner)

// WithTick sets how often the match is updated while a side thinks.
func WithTick(d time.Duration) Option {
	return func(r *Runner) {
		r.tick = d
	}
}

// WithMaxPlies stops the runner with ErrPlyLimit once the board has that
// many moves. Zero means no limit.
func WithMaxPlies(n int) Option {
	return func(r *Runner) {
		r.maxPlies = n
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// NewRunner prepares m to be run. The match needs a sides component.
func NewRunner(m *match.Match, opts ...Option) (*Runner, error) {
	sides, err := match.Require[*player.Sides](m, player.SidesType)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		match:    m,
		sides:    sides,
		tick:     meta.TICK,
		maxPlies: meta.MAX_PLIES,
		log:      log.Logger,
		work:     make(chan func(*match.Match)),
		done:     make(chan struct{}),
		running:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With().Str("match", m.ID().String()).Logger()
	return r, nil
}

func (r *Runner) Match() *match.Match {
	return r.match
}

// Do runs f on the runner goroutine and waits for it. This is how code on
// other goroutines acts on the match, for example to offer a draw.
func (r *Runner) Do(ctx context.Context, f func(*match.Match)) error {
	ran := make(chan struct{})
	job := func(m *match.Match) {
		defer close(ran)
		f(m)
	}
	select {
	case r.work <- job:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ran
	return nil
}
