package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gambit/game"
	"gambit/match"
	"gambit/player"
)

// selection is a side's answer for the turn numbered plies.
type selection struct {
	plies  int
	color  game.Color
	answer string
	err    error
}

// Run starts the match if needed and plays it until it ends, ctx is done,
// or the ply limit is reached. A match that ended normally gives nil; its
// results are on the match. Run can only be called once.
func (r *Runner) Run(ctx context.Context) error {
	select {
	case r.running <- struct{}{}:
	default:
		return ErrAlreadyRunning
	}
	defer close(r.done)

	m := r.match
	if m.State() == match.StateInitial {
		if err := m.Start(); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	selected := make(chan selection, 1)
	cancel := func() {}
	defer func() { cancel() }()
	asked := -1

	for {
		if err := r.finished(); err != nil || m.State().Terminal() {
			return err
		}
		if r.maxPlies > 0 && len(m.Board().History()) >= r.maxPlies {
			r.log.Info().Int("plies", r.maxPlies).Msg("ply limit reached")
			return fmt.Errorf("%w: %d", ErrPlyLimit, r.maxPlies)
		}
		if asked != m.Plies() {
			cancel()
			asked = m.Plies()
			cancel = r.ask(ctx, selected, asked)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Update(); err != nil && !m.State().Terminal() {
				return err
			}
		case f := <-r.work:
			f(m)
		case s := <-selected:
			if s.plies != m.Plies() {
				r.giveBack(s)
				continue
			}
			if err := r.play(s); err != nil {
				return err
			}
			asked = -1
		}
	}
}

// ask starts the side to move choosing on a copy of the board.
func (r *Runner) ask(ctx context.Context, out chan<- selection, plies int) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	b := r.match.Board().Clone()
	color := b.Turn()
	side := r.sides.Side(color)

	go func() {
		answer, err := side.Move(ctx, b)
		s := selection{plies: plies, color: color, answer: answer, err: err}
		select {
		case out <- s:
		case <-ctx.Done():
			r.giveBack(s)
		}
	}()
	return cancel
}

// giveBack returns a human's input taken by an ask that went stale, so it
// is played on the human's next turn instead of dropped.
func (r *Runner) giveBack(s selection) {
	if s.err != nil {
		return
	}
	if h, ok := r.sides.Side(s.color).(*player.Human); ok {
		h.Return(s.answer)
	}
}

// play applies a side's answer. Engines that break the protocol fail the
// match; a human's bad input is logged and the human asked again.
func (r *Runner) play(s selection) error {
	m := r.match
	side := r.sides.Side(s.color)
	l := r.log.With().Stringer("color", s.color).Str("side", side.Name()).Logger()

	if s.err != nil {
		if errors.Is(s.err, context.Canceled) {
			return nil
		}
		l.Error().Err(s.err).Msg("side failed to move")
		r.fail(fmt.Errorf("%s: %w", side.Name(), s.err))
		return nil
	}

	mv, err := player.Resolve(side, m.Board(), s.answer)
	if err != nil {
		var pe *player.EngineProtocolError
		if errors.As(err, &pe) {
			l.Error().Err(err).Msg("engine protocol error")
			r.fail(err)
			return nil
		}
		l.Warn().Err(err).Str("input", s.answer).Msg("move rejected")
		return nil
	}
	if err := m.FinishMove(mv); err != nil {
		if m.State().Terminal() {
			return nil
		}
		if errors.Is(err, game.ErrIllegalMove) {
			l.Warn().Err(err).Str("input", s.answer).Msg("move rejected")
			return nil
		}
		return err
	}
	return nil
}

func (r *Runner) fail(err error) {
	r.cause = err
	_ = r.match.Fail(err)
}

// finished reports an errored match as an error.
func (r *Runner) finished() error {
	m := r.match
	if m.State() != match.StateErrored {
		return nil
	}
	if r.cause != nil {
		return fmt.Errorf("%w: %w", ErrMatchErrored, r.cause)
	}
	var detail string
	if res := m.Results(); res != nil {
		detail = strings.Join(res.Args, ", ")
	}
	return fmt.Errorf("%w: %s", ErrMatchErrored, detail)
}
