package player

import (
	"context"
	"sync"
	"unicode"

	"golang.org/x/exp/rand"

	"gambit/game"
)

// RandomEngine plays a uniformly random legal move of any variant.
type RandomEngine struct {
	variant game.Variant
	opts    []game.BoardOption

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomEngine(v game.Variant, seed uint64, opts ...game.BoardOption) *RandomEngine {
	return &RandomEngine{
		variant: v,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (*RandomEngine) Name() string { return "random" }

func (e *RandomEngine) BestMove(ctx context.Context, fen string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := game.ParseFEN(fen)
	if err != nil {
		return "", err
	}
	b, err := game.NewBoard(e.variant, f, e.opts...)
	if err != nil {
		return "", err
	}
	moves := b.AllLegalMoves(b.Turn())
	if len(moves) == 0 {
		return "", ErrNoMove
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	m := moves[e.rng.Intn(len(moves))]
	s := m.UCI()
	if p := m.Promotion(); p != nil {
		o := p.Options[e.rng.Intn(len(p.Options))]
		s += string(unicode.ToLower(o.Type.Char()))
	}
	return s, nil
}
