package player

import (
	"context"

	"gambit/game"
)

// Human is a side fed from outside, one coordinate move at a time.
type Human struct {
	name  string
	moves chan string
}

func NewHuman(name string) *Human {
	return &Human{name: name, moves: make(chan string, 1)}
}

func (h *Human) Name() string  { return h.name }
func (*Human) Type() *SideType { return HumanType }

// Submit hands over a move for the turn in progress. Only one move can wait.
func (h *Human) Submit(uci string) error {
	select {
	case h.moves <- uci:
		return nil
	default:
		return ErrMovePending
	}
}

// Return puts back a move that was taken for a turn that no longer wants it.
// A move submitted since then wins.
func (h *Human) Return(uci string) {
	select {
	case h.moves <- uci:
	default:
	}
}

func (h *Human) Move(ctx context.Context, _ *game.Board) (string, error) {
	select {
	case s := <-h.moves:
		return s, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
