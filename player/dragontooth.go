package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/rand"

	"gambit/game"
)

var pieceValue = [7]int{
	dragontoothmg.Pawn:   100,
	dragontoothmg.Knight: 300,
	dragontoothmg.Bishop: 300,
	dragontoothmg.Rook:   500,
	dragontoothmg.Queen:  900,
	dragontoothmg.King:   5000,
}

// Dragontooth plays standard chess off dragontoothmg's move generator: it
// takes the most valuable piece it can, using the cheapest attacker, and
// otherwise moves at random. It has no search.
type Dragontooth struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewDragontooth(seed uint64) *Dragontooth {
	return &Dragontooth{rng: rand.New(rand.NewSource(seed))}
}

func (*Dragontooth) Name() string { return "dragontooth" }

func (e *Dragontooth) BestMove(ctx context.Context, fen string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := game.ParseFEN(fen)
	if err != nil {
		return "", err
	}
	if f.Size() != game.StandardSize || f.IsChess960Castling() {
		return "", fmt.Errorf("dragontooth plays standard chess only: %q", fen)
	}

	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		return "", ErrNoMove
	}

	own, opp := &b.White, &b.Black
	if !b.Wtomove {
		own, opp = opp, own
	}
	best, bestScore := -1, 0
	for i, m := range moves {
		victim, ok := pieceAt(m.To(), opp)
		if !ok {
			continue
		}
		attacker, _ := pieceAt(m.From(), own)
		score := pieceValue[victim]*10 - pieceValue[attacker]/100
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return moves[best].String(), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return moves[e.rng.Intn(len(moves))].String(), nil
}

func pieceAt(sq uint8, bb *dragontoothmg.Bitboards) (dragontoothmg.Piece, bool) {
	bit := uint64(1) << sq
	switch {
	case bb.Pawns&bit != 0:
		return dragontoothmg.Pawn, true
	case bb.Knights&bit != 0:
		return dragontoothmg.Knight, true
	case bb.Bishops&bit != 0:
		return dragontoothmg.Bishop, true
	case bb.Rooks&bit != 0:
		return dragontoothmg.Rook, true
	case bb.Queens&bit != 0:
		return dragontoothmg.Queen, true
	case bb.Kings&bit != 0:
		return dragontoothmg.King, true
	}
	return 0, false
}
