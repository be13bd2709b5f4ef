package game

import (
	"slices"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/stretchr/testify/require"
)

var perftPositions = []struct {
	name  string
	fen   string
	depth int
}{
	{"start", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 3},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
	{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2},
}

func dragonPerft(b *dragontoothmg.Board, depth int) int {
	if depth == 0 {
		return 1
	}
	n := 0
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		n += dragonPerft(b, depth-1)
		undo()
	}
	return n
}

func perft(t *testing.T, b *Board, depth int) int {
	moves := uciSet(b)
	if depth == 1 {
		return len(moves)
	}
	n := 0
	for _, s := range moves {
		c := b.Clone()
		play(t, c, s)
		n += perft(t, c, depth-1)
	}
	return n
}

func TestPerftMatchesDragontooth(t *testing.T) {
	for _, pos := range perftPositions {
		t.Run(pos.name, func(t *testing.T) {
			b := newTestBoard(t, StandardVariant, pos.fen)
			db := dragontoothmg.ParseFen(pos.fen)

			// root move lists must agree exactly, not just in number
			var want []string
			for _, m := range db.GenerateLegalMoves() {
				want = append(want, m.String())
			}
			slices.Sort(want)
			require.Equal(t, want, uciSet(b))

			require.Equal(t, dragonPerft(&db, pos.depth), perft(t, b, pos.depth))
		})
	}

	t.Run("known start counts", func(t *testing.T) {
		b := newTestBoard(t, StandardVariant, StartFEN().String())
		require.Equal(t, 20, perft(t, b, 1))
		require.Equal(t, 400, perft(t, b, 2))
	})
}

func TestMoveShapes(t *testing.T) {
	b := newTestBoard(t, StandardVariant, "4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1")

	t.Run("rays need the path empty", func(t *testing.T) {
		for _, m := range b.Moves(MustPos("d4")) {
			tt := m.Target()
			require.NotNil(t, tt)
			dist := max(abs(tt.Target.File-3), abs(tt.Target.Rank-3))
			require.Len(t, m.NeededEmpty, dist-1, m.UCI())
			require.NotNil(t, m.Capture())
		}
		require.Len(t, b.Moves(MustPos("d4")), 27)
	})

	t.Run("double push sets the en passant flag", func(t *testing.T) {
		b := newTestBoard(t, StandardVariant, StartFEN().String())
		m, err := b.MoveByUCI("e2e4")
		require.NoError(t, err)
		require.Equal(t, []Pos{MustPos("e3"), MustPos("e4")}, m.NeededEmpty)
		require.Equal(t, map[*Flag]int{EnPassant: 0}, m.Flag().Flags[MustPos("e3")])

		_, err = b.ApplyMove(m)
		require.NoError(t, err)
		require.Equal(t, map[*Flag][]int{EnPassant: {1}}, b.Flags(MustPos("e3")))
		require.True(t, b.HasActiveFlag(MustPos("e3"), EnPassant))

		play(t, b, "g8f6")
		require.Empty(t, b.Flags(MustPos("e3")), "pruned once past its max age")
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
