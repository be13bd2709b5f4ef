package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestFENRoundTrip(t *testing.T) {
	t.Run("parse then print", func(t *testing.T) {
		for _, s := range []string{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
			"8/8/8/8/8/8/8/K6k b - - 12 40",
			"bqnbrkrn/pppppppp/8/8/8/8/PPPPPPPP/BQNBRKRN w GEge - 0 1",
		} {
			f, err := ParseFEN(s)
			require.NoError(t, err, s)
			require.Equal(t, s, f.String())
		}
	})

	t.Run("board writes back what it read", func(t *testing.T) {
		for _, s := range []string{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 3 17",
			"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
			"8/8/8/8/8/8/8/K6k b - - 12 40",
		} {
			b, err := NewBoard(StandardVariant, MustParseFEN(s))
			require.NoError(t, err, s)
			require.Equal(t, s, b.FEN().String())
		}
	})

	t.Run("chess960 rights need a chess960 board", func(t *testing.T) {
		f := MustParseFEN("bqnbrkrn/pppppppp/8/8/8/8/PPPPPPPP/BQNBRKRN w GEge - 0 1")
		_, err := NewBoard(StandardVariant, f)
		require.ErrorIs(t, err, ErrInvalidPosition)

		b, err := NewBoard(StandardVariant, f, Chess960())
		require.NoError(t, err)
		require.Equal(t, f.String(), b.FEN().String())
	})

	t.Run("K and Q resolve to the outermost rooks", func(t *testing.T) {
		f := MustParseFEN("r3k1r1/8/8/8/8/8/8/1R2K2R w KQq - 0 1")
		require.Equal(t, []int{1, 7}, f.Castling[White])
		require.Equal(t, []int{0}, f.Castling[Black])
	})
}

func TestFENErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1 w KQkq - 0 1",
		"rnbqkbnr/ppp?pppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e5 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1",
		"rnbqkbnr/pppp1ppp/4n3/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 2",
	} {
		_, err := ParseFEN(s)
		var fe *FENFormatError
		require.ErrorAs(t, err, &fe, s)
		require.Equal(t, s, fe.FEN, "error should carry the raw string")
	}

	t.Run("unknown piece letter", func(t *testing.T) {
		f := MustParseFEN("4k3/8/8/8/8/8/8/4K2Z w - - 0 1")
		_, err := NewBoard(StandardVariant, f)
		var fe *FENFormatError
		require.ErrorAs(t, err, &fe)
	})
}

func requireSameState(t *testing.T, want, got *Board, line []string) {
	t.Helper()
	require.Equal(t, want.FEN().String(), got.FEN().String(), line)
	require.Equal(t, uciSet(want), uciSet(got), line)
	require.ElementsMatch(t, want.Captured(), got.Captured(), line)
	require.Equal(t, want.RepetitionCount(), got.RepetitionCount(), line)
	require.Equal(t, want.CanUndo(), got.CanUndo(), line)
	var wantHistory, gotHistory []string
	for _, m := range want.History() {
		wantHistory = append(wantHistory, m.UCI())
	}
	for _, m := range got.History() {
		gotHistory = append(gotHistory, m.UCI())
	}
	require.Equal(t, wantHistory, gotHistory, line)
}

func TestReachablePositions(t *testing.T) {
	for _, pos := range perftPositions {
		t.Run(pos.name, func(t *testing.T) {
			var walk func(b *Board, line []string, depth int)
			walk = func(b *Board, line []string, depth int) {
				fen := b.FEN().String()
				parsed, err := ParseFEN(fen)
				require.NoError(t, err, line)
				back, err := NewBoard(StandardVariant, parsed)
				require.NoError(t, err, line)
				require.Equal(t, fen, back.FEN().String(), line)
				require.Equal(t, uciSet(b), uciSet(back), line)

				replay := newTestBoard(t, StandardVariant, pos.fen)
				play(t, replay, line...)
				requireSameState(t, b, replay, line)

				if depth == 0 {
					return
				}
				for _, s := range uciSet(b) {
					next := b.Clone()
					play(t, next, s)
					walk(next, append(slices.Clip(line), s), depth-1)
				}
			}
			walk(newTestBoard(t, StandardVariant, pos.fen), nil, 2)
		})
	}
}

func TestRandomChess960FEN(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		f := RandomChess960FEN(r)
		b, err := NewBoard(StandardVariant, f, Chess960())
		require.NoError(t, err, f.String())

		var back []BoardPiece
		for _, p := range b.PiecesOf(White) {
			if p.Pos.Rank == 0 {
				back = append(back, p)
			}
		}
		require.Len(t, back, 8)

		var bishops []int
		var rooks []int
		king := -1
		for _, p := range back {
			switch p.Type() {
			case Bishop:
				bishops = append(bishops, p.Pos.File)
			case Rook:
				rooks = append(rooks, p.Pos.File)
			case King:
				king = p.Pos.File
			}
		}
		require.Len(t, bishops, 2)
		require.NotEqual(t, bishops[0]%2, bishops[1]%2, "bishops on opposite colors")
		require.Len(t, rooks, 2)
		require.Less(t, rooks[0], king)
		require.Greater(t, rooks[1], king)
		require.Equal(t, rooks, f.Castling[White])
	}
}
