package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/rand"
)

const startPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// FEN is a parsed Forsyth-Edwards position. Castling rights are kept as rook
// files per color so that Chess960 positions round-trip.
type FEN struct {
	Placement string
	Turn      Color
	Castling  ByColor[[]int]
	EnPassant *Pos
	Halfmove  int
	Fullmove  int
}

// StartFEN is the standard initial position.
func StartFEN() FEN {
	return FEN{
		Placement: startPlacement,
		Turn:      White,
		Castling:  ByColor[[]int]{{0, 7}, {0, 7}},
		Fullmove:  1,
	}
}

func MustParseFEN(s string) FEN {
	f, err := ParseFEN(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFEN parses the six space-separated FEN fields. K and Q castling
// letters resolve to the outermost rook on that side of the king.
func ParseFEN(s string) (FEN, error) {
	bad := func(format string, args ...any) (FEN, error) {
		return FEN{}, &FENFormatError{FEN: s, Reason: fmt.Sprintf(format, args...)}
	}
	fields := strings.Split(s, " ")
	if len(fields) != 6 {
		return bad("want 6 fields, got %d", len(fields))
	}

	f := FEN{Placement: fields[0]}
	squares, size, err := readPlacement(fields[0])
	if err != nil {
		return bad("%v", err)
	}

	switch fields[1] {
	case "w":
		f.Turn = White
	case "b":
		f.Turn = Black
	default:
		return bad("unknown active color %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			c := White
			if unicode.IsLower(ch) {
				c = Black
			}
			file, err := castlingFile(squares, size, c, unicode.ToUpper(ch))
			if err != nil {
				return bad("castling %q: %v", string(ch), err)
			}
			if slices.Contains(f.Castling[c], file) {
				return bad("castling %q repeated", string(ch))
			}
			f.Castling[c] = append(f.Castling[c], file)
		}
		for _, c := range Colors {
			slices.Sort(f.Castling[c])
		}
	}

	if fields[3] != "-" {
		p, err := ParsePos(fields[3])
		if err != nil || !size.Contains(p) {
			return bad("bad en passant square %q", fields[3])
		}
		// the square a pawn of the side not to move just passed
		rank, dir, pawn := 2, 1, 'P'
		if f.Turn == White {
			rank, dir, pawn = size.Ranks-3, -1, 'p'
		}
		if p.Rank != rank {
			return bad("en passant square %q is not on the passed rank", fields[3])
		}
		if _, ok := squares[p]; ok {
			return bad("en passant square %q is occupied", fields[3])
		}
		if squares[P(p.File, p.Rank+dir)] != pawn {
			return bad("no pawn passed en passant square %q", fields[3])
		}
		f.EnPassant = &p
	}

	if f.Halfmove, err = strconv.Atoi(fields[4]); err != nil || f.Halfmove < 0 {
		return bad("bad halfmove clock %q", fields[4])
	}
	if f.Fullmove, err = strconv.Atoi(fields[5]); err != nil || f.Fullmove < 1 {
		return bad("bad fullmove number %q", fields[5])
	}
	return f, nil
}

// readPlacement maps squares to piece letters. Ranks are listed from the top.
func readPlacement(placement string) (map[Pos]rune, Size, error) {
	rows := strings.Split(placement, "/")
	out := make(map[Pos]rune)
	files := -1
	for i, row := range rows {
		rank := len(rows) - 1 - i
		file := 0
		empty := 0
		flush := func() {
			file += empty
			empty = 0
		}
		for _, ch := range row {
			switch {
			case ch >= '0' && ch <= '9':
				empty = empty*10 + int(ch-'0')
				if empty == 0 {
					return nil, Size{}, fmt.Errorf("zero-width gap in rank %d", rank+1)
				}
			case unicode.IsLetter(ch) && ch < unicode.MaxASCII:
				flush()
				out[P(file, rank)] = ch
				file++
			default:
				return nil, Size{}, fmt.Errorf("unexpected %q in rank %d", ch, rank+1)
			}
		}
		flush()
		if files == -1 {
			files = file
		} else if file != files {
			return nil, Size{}, fmt.Errorf("rank %d has %d files, want %d", rank+1, file, files)
		}
	}
	if files <= 0 {
		return nil, Size{}, fmt.Errorf("empty board")
	}
	return out, Size{Files: files, Ranks: len(rows)}, nil
}

func backRank(size Size, c Color) int {
	if c == White {
		return 0
	}
	return size.Ranks - 1
}

func kingFile(squares map[Pos]rune, size Size, c Color) (int, bool) {
	want := 'k'
	if c == White {
		want = 'K'
	}
	rank := backRank(size, c)
	for f := 0; f < size.Files; f++ {
		if squares[P(f, rank)] == want {
			return f, true
		}
	}
	return 0, false
}

// castlingFile resolves one uppercased castling letter to a rook file.
func castlingFile(squares map[Pos]rune, size Size, c Color, ch rune) (int, error) {
	if ch != 'K' && ch != 'Q' {
		file := int(ch - 'A')
		if file < 0 || file >= size.Files {
			return 0, fmt.Errorf("file out of range")
		}
		return file, nil
	}
	king, ok := kingFile(squares, size, c)
	if !ok {
		return 0, fmt.Errorf("no %v king on the back rank", c)
	}
	rook := 'r'
	if c == White {
		rook = 'R'
	}
	rank := backRank(size, c)
	if ch == 'K' {
		for f := size.Files - 1; f > king; f-- {
			if squares[P(f, rank)] == rook {
				return f, nil
			}
		}
	} else {
		for f := 0; f < king; f++ {
			if squares[P(f, rank)] == rook {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("no rook to castle with")
}

// Size is the board extent the placement describes.
func (f FEN) Size() Size {
	_, size, err := readPlacement(f.Placement)
	if err != nil {
		return StandardSize
	}
	return size
}

// Pieces resolves the placement letters against types.
func (f FEN) Pieces(types []*PieceType) (map[Pos]Piece, error) {
	squares, _, err := readPlacement(f.Placement)
	if err != nil {
		return nil, &FENFormatError{FEN: f.String(), Reason: err.Error()}
	}
	out := make(map[Pos]Piece, len(squares))
	for pos, ch := range squares {
		t, ok := PieceTypeByChar(types, ch)
		if !ok {
			return nil, &FENFormatError{FEN: f.String(), Reason: fmt.Sprintf("%v %q", ErrUnknownPiece, string(ch))}
		}
		c := Black
		if unicode.IsUpper(ch) {
			c = White
		}
		out[pos] = t.Of(c)
	}
	return out, nil
}

// IsChess960Castling reports castling rights that KQkq cannot express.
func (f FEN) IsChess960Castling() bool {
	squares, size, err := readPlacement(f.Placement)
	if err != nil {
		return false
	}
	for _, c := range Colors {
		if len(f.Castling[c]) == 0 {
			continue
		}
		if k, ok := kingFile(squares, size, c); !ok || k != 4 {
			return true
		}
		for _, file := range f.Castling[c] {
			if file != 0 && file != size.Files-1 {
				return true
			}
		}
	}
	return false
}

func (f FEN) castlingString() string {
	var sb strings.Builder
	shredder := f.IsChess960Castling()
	size := f.Size()
	for _, c := range Colors {
		files := slices.Clone(f.Castling[c])
		slices.Sort(files)
		slices.Reverse(files)
		for _, file := range files {
			var ch rune
			switch {
			case shredder:
				ch = rune('A' + file)
			case file == size.Files-1:
				ch = 'K'
			default:
				ch = 'Q'
			}
			if c == Black {
				ch = unicode.ToLower(ch)
			}
			sb.WriteRune(ch)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func (f FEN) String() string {
	ep := "-"
	if f.EnPassant != nil {
		ep = f.EnPassant.String()
	}
	return fmt.Sprintf("%s %c %s %s %d %d",
		f.Placement, f.Turn.Char(), f.castlingString(), ep, f.Halfmove, f.Fullmove)
}

// PositionKey identifies a position for repetition: everything but the clocks.
func (f FEN) PositionKey() string {
	s := f.String()
	fields := strings.Split(s, " ")
	return strings.Join(fields[:4], " ")
}

func (f FEN) IsInitial() bool {
	return f.String() == StartFEN().String()
}

// FEN writes the current position.
func (b *Board) FEN() FEN {
	var sb strings.Builder
	for r := b.size.Ranks - 1; r >= 0; r-- {
		empty := 0
		for file := 0; file < b.size.Files; file++ {
			bp, ok := b.pieces[P(file, r)]
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(bp.Piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	f := FEN{
		Placement: sb.String(),
		Turn:      b.turn,
		Halfmove:  b.halfmove,
		Fullmove:  b.fullmove,
	}
	for _, c := range Colors {
		k, ok := b.King(c)
		if !ok || k.HasMoved {
			continue
		}
		for _, p := range b.PiecesOf(c) {
			if p.Type() == Rook && !p.HasMoved && p.Pos.Rank == k.Pos.Rank {
				f.Castling[c] = append(f.Castling[c], p.Pos.File)
			}
		}
	}
	for pos := range b.flags {
		if b.flags.active(pos, EnPassant) {
			ep := pos
			f.EnPassant = &ep
			break
		}
	}
	return f
}

// RandomChess960FEN draws one of the 960 start positions: bishops on
// opposite colors, the king between the rooks.
func RandomChess960FEN(r *rand.Rand) FEN {
	var back [8]rune
	free := func() []int {
		var out []int
		for i, ch := range back {
			if ch == 0 {
				out = append(out, i)
			}
		}
		return out
	}
	back[2*r.Intn(4)] = 'b'
	back[2*r.Intn(4)+1] = 'b'
	place := func(ch rune) {
		sq := free()
		back[sq[r.Intn(len(sq))]] = ch
	}
	place('q')
	place('n')
	place('n')
	rest := free()
	back[rest[0]], back[rest[1]], back[rest[2]] = 'r', 'k', 'r'

	black := string(back[:])
	white := strings.ToUpper(black)
	return FEN{
		Placement: black + "/pppppppp/8/8/8/8/PPPPPPPP/" + white,
		Turn:      White,
		Castling:  ByColor[[]int]{{rest[0], rest[2]}, {rest[0], rest[2]}},
		Fullmove:  1,
	}
}
