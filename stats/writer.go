package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gambit/match"
)

type MatchRecord struct {
	ID        string
	Variant   string
	White     string
	Black     string
	Result    string
	Reason    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Plies     int
}

// RecordOf summarizes a finished match.
func RecordOf(m *match.Match, white, black string) MatchRecord {
	rec := MatchRecord{
		ID:        m.ID().String(),
		Variant:   m.Board().Variant().Key().String(),
		White:     white,
		Black:     black,
		StartTime: m.StartTime(),
		EndTime:   m.EndTime(),
		Duration:  m.Duration(),
		Plies:     len(m.Board().History()),
	}
	if r := m.Results(); r != nil {
		rec.Result = r.Score.PGN()
		rec.Reason = r.Reason.String()
	}
	return rec
}

type StatRecord struct {
	Match  string
	Player string
	Stat   string
	Value  int64
}

// Writer collects match and stat records and writes them as csv files
// under a timestamped directory.
type Writer struct {
	baseDir string

	mu      sync.Mutex
	matches []MatchRecord
	stats   []StatRecord
}

func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) AddMatch(rec MatchRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.matches = append(w.matches, rec)
}

// Sink returns a sink whose commits become stat records of one player in one match.
func (w *Writer) Sink(matchID, player string) Sink {
	return &csvSink{w: w, match: matchID, player: player, pending: make(map[*Stat]int64)}
}

type csvSink struct {
	w       *Writer
	match   string
	player  string
	order   []*Stat
	pending map[*Stat]int64
}

func (s *csvSink) Add(stat *Stat, values ...int64) {
	if _, ok := s.pending[stat]; !ok {
		s.order = append(s.order, stat)
	}
	for _, v := range values {
		s.pending[stat] += v
	}
}

func (s *csvSink) Commit() error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, st := range s.order {
		s.w.stats = append(s.w.stats, StatRecord{Match: s.match, Player: s.player, Stat: st.String(), Value: s.pending[st]})
	}
	s.order = nil
	clear(s.pending)
	return nil
}

// Flush writes everything collected so far, replacing earlier files.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	header := []string{"id", "variant", "white", "black", "result", "reason", "start_time", "end_time", "duration", "plies"}
	rows := make([][]string, 0, len(w.matches))
	for _, r := range w.matches {
		rows = append(rows, []string{
			r.ID,
			r.Variant,
			r.White,
			r.Black,
			r.Result,
			r.Reason,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.Plies),
		})
	}
	if err := w.write("match_records.csv", header, rows); err != nil {
		return err
	}

	header = []string{"match", "player", "stat", "value"}
	rows = rows[:0]
	for _, r := range w.stats {
		rows = append(rows, []string{r.Match, r.Player, r.Stat, strconv.FormatInt(r.Value, 10)})
	}
	return w.write("stat_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
