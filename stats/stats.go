// Package stats computes per-player results of finished matches and hands
// them to sinks.
package stats

import (
	"errors"
	"fmt"
	"sync"

	"gambit/event"
	"gambit/game"
	"gambit/match"
	"gambit/registry"
)

type Unit int8

const (
	Count Unit = iota
	Nanoseconds
)

// Stat is one registered statistic. Values are summed.
type Stat struct {
	registry.Handle
	Unit Unit
}

func NewStat(u Unit) *Stat {
	return &Stat{Unit: u}
}

func (s *Stat) String() string {
	if s.Bound() {
		return s.Key().String()
	}
	return "stat"
}

var (
	Wins        = NewStat(Count)
	Losses      = NewStat(Count)
	Draws       = NewStat(Count)
	MovesPlayed = NewStat(Count)
	TimePlayed  = NewStat(Nanoseconds)
	MoveTime    = NewStat(Nanoseconds)
)

func Stats(c *registry.Catalog) *registry.Registry[*Stat] {
	return registry.Kind[*Stat](c, "stat")
}

func Register(m *registry.Module) error {
	c := m.Catalog()
	if err := Stats(c).RegisterAll(m,
		registry.E("wins", Wins),
		registry.E("losses", Losses),
		registry.E("draws", Draws),
		registry.E("moves_played", MovesPlayed),
		registry.E("time_played", TimePlayed),
		registry.E("move_time", MoveTime),
	); err != nil {
		return err
	}
	return match.ComponentTypes(c).Register(m, "collector", CollectorType)
}

// Sink receives one player's stats. Adds are staged until Commit.
type Sink interface {
	Add(stat *Stat, values ...int64)
	Commit() error
}

// Void drops everything.
type Void struct{}

func (Void) Add(*Stat, ...int64) {}
func (Void) Commit() error       { return nil }

type tee []Sink

func (t tee) Add(stat *Stat, values ...int64) {
	for _, s := range t {
		s.Add(stat, values...)
	}
}

func (t tee) Commit() error {
	var errs []error
	for _, s := range t {
		if err := s.Commit(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tee fans every add and commit out to all sinks.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

// AddStatsEvent lets components add their own stats before the commit.
var AddStatsEvent = event.NewType[game.ByColor[Sink]]("add_stats")

// AddStats adds the results of a finished match to each color's sink, fires
// AddStatsEvent, then commits every sink.
func AddStats(m *match.Match, sinks game.ByColor[Sink]) error {
	r := m.Results()
	if r == nil {
		return fmt.Errorf("%w: no results yet", match.ErrInvalidState)
	}
	if winner, ok := r.Score.Winner(); ok {
		sinks[winner].Add(Wins, 1)
		sinks[winner.Other()].Add(Losses, 1)
	} else {
		for _, s := range sinks {
			s.Add(Draws, 1)
		}
	}

	var moves game.ByColor[int64]
	for _, mv := range m.Board().History() {
		moves[mv.Color()]++
	}
	for _, c := range game.Colors {
		sinks[c].Add(MovesPlayed, moves[c])
		sinks[c].Add(TimePlayed, int64(m.Duration()))
	}

	fireErr := match.Fire(m, AddStatsEvent, sinks)
	var errs []error
	if fireErr != nil {
		errs = append(errs, fireErr)
	}
	for _, s := range sinks {
		if err := s.Commit(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps committed totals in memory.
type Memory struct {
	mu        sync.Mutex
	pending   map[*Stat]int64
	committed map[*Stat]int64
}

func NewMemory() *Memory {
	return &Memory{pending: make(map[*Stat]int64), committed: make(map[*Stat]int64)}
}

func (s *Memory) Add(stat *Stat, values ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.pending[stat] += v
	}
}

func (s *Memory) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.pending {
		s.committed[k] += v
	}
	clear(s.pending)
	return nil
}

// Get returns the committed total of stat.
func (s *Memory) Get(stat *Stat) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed[stat]
}
