// Package match drives one chess game through its lifecycle: it owns the
// board and a fixed set of components, and tells them what happens through
// typed events.
package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gambit/event"
	"gambit/game"
	"gambit/registry"
)

type State int8

const (
	StateInitial State = iota
	StateRunning
	StateStopped
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "errored"
	}
	return fmt.Sprintf("State(%d)", int8(s))
}

// Terminal reports whether no further mutation is accepted.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateErrored
}

// Match is not safe for concurrent use. One goroutine drives it; see gamemaster.
type Match struct {
	id         uuid.UUID
	catalog    *registry.Catalog
	board      *game.Board
	components *Components
	events     *event.Dispatcher[*Match]

	state     State
	results   *game.Results
	plies     int
	startTime time.Time
	endTime   time.Time

	now func() time.Time
	log zerolog.Logger
}

type Option func(*Match)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Match) {
		m.log = l
	}
}

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(m *Match) {
		m.now = now
	}
}

func WithID(id uuid.UUID) Option {
	return func(m *Match) {
		m.id = id
	}
}

// New builds a match on b. A board component is always present and runs
// ahead of cs. Every component type must be registered in c, and the
// variant's required components must be among cs.
func New(c *registry.Catalog, b *game.Board, cs []Component, opts ...Option) (*Match, error) {
	m := &Match{
		id:      uuid.New(),
		catalog: c,
		board:   b,
		events:  event.NewDispatcher[*Match](),
		now:     time.Now,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("match", m.id.String()).Logger()

	all := append([]Component{&Chessboard{}}, cs...)
	list, err := NewComponents(all...)
	if err != nil {
		return nil, err
	}
	types := ComponentTypes(c)
	for _, comp := range all {
		if !types.Contains(comp.Type()) {
			return nil, fmt.Errorf("%w: %T", ErrComponentUnregistered, comp)
		}
	}
	for _, k := range b.Variant().RequiredComponents() {
		t, err := types.Get(k)
		if err != nil {
			return nil, fmt.Errorf("variant %v: %w", b.Variant().Key(), err)
		}
		if _, ok := list.Get(t); !ok {
			return nil, &ComponentNotFoundError{Type: k.String()}
		}
	}
	m.components = list
	for _, comp := range all {
		m.events.Add(comp.Type().String(), comp.Handlers()...)
	}
	return m, nil
}

func (m *Match) ID() uuid.UUID              { return m.id }
func (m *Match) Catalog() *registry.Catalog { return m.catalog }
func (m *Match) Board() *game.Board         { return m.board }
func (m *Match) Components() *Components    { return m.components }
func (m *Match) State() State               { return m.state }
func (m *Match) Running() bool              { return m.state == StateRunning }
func (m *Match) StartTime() time.Time       { return m.startTime }
func (m *Match) EndTime() time.Time         { return m.endTime }
func (m *Match) Now() time.Time             { return m.now() }
func (m *Match) Logger() *zerolog.Logger    { return &m.log }

// Plies counts board changes: every applied or undone move bumps it. Work
// started for one ply is stale once the count has moved on.
func (m *Match) Plies() int {
	return m.plies
}

// Results is nil until the match is stopped or errored.
func (m *Match) Results() *game.Results {
	return m.results
}

// Duration is how long the match has been running, or ran.
func (m *Match) Duration() time.Duration {
	switch {
	case m.startTime.IsZero():
		return 0
	case m.endTime.IsZero():
		return m.now().Sub(m.startTime)
	}
	return m.endTime.Sub(m.startTime)
}

// Fire dispatches e to the match's handlers. Packages with their own event
// types fire them through here.
func Fire[E any](m *Match, t *event.Type[E], e E) error {
	return event.Fire(m.events, m, t, e)
}

func (m *Match) requireRunning() error {
	switch m.state {
	case StateRunning:
		return nil
	case StateInitial:
		return fmt.Errorf("%w: match not started", ErrInvalidState)
	}
	return fmt.Errorf("%w: %v", ErrMatchTerminated, m.state)
}

// lifecycle fires a lifecycle event; a handler failure errors the match.
func (m *Match) lifecycle(k LifecycleKind) error {
	if err := Fire(m, LifecycleEvent, k); err != nil {
		return m.fail(fmt.Errorf("%v: %w", k, err))
	}
	return nil
}

func (m *Match) turn(k TurnKind, c game.Color) error {
	if err := Fire(m, TurnEvent, Turn{Kind: k, Color: c}); err != nil {
		return m.fail(fmt.Errorf("turn %v: %w", k, err))
	}
	return nil
}

func (m *Match) piecesMoved(moved game.PiecesMoved) error {
	if err := Fire(m, PiecesMovedEvent, moved); err != nil {
		return m.fail(fmt.Errorf("pieces moved: %w", err))
	}
	return nil
}

// Start moves an initial match to running and starts the first turn.
func (m *Match) Start() error {
	if m.state != StateInitial {
		return fmt.Errorf("%w: start in state %v", ErrInvalidState, m.state)
	}
	m.log.Info().Stringer("variant", m.board.Variant().Key()).Str("fen", m.board.FEN().String()).Msg("match starting")
	if err := m.lifecycle(Start); err != nil {
		return err
	}
	m.state = StateRunning
	m.startTime = m.now()
	if err := m.lifecycle(Running); err != nil {
		return err
	}
	return m.turn(TurnStart, m.board.Turn())
}

// Sync asks components to resend their state to observers.
func (m *Match) Sync() error {
	if m.state.Terminal() {
		return fmt.Errorf("%w: %v", ErrMatchTerminated, m.state)
	}
	return m.lifecycle(Sync)
}

// Update is the periodic tick, used by the clock.
func (m *Match) Update() error {
	if err := m.requireRunning(); err != nil {
		return err
	}
	return m.lifecycle(Update)
}

// FinishMove applies a move for the side to move, then ends the match if
// the variant says so, or hands the turn over. A move the board rejects
// leaves match and board untouched.
func (m *Match) FinishMove(mv *game.Move) error {
	if err := m.requireRunning(); err != nil {
		return err
	}
	if !m.board.IsLegal(mv) {
		return fmt.Errorf("%w: %v", game.ErrIllegalMove, mv)
	}
	moved, err := m.board.ApplyMove(mv)
	if err != nil {
		return err
	}
	m.plies++
	m.log.Debug().Stringer("color", mv.Color()).Str("move", game.SAN(mv)).Msg("move")
	if err := m.piecesMoved(moved); err != nil {
		return err
	}

	if r := m.board.Variant().CheckForEnd(m.board); r != nil {
		return m.Stop(*r)
	}
	if err := m.turn(TurnEnd, mv.Color()); err != nil {
		return err
	}
	if m.state != StateRunning {
		return nil
	}
	return m.turn(TurnStart, m.board.Turn())
}

// Undo takes back the last move and restarts that side's turn.
func (m *Match) Undo() error {
	if err := m.requireRunning(); err != nil {
		return err
	}
	moved, err := m.board.UndoLastMove()
	if err != nil {
		return err
	}
	m.plies++
	m.log.Debug().Stringer("color", m.board.Turn()).Msg("move undone")
	if err := m.piecesMoved(moved); err != nil {
		return err
	}
	if err := m.turn(TurnUndo, m.board.Turn()); err != nil {
		return err
	}
	return m.turn(TurnStart, m.board.Turn())
}

// Stop ends a running match with r, then clears it.
func (m *Match) Stop(r game.Results) error {
	if err := m.requireRunning(); err != nil {
		return err
	}
	m.state = StateStopped
	m.results = &r
	m.endTime = m.now()
	m.log.Info().Stringer("results", r).Int("plies", len(m.board.History())).Msg("match stopped")
	if err := m.lifecycle(Stop); err != nil {
		return err
	}
	return m.lifecycle(Clear)
}

// Resign stops the match with c losing.
func (m *Match) Resign(c game.Color) error {
	return m.Stop(game.LostBy(c, game.Resignation))
}

// Fail moves the match to the errored state with an error result, and
// returns err. Collaborators call it when they cannot continue, for example
// on an engine protocol error.
func (m *Match) Fail(err error) error {
	if m.state.Terminal() {
		return fmt.Errorf("%w: %v", ErrMatchTerminated, m.state)
	}
	return m.fail(err)
}

func (m *Match) fail(err error) error {
	if m.state == StateErrored {
		return err
	}
	m.state = StateErrored
	r := game.DrawBy(game.Error, err.Error())
	m.results = &r
	m.endTime = m.now()
	m.log.Error().Err(err).Msg("match errored")
	if perr := Fire(m, LifecycleEvent, Panic); perr != nil {
		m.log.Warn().Err(perr).Msg("panic handlers failed")
	}
	return err
}

// Offer fires a human request and reports what became of it.
func (m *Match) Offer(kind RequestKind, from game.Color) (RequestOutcome, error) {
	if err := m.requireRunning(); err != nil {
		return Rejected, err
	}
	r := &Request{Kind: kind, From: from, Outcome: Rejected}
	if err := Fire(m, RequestEvent, r); err != nil {
		return r.Outcome, err
	}
	return r.Outcome, nil
}

// Properties collects the display values every component contributes.
func (m *Match) Properties() (*Properties, error) {
	p := NewProperties()
	if err := Fire(m, PropertiesEvent, p); err != nil {
		return p, err
	}
	return p, nil
}
