package match

import (
	"fmt"

	"gambit/event"
	"gambit/game"
)

type LifecycleKind int8

const (
	Start LifecycleKind = iota
	Sync
	Running
	Update
	Stop
	Panic
	Clear
)

func (k LifecycleKind) String() string {
	switch k {
	case Start:
		return "start"
	case Sync:
		return "sync"
	case Running:
		return "running"
	case Update:
		return "update"
	case Stop:
		return "stop"
	case Panic:
		return "panic"
	case Clear:
		return "clear"
	}
	return fmt.Sprintf("LifecycleKind(%d)", int8(k))
}

type TurnKind int8

const (
	TurnStart TurnKind = iota
	TurnEnd
	TurnUndo
)

func (k TurnKind) String() string {
	switch k {
	case TurnStart:
		return "start"
	case TurnEnd:
		return "end"
	case TurnUndo:
		return "undo"
	}
	return fmt.Sprintf("TurnKind(%d)", int8(k))
}

// Turn reports a turn boundary. For TurnEnd Color is the side that just
// moved, for TurnUndo the side whose move was taken back, for TurnStart the
// side to move.
type Turn struct {
	Kind  TurnKind
	Color game.Color
}

type RequestKind int8

const (
	DrawOffer RequestKind = iota
	Takeback
)

func (k RequestKind) String() string {
	switch k {
	case DrawOffer:
		return "draw offer"
	case Takeback:
		return "takeback"
	}
	return fmt.Sprintf("RequestKind(%d)", int8(k))
}

type RequestOutcome int8

const (
	Pending RequestOutcome = iota
	Accepted
	Cancelled
	Rejected
)

func (o RequestOutcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("RequestOutcome(%d)", int8(o))
}

// Request is a human request. The handler that decides it sets Outcome.
type Request struct {
	Kind    RequestKind
	From    game.Color
	Outcome RequestOutcome
}

// Properties collects display values from components, in insertion order.
type Properties struct {
	names  []string
	values map[string]string
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

func (p *Properties) Set(name, value string) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

func (p *Properties) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p *Properties) Names() []string {
	return append([]string(nil), p.names...)
}

var (
	LifecycleEvent   = event.NewType[LifecycleKind]("lifecycle")
	TurnEvent        = event.NewType[Turn]("turn")
	PiecesMovedEvent = event.NewType[game.PiecesMoved]("pieces_moved")
	RequestEvent     = event.NewType[*Request]("request")
	PropertiesEvent  = event.NewType[*Properties]("add_properties")
)

// OnLifecycle binds h to one lifecycle kind only.
func OnLifecycle(kind LifecycleKind, h func(m *Match) error) event.Binding[*Match] {
	return event.On(LifecycleEvent, func(m *Match, k LifecycleKind) error {
		if k != kind {
			return nil
		}
		return h(m)
	})
}

// OnTurn binds h to one turn kind only.
func OnTurn(kind TurnKind, h func(m *Match, c game.Color) error) event.Binding[*Match] {
	return event.On(TurnEvent, func(m *Match, t Turn) error {
		if t.Kind != kind {
			return nil
		}
		return h(m, t.Color)
	})
}
