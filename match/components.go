package match

import (
	"strconv"

	"gambit/event"
	"gambit/game"
)

var (
	ChessboardType   = NewComponentType()
	RequestsType     = NewComponentType()
	CheckCounterType = NewComponentType()
)

// Chessboard exposes the match's board to the event system. Every match has one.
type Chessboard struct{}

func (*Chessboard) Type() *ComponentType { return ChessboardType }

func (c *Chessboard) Handlers() []event.Binding[*Match] {
	return []event.Binding[*Match]{
		OnLifecycle(Sync, func(m *Match) error {
			return Fire(m, PiecesMovedEvent, m.Board().Spawned())
		}).Before(),
		event.On(PropertiesEvent, func(m *Match, p *Properties) error {
			b := m.Board()
			p.Set("turn", b.Turn().String())
			p.Set("fullmove", strconv.Itoa(b.Fullmove()))
			p.Set("halfmove", strconv.Itoa(b.Halfmove()))
			return nil
		}).Before(),
	}
}

// Requests decides draw offers and takebacks: a request from one side is
// held until the other side makes the same request. Asking twice withdraws
// it, and a move cancels everything pending.
type Requests struct {
	pending map[RequestKind]game.Color
}

func NewRequests() *Requests {
	return &Requests{pending: make(map[RequestKind]game.Color)}
}

func (*Requests) Type() *ComponentType { return RequestsType }

// Pending reports who made the open request of kind k.
func (r *Requests) Pending(k RequestKind) (game.Color, bool) {
	c, ok := r.pending[k]
	return c, ok
}

func (r *Requests) Handlers() []event.Binding[*Match] {
	reset := func(m *Match, _ game.Color) error {
		clear(r.pending)
		return nil
	}
	return []event.Binding[*Match]{
		event.On(RequestEvent, r.handle),
		OnTurn(TurnEnd, reset),
		OnTurn(TurnUndo, reset),
	}
}

func (r *Requests) handle(m *Match, req *Request) error {
	if req.Kind == Takeback && !m.Board().CanUndo() {
		req.Outcome = Rejected
		return nil
	}
	from, ok := r.pending[req.Kind]
	switch {
	case !ok:
		r.pending[req.Kind] = req.From
		req.Outcome = Pending
		return nil
	case from == req.From:
		delete(r.pending, req.Kind)
		req.Outcome = Cancelled
		return nil
	}

	delete(r.pending, req.Kind)
	req.Outcome = Accepted
	m.Logger().Info().Stringer("request", req.Kind).Msg("request accepted")
	switch req.Kind {
	case DrawOffer:
		return m.Stop(game.DrawBy(game.DrawAgreement))
	case Takeback:
		return m.Undo()
	}
	return nil
}

// CheckCounter shows how many times each side has been checked.
type CheckCounter struct{}

func (*CheckCounter) Type() *ComponentType { return CheckCounterType }

func (*CheckCounter) Handlers() []event.Binding[*Match] {
	return []event.Binding[*Match]{
		event.On(PropertiesEvent, func(m *Match, p *Properties) error {
			checks := game.Checks(m.Board())
			for _, c := range game.Colors {
				p.Set(c.String()+"_checked", strconv.Itoa(checks[c]))
			}
			return nil
		}),
	}
}
