// Package event is a typed event bus. Components hand the dispatcher a
// table of bindings; firing an event runs the bound handlers in order tiers.
package event

import (
	"errors"
	"fmt"
)

// Order places a handler relative to its peers for the same event type.
type Order int8

const (
	Before Order = iota - 1
	Unconstrained
	After
)

func (o Order) String() string {
	switch o {
	case Before:
		return "before"
	case Unconstrained:
		return "unconstrained"
	case After:
		return "after"
	}
	return fmt.Sprintf("Order(%d)", int8(o))
}

var tiers = [...]Order{Before, Unconstrained, After}

// Type identifies events carrying a payload of type E. Types compare by
// identity, so two NewType calls with the same name are different types.
type Type[E any] struct {
	name string
}

func NewType[E any](name string) *Type[E] {
	return &Type[E]{name: name}
}

func (t *Type[E]) String() string {
	return t.name
}

// Binding connects one handler to one event type. C is the context every
// handler receives, usually the match firing the event.
type Binding[C any] struct {
	typ    any
	order  Order
	handle func(c C, e any) error
}

// On binds h to events of type t.
func On[C, E any](t *Type[E], h func(c C, e E) error) Binding[C] {
	return Binding[C]{
		typ: t,
		handle: func(c C, e any) error {
			v, _ := e.(E)
			return h(c, v)
		},
	}
}

// Before returns b running ahead of unconstrained handlers.
func (b Binding[C]) Before() Binding[C] {
	b.order = Before
	return b
}

// After returns b running after unconstrained handlers.
func (b Binding[C]) After() Binding[C] {
	b.order = After
	return b
}

func (b Binding[C]) Order() Order {
	return b.order
}

// Source is anything that contributes bindings, typically a component.
type Source[C any] interface {
	Handlers() []Binding[C]
}

type handler[C any] struct {
	owner  string
	handle func(c C, e any) error
}

// Dispatcher holds bindings grouped by event type and order tier. It is built
// once and not safe for concurrent Add and Fire.
type Dispatcher[C any] struct {
	table map[any]*[3][]handler[C]
}

func NewDispatcher[C any]() *Dispatcher[C] {
	return &Dispatcher[C]{table: make(map[any]*[3][]handler[C])}
}

// Add appends the bindings of one owner. Registration order is kept within a tier.
func (d *Dispatcher[C]) Add(owner string, bindings ...Binding[C]) {
	for _, b := range bindings {
		row, ok := d.table[b.typ]
		if !ok {
			row = new([3][]handler[C])
			d.table[b.typ] = row
		}
		i := int(b.order) + 1
		row[i] = append(row[i], handler[C]{owner: owner, handle: b.handle})
	}
}

// Count reports how many handlers are bound to t.
func Count[C, E any](d *Dispatcher[C], t *Type[E]) int {
	row, ok := d.table[t]
	if !ok {
		return 0
	}
	return len(row[0]) + len(row[1]) + len(row[2])
}

// Fire runs the handlers bound to t, tier by tier. Every handler of a tier
// runs even if one fails; the tier's errors are joined and returned, and the
// tiers after it are skipped.
func Fire[C, E any](d *Dispatcher[C], c C, t *Type[E], e E) error {
	row, ok := d.table[t]
	if !ok {
		return nil
	}
	for i, order := range tiers {
		var errs []error
		for _, h := range row[i] {
			if err := h.handle(c, e); err != nil {
				errs = append(errs, &HandlerError{Event: t.String(), Owner: h.owner, Order: order, Err: err})
			}
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}
	}
	return nil
}

// HandlerError wraps a handler failure with where it happened.
type HandlerError struct {
	Event string
	Owner string
	Order Order
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler of %s: %v", e.Event, e.Owner, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
