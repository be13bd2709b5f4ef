package match

import (
	"fmt"

	"gambit/event"
	"gambit/registry"
)

// ComponentType identifies a kind of component. A match holds at most one
// component per type.
type ComponentType struct {
	registry.Handle
}

func NewComponentType() *ComponentType {
	return &ComponentType{}
}

func (t *ComponentType) String() string {
	if t.Bound() {
		return t.Key().String()
	}
	return "component type"
}

// Matches makes a type its own Identifier.
func (t *ComponentType) Matches(other *ComponentType) bool {
	return t == other
}

// Component is a pluggable part of a match. Handlers is called once, when
// the match is built.
type Component interface {
	Type() *ComponentType
	Handlers() []event.Binding[*Match]
}

// Identifier selects component types. A single type matches itself; AnyOf
// matches a set.
type Identifier interface {
	Matches(t *ComponentType) bool
}

type anyOf []*ComponentType

func (a anyOf) Matches(t *ComponentType) bool {
	for _, x := range a {
		if x == t {
			return true
		}
	}
	return false
}

func AnyOf(types ...*ComponentType) Identifier {
	return anyOf(types)
}

// Components is the fixed set of components of one match, in the order they
// were given.
type Components struct {
	list   []Component
	byType map[*ComponentType]Component
}

func NewComponents(cs ...Component) (*Components, error) {
	l := &Components{byType: make(map[*ComponentType]Component, len(cs))}
	for _, c := range cs {
		t := c.Type()
		if _, ok := l.byType[t]; ok {
			return nil, fmt.Errorf("%w: %v", ErrComponentCollision, t)
		}
		l.byType[t] = c
		l.list = append(l.list, c)
	}
	return l, nil
}

func (l *Components) Get(t *ComponentType) (Component, bool) {
	c, ok := l.byType[t]
	return c, ok
}

// Find returns the present components the identifier selects.
func (l *Components) Find(id Identifier) []Component {
	var out []Component
	for _, c := range l.list {
		if id.Matches(c.Type()) {
			out = append(out, c)
		}
	}
	return out
}

func (l *Components) All() []Component {
	return append([]Component(nil), l.list...)
}

func (l *Components) Len() int {
	return len(l.list)
}

// Get returns the match's component of type t as a T.
func Get[T Component](m *Match, t *ComponentType) (T, bool) {
	c, ok := m.components.Get(t)
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}

// Require is Get failing with a *ComponentNotFoundError.
func Require[T Component](m *Match, t *ComponentType) (T, error) {
	v, ok := Get[T](m, t)
	if !ok {
		return v, &ComponentNotFoundError{Type: t.String()}
	}
	return v, nil
}
