// Package registry holds namespaced, load-once tables of extensible values
// (piece types, variants, end reasons, component types, ...).
//
// A Catalog is the handle everything is registered through. Each module is
// loaded exactly once: its load function registers values, every registry
// then validates the module's entries, and the module is locked for good.
// After loading, registries are only read and need no locking.
package registry

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

type Phase int

const (
	Loading Phase = iota
	Validating
	Finished
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Validating:
		return "validating"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Module is one namespace of registrations.
type Module struct {
	namespace string
	phase     Phase
	catalog   *Catalog
}

func (m *Module) Namespace() string {
	return m.namespace
}

func (m *Module) Phase() Phase {
	return m.phase
}

func (m *Module) Catalog() *Catalog {
	return m.catalog
}

func (m *Module) String() string {
	return m.namespace
}

// Key builds a key inside this module.
func (m *Module) Key(name string) Key {
	return Key{Module: m.namespace, Name: name}
}

type kind interface {
	Name() string
	validate(m *Module) error
	drop(m *Module)
}

type Catalog struct {
	mu      sync.Mutex
	modules map[string]*Module
	order   []*Module
	kinds   map[string]kind
	kindSeq []kind
}

func NewCatalog() *Catalog {
	return &Catalog{
		modules: make(map[string]*Module),
		kinds:   make(map[string]kind),
	}
}

// Load runs load for a new module, then validates it and locks it.
// A module whose load or validation fails is locked in the Failed phase.
func (c *Catalog) Load(namespace string, load func(m *Module) error) (*Module, error) {
	if err := validName(namespace); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.modules[namespace]; ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrModuleLoaded, namespace)
	}
	m := &Module{namespace: namespace, phase: Loading, catalog: c}
	c.modules[namespace] = m
	c.order = append(c.order, m)
	c.mu.Unlock()

	if err := load(m); err != nil {
		c.fail(m)
		return m, fmt.Errorf("load module %s: %w", namespace, err)
	}

	m.phase = Validating
	for _, k := range c.kindsSnapshot() {
		if err := k.validate(m); err != nil {
			c.fail(m)
			return m, fmt.Errorf("%w: module %s, %s: %w", ErrValidation, namespace, k.Name(), err)
		}
	}
	m.phase = Finished

	log.Debug().Str("module", namespace).Msg("module loaded")
	return m, nil
}

// fail locks m as Failed and removes its registrations, so nothing that
// did not validate can be looked up.
func (c *Catalog) fail(m *Module) {
	m.phase = Failed
	for _, k := range c.kindsSnapshot() {
		k.drop(m)
	}
	log.Debug().Str("module", m.namespace).Msg("module failed")
}

// Module returns a module that Load has seen, whatever its phase.
func (c *Catalog) Module(namespace string) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[namespace]
	return m, ok
}

// Modules returns modules in load order.
func (c *Catalog) Modules() []*Module {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Module(nil), c.order...)
}

func (c *Catalog) kindsSnapshot() []kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]kind(nil), c.kindSeq...)
}

// Kind returns the registry called name, creating it on first use. Asking for
// an existing name with a different element type is a programming error and panics.
func Kind[T comparable](c *Catalog, name string) *Registry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.kinds[name]; ok {
		r, ok := k.(*Registry[T])
		if !ok {
			panic(fmt.Sprintf("registry %s already exists with element type %T", name, k))
		}
		return r
	}
	r := newRegistry[T](c, name)
	c.kinds[name] = r
	c.kindSeq = append(c.kindSeq, r)
	return r
}
