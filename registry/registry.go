package registry

import (
	"fmt"
)

// Validator checks one entry of the module being validated.
type Validator[T comparable] func(k Key, v T) error

// Registry maps keys to values of one kind, with a reverse view.
type Registry[T comparable] struct {
	name       string
	catalog    *Catalog
	entries    map[Key]T
	reverse    map[T]Key
	byModule   map[string][]Key
	bound      map[Key]bool
	validators []Validator[T]
}

func newRegistry[T comparable](c *Catalog, name string) *Registry[T] {
	return &Registry[T]{
		name:     name,
		catalog:  c,
		entries:  make(map[Key]T),
		reverse:  make(map[T]Key),
		byModule: make(map[string][]Key),
		bound:    make(map[Key]bool),
	}
}

func (r *Registry[T]) Name() string {
	return r.name
}

// AddValidator adds a check run on every entry of a module during its
// validate phase.
func (r *Registry[T]) AddValidator(v Validator[T]) {
	r.validators = append(r.validators, v)
}

// Register binds name inside m to v. Only allowed while m is loading.
func (r *Registry[T]) Register(m *Module, name string, v T) error {
	if m.phase != Loading {
		return fmt.Errorf("%w: %s is %s, cannot register %s %s", ErrModuleLocked, m.namespace, m.phase, r.name, name)
	}
	if m.catalog != r.catalog {
		return fmt.Errorf("%w: module %s belongs to another catalog", ErrModuleLocked, m.namespace)
	}
	if err := validName(name); err != nil {
		return err
	}
	k := m.Key(name)
	if _, ok := r.entries[k]; ok {
		return fmt.Errorf("%w: %s %s", ErrDuplicateKey, r.name, k)
	}
	if prev, ok := r.reverse[v]; ok {
		return fmt.Errorf("%w: %s %s is already %s", ErrValueRegistered, r.name, k, prev)
	}
	if b, ok := any(v).(Binder); ok {
		fresh := !b.Bound()
		if err := b.Bind(k); err != nil {
			return fmt.Errorf("%s %s: %w", r.name, k, err)
		}
		r.bound[k] = fresh
	}
	r.entries[k] = v
	r.reverse[v] = k
	r.byModule[k.Module] = append(r.byModule[k.Module], k)
	return nil
}

// MustRegister is Register for builtin tables, where failure is a bug.
func (r *Registry[T]) MustRegister(m *Module, name string, v T) {
	if err := r.Register(m, name, v); err != nil {
		panic(err)
	}
}

func (r *Registry[T]) Get(k Key) (T, error) {
	v, ok := r.entries[k]
	if !ok {
		return v, fmt.Errorf("%w: %s %s", ErrKeyNotFound, r.name, k)
	}
	return v, nil
}

// Lookup is the non-failing form of Get.
func (r *Registry[T]) Lookup(k Key) (T, bool) {
	v, ok := r.entries[k]
	return v, ok
}

// Resolve parses s as a key and looks it up.
func (r *Registry[T]) Resolve(s string) (T, error) {
	k, err := ParseKey(s)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Get(k)
}

// KeyOf is the reverse lookup. Values embedding Handle answer from their own
// back-reference.
func (r *Registry[T]) KeyOf(v T) (Key, bool) {
	if b, ok := any(v).(Binder); ok && b.Bound() {
		k := b.Key()
		if cur, ok := r.entries[k]; ok && cur == v {
			return k, true
		}
	}
	k, ok := r.reverse[v]
	return k, ok
}

func (r *Registry[T]) Contains(v T) bool {
	_, ok := r.KeyOf(v)
	return ok
}

// Keys lists a module's keys in registration order.
func (r *Registry[T]) Keys(module string) []Key {
	return append([]Key(nil), r.byModule[module]...)
}

// Values lists a module's values in registration order.
func (r *Registry[T]) Values(module string) []T {
	keys := r.byModule[module]
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.entries[k])
	}
	return out
}

func (r *Registry[T]) Len() int {
	return len(r.entries)
}

func (r *Registry[T]) validate(m *Module) error {
	for _, k := range r.byModule[m.namespace] {
		for _, check := range r.validators {
			if err := check(k, r.entries[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	}
	return nil
}

// drop forgets everything m registered here, for a module that failed.
func (r *Registry[T]) drop(m *Module) {
	for _, k := range r.byModule[m.namespace] {
		v := r.entries[k]
		if r.bound[k] {
			if u, ok := any(v).(unbinder); ok {
				u.unbind()
			}
		}
		delete(r.bound, k)
		delete(r.reverse, v)
		delete(r.entries, k)
	}
	delete(r.byModule, m.namespace)
}

// Entry is one (name, value) pair of a module's registration list.
type Entry[T comparable] struct {
	Name  string
	Value T
}

func E[T comparable](name string, v T) Entry[T] {
	return Entry[T]{Name: name, Value: v}
}

// RegisterAll registers entries in order and stops at the first failure.
func (r *Registry[T]) RegisterAll(m *Module, entries ...Entry[T]) error {
	for _, e := range entries {
		if err := r.Register(m, e.Name, e.Value); err != nil {
			return err
		}
	}
	return nil
}
