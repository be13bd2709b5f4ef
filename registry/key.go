package registry

import "strings"

// DefaultNamespace is the namespace bare key strings resolve to.
const DefaultNamespace = "chess"

// Key names a registered value: the module namespace plus the name inside it.
type Key struct {
	Module string
	Name   string
}

func NewKey(module, name string) Key {
	return Key{Module: module, Name: name}
}

func (k Key) String() string {
	return k.Module + ":" + k.Name
}

// ParseKey accepts "namespace:name" or a bare "name" in the default namespace.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Key{}, &KeyFormatError{Raw: s, Reason: "empty name"}
		}
		return Key{Module: DefaultNamespace, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" {
			return Key{}, &KeyFormatError{Raw: s, Reason: "empty namespace"}
		}
		if parts[1] == "" {
			return Key{}, &KeyFormatError{Raw: s, Reason: "empty name"}
		}
		return Key{Module: parts[0], Name: parts[1]}, nil
	default:
		return Key{}, &KeyFormatError{Raw: s, Reason: "more than one ':'"}
	}
}

func validName(name string) error {
	if name == "" {
		return &KeyFormatError{Raw: name, Reason: "empty name"}
	}
	if strings.Contains(name, ":") {
		return &KeyFormatError{Raw: name, Reason: "name contains ':'"}
	}
	return nil
}

// Keyed is implemented by values that know their own registry key.
type Keyed interface {
	Key() Key
}

// Binder is implemented by values that store a back-reference to their key.
// Embedding Handle provides it.
type Binder interface {
	Keyed
	Bind(k Key) error
	Bound() bool
}

// Handle is embedded by name-registered values. Registration fills it once.
type Handle struct {
	key   Key
	bound bool
}

func (h *Handle) Key() Key {
	return h.key
}

func (h *Handle) Bound() bool {
	return h.bound
}

// Bind records k. Binding a second, different key fails: a value has one name.
func (h *Handle) Bind(k Key) error {
	if h.bound && h.key != k {
		return &bindError{have: h.key, want: k}
	}
	h.key = k
	h.bound = true
	return nil
}

type unbinder interface {
	unbind()
}

func (h *Handle) unbind() {
	*h = Handle{}
}

type bindError struct {
	have, want Key
}

func (e *bindError) Error() string {
	return ErrValueRegistered.Error() + ": bound to " + e.have.String() + ", cannot bind " + e.want.String()
}

func (e *bindError) Unwrap() error {
	return ErrValueRegistered
}
