package enum

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// A Type describes one enumeration type: its fully qualified name,
// its Policy and its place in a hierarchy rooted at Root.
//
// Concrete Types are created alongside their Registry by NewStrict, NewNamed, NewOrdinal or NewDynamic.
// Abstract Types group concrete ones and can never hold values.
type Type struct {
	name     string
	policy   Policy
	parent   *Type
	abstract bool
	ops      typeOps
}

// typeOps is the type-erased view of a Registry a Type needs
// to decode tokens naming it.
type typeOps interface {
	internEncoded(payload string) (Instance, error)
	lookupEncoded(payload string) (Instance, error)
	internAny(payload any) (Instance, error)
	lookupName(name string) (Instance, bool)
	instances() []Instance
	memberNames() []string
}

// Root is the abstract ancestor of every Type.
// Decoding against Root with subtypes allowed accepts a token of any registered Type.
var Root = &Type{name: "Enum", abstract: true}

var catalog = struct {
	sync.RWMutex
	byName map[string]*Type
	byKind map[reflect.Type]*Type
	order  []*Type
}{
	byName: map[string]*Type{Root.name: Root},
	byKind: make(map[reflect.Type]*Type),
}

// Abstract declares an abstract Type named name beneath parent.
// A nil parent places the Type directly beneath Root.
//
// Abstract panics if name is malformed or already registered, or if parent is not abstract.
func Abstract(name string, parent *Type) *Type {
	if parent == nil {
		parent = Root
	}

	if !parent.abstract {
		panic(fmt.Errorf("enum: %w: parent %s of %s is not abstract", ErrInvalidConstruction, parent, name))
	}

	t := &Type{name: name, parent: parent, abstract: true}
	register(t, nil)

	return t
}

// Lookup retrieves the Type registered under name.
func Lookup(name string) (*Type, bool) {
	catalog.RLock()
	defer catalog.RUnlock()

	t, ok := catalog.byName[name]
	return t, ok
}

// TypeOf retrieves the Type whose Registry was created with the kind K.
func TypeOf[K any]() (*Type, bool) {
	catalog.RLock()
	defer catalog.RUnlock()

	t, ok := catalog.byKind[kindOf[K]()]
	return t, ok
}

// Types lists every registered Type, abstract or not, in registration order.
// Root is not included.
func Types() []*Type {
	catalog.RLock()
	defer catalog.RUnlock()

	out := make([]*Type, len(catalog.order))
	copy(out, catalog.order)

	return out
}

func kindOf[K any]() reflect.Type { return reflect.TypeOf((*K)(nil)).Elem() }

// register adds t to the catalog, panicking on any conflict.
func register(t *Type, kind reflect.Type) {
	if err := validTypeName(t.name); err != nil {
		panic(fmt.Errorf("enum: %w", err))
	}

	catalog.Lock()
	defer catalog.Unlock()

	if _, ok := catalog.byName[t.name]; ok {
		panic(fmt.Errorf("enum: %w: type %s already registered", ErrInvalidConstruction, t.name))
	}

	if kind != nil {
		if prev, ok := catalog.byKind[kind]; ok {
			panic(fmt.Errorf("enum: %w: kind %s already backs type %s", ErrInvalidConstruction, kind, prev.name))
		}
		catalog.byKind[kind] = t
	}

	catalog.byName[t.name] = t
	catalog.order = append(catalog.order, t)
}

// validTypeName checks name is a sequence of non-empty segments joined by "::"
// that never contains braces, single colons or whitespace.
func validTypeName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalidConstruction)
	}

	for _, seg := range strings.Split(name, sep) {
		if seg == "" {
			return fmt.Errorf("%w: type name %q has an empty segment", ErrInvalidConstruction, name)
		}

		if strings.ContainsAny(seg, "{}:") || strings.IndexFunc(seg, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: type name %q contains a reserved character", ErrInvalidConstruction, name)
		}
	}

	return nil
}

// Name is the fully qualified name of the Type as it appears in tokens.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}

	return t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	return t.name
}

// Policy reports how the Type decides which payloads are legal.
// Abstract Types report PolicyUnk.
func (t *Type) Policy() Policy { return t.policy }

// Parent is the Type t descends from; it is nil only for Root.
func (t *Type) Parent() *Type { return t.parent }

// IsAbstract asserts whether values of t cannot be constructed.
func (t *Type) IsAbstract() bool { return t.abstract }

// DescendsFrom asserts whether ancestor appears above t in its hierarchy.
// A Type does not descend from itself.
func (t *Type) DescendsFrom(ancestor *Type) bool {
	if t == nil || ancestor == nil {
		return false
	}

	for p := t.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}

	return false
}

// Accepts asserts whether a value of actual may stand where t is expected.
// Without subtypes, only t itself is acceptable.
func (t *Type) Accepts(actual *Type, subtypes bool) bool {
	if t == nil || actual == nil {
		return false
	}

	if actual == t {
		return true
	}

	return subtypes && actual.DescendsFrom(t)
}

// Subtypes lists every registered Type descending from t, in registration order.
func (t *Type) Subtypes() []*Type {
	var out []*Type
	for _, c := range Types() {
		if c.DescendsFrom(t) {
			out = append(out, c)
		}
	}

	return out
}

// Intern is the type-erased form of Registry.Intern.
//
// Intern returns ErrInvalidConstruction if t is abstract
// and ErrInvalidArgument if payload is not of the Type's payload type.
func (t *Type) Intern(payload any) (Instance, error) {
	if t == nil || t.abstract || t.ops == nil {
		return nil, fmt.Errorf("%w: cannot create a value of abstract type %s", ErrInvalidConstruction, t)
	}

	return t.ops.internAny(payload)
}

// Instances lists every value currently registered for t.
// Abstract Types have none.
func (t *Type) Instances() []Instance {
	if t == nil || t.ops == nil {
		return nil
	}

	return t.ops.instances()
}

// Names lists the declared member names of t in declaration order.
func (t *Type) Names() []string {
	if t == nil || t.ops == nil {
		return nil
	}

	return t.ops.memberNames()
}

// Member retrieves the value declared under name.
func (t *Type) Member(name string) (Instance, bool) {
	if t == nil || t.ops == nil {
		return nil, false
	}

	return t.ops.lookupName(name)
}
