package enum

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/xy-planning-network/enum/logger"
)

// A Member declares a named constructor of a closed enumeration's payload.
// New is invoked exactly once, when the Registry discovers its members.
//
// New must not call back into the Registry it is declared for.
type Member[P any] struct {
	Name string
	New  func() P
}

// Const declares a Member whose payload is fixed.
func Const[P any](name string, payload P) Member[P] {
	return Member[P]{Name: name, New: func() P { return payload }}
}

// A Registry owns every value of one enumeration type.
// It guarantees at most one *Value exists per distinct payload
// and, for closed policies, that no payload outside the declared members is ever represented.
//
// K is a kind: any type, usually an unexported empty struct, that exists only to make
// values of this enumeration a distinct Go type.
// P is the payload type.
//
// A Registry is built by NewStrict, NewNamed, NewOrdinal or NewDynamic and lives for the process.
// It is safe for concurrent use.
type Registry[K any, P any] struct {
	typ      *Type
	members  []Member[P]
	codec    PayloadCodec[P]
	stringer func(P) string
	verify   func(P) error
	log      logger.Logger
	isolate  bool

	// initMu serializes discovery; sealed flips once it completes.
	initMu sync.Mutex
	sealed atomic.Bool

	mu     sync.RWMutex
	byKey  map[string]*Value[K, P]
	byName map[string]*Value[K, P]
	names  []string
	order  []*Value[K, P]
}

// NewStrict builds a closed Registry named name whose legal payloads are exactly
// those produced by members.
//
// Members are not invoked until the Registry is first used.
// NewStrict panics if name is malformed or taken, if K already backs another Registry,
// or if a member is unnamed or lacks a constructor.
func NewStrict[K any, P any](name string, members []Member[P], opts ...Option[P]) *Registry[K, P] {
	return newRegistry[K](name, PolicyStrict, members, opts)
}

// NewNamed builds a closed Registry whose payload for each member is the member's own name.
func NewNamed[K any](name string, names []string, opts ...Option[string]) *Registry[K, string] {
	members := make([]Member[string], len(names))
	for i, n := range names {
		members[i] = Const(n, n)
	}

	return newRegistry[K](name, PolicyStrict, members, opts)
}

// NewOrdinal builds a closed Registry whose payload for each member is its position
// among the distinct names plus base.
// A name repeated in names keeps the ordinal of its first appearance.
func NewOrdinal[K any](name string, base int, names []string, opts ...Option[int]) *Registry[K, int] {
	seen := make(map[string]bool, len(names))
	members := make([]Member[int], 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true

		members = append(members, Const(n, base+len(members)))
	}

	return newRegistry[K](name, PolicyOrdinal, members, opts)
}

// NewDynamic builds an open Registry representing any payload on demand.
func NewDynamic[K any, P any](name string, opts ...Option[P]) *Registry[K, P] {
	return newRegistry[K](name, PolicyDynamic, nil, opts)
}

func newRegistry[K any, P any](name string, policy Policy, members []Member[P], opts []Option[P]) *Registry[K, P] {
	s := settings[P]{codec: reflectCodec[P]{}}
	for _, opt := range opts {
		opt(&s)
	}

	if s.parent == nil {
		s.parent = Root
	}

	if !s.parent.abstract {
		panic(fmt.Errorf("enum: %w: parent %s of %s is not abstract", ErrInvalidConstruction, s.parent, name))
	}

	for _, m := range members {
		if err := validMemberName(m.Name); err != nil {
			panic(fmt.Errorf("enum: %s: %w", name, err))
		}

		if m.New == nil {
			panic(fmt.Errorf("enum: %w: member %s of %s has no constructor", ErrInvalidConstruction, m.Name, name))
		}
	}

	r := &Registry[K, P]{
		members:  members,
		codec:    s.codec,
		stringer: s.stringer,
		verify:   s.verify,
		log:      s.log,
		isolate:  hasReferences(reflect.TypeOf((*P)(nil)).Elem()),
		byKey:    make(map[string]*Value[K, P]),
		byName:   make(map[string]*Value[K, P]),
	}

	r.typ = &Type{name: name, policy: policy, parent: s.parent, ops: r}
	register(r.typ, kindOf[K]())

	if !policy.Closed() {
		r.sealed.Store(true)
	}

	return r
}

// validMemberName keeps names usable in the name form of a token.
func validMemberName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty member name", ErrInvalidConstruction)
	}

	if strings.Contains(name, sep) || strings.ContainsAny(name, "{}") || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: member name %q contains a reserved character", ErrInvalidConstruction, name)
	}

	return nil
}

// Type is the enumeration type the Registry owns.
func (r *Registry[K, P]) Type() *Type {
	if r == nil {
		return nil
	}

	return r.typ
}

func (r *Registry[K, P]) logger() logger.Logger {
	if r.log != nil {
		return r.log
	}

	return Logger()
}

// ready ensures r was properly built and its members discovered.
func (r *Registry[K, P]) ready() error {
	if r == nil || r.typ == nil {
		return fmt.Errorf("%w: Registry must be built by a New function", ErrInvalidConstruction)
	}

	if !r.sealed.Load() {
		r.discover()
	}

	return nil
}

// Intern returns the single *Value representing p, creating it on first sight
// when the Registry is dynamic.
//
// Payloads are compared by their canonical encoding, never by identity.
// Intern returns ErrInvalidConstruction for a Registry not built by a New function,
// ErrInvalidArgument when p has no canonical encoding
// and ErrInvalidValue when a closed Registry does not represent p or a verifier rejects it.
func (r *Registry[K, P]) Intern(p P) (*Value[K, P], error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	key, err := r.codec.EncodePayload(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, r.typ, err)
	}

	return r.intern(p, key)
}

// MustIntern is like Intern but panics on error.
func (r *Registry[K, P]) MustIntern(p P) *Value[K, P] {
	v, err := r.Intern(p)
	if err != nil {
		panic(err)
	}

	return v
}

func (r *Registry[K, P]) get(key string) (*Value[K, P], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byKey[key]
	return v, ok
}

func (r *Registry[K, P]) intern(p P, key string) (*Value[K, P], error) {
	if v, ok := r.get(key); ok {
		return v, nil
	}

	if r.typ.policy.Closed() {
		return nil, r.rejected(key)
	}

	if r.verify != nil {
		if err := r.verify(p); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidValue, r.typ, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.byKey[key]; ok {
		return v, nil
	}

	v := r.newValue("", p, key, len(r.order))
	r.byKey[key] = v
	r.order = append(r.order, v)

	r.logger().Debug("interned value", logContext(InternLogKind, r.typ, map[string]any{"payload": key}))

	return v, nil
}

// rejected builds the error for a payload outside a closed Registry,
// listing a few of the legal payloads.
func (r *Registry[K, P]) rejected(key string) error {
	const shown = 8

	r.mu.RLock()
	allowed := make([]string, 0, shown)
	for i, v := range r.order {
		if i == shown {
			allowed = append(allowed, "...")
			break
		}
		allowed = append(allowed, v.key)
	}
	r.mu.RUnlock()

	return fmt.Errorf(
		"%w: %s does not represent %s, allowed: %s",
		ErrInvalidValue,
		r.typ,
		key,
		strings.Join(allowed, ", "),
	)
}

// internEncoded decodes payload and interns the result.
func (r *Registry[K, P]) internEncoded(payload string) (Instance, error) {
	p, err := r.codec.DecodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidArgument, r.typ, err)
	}

	v, err := r.Intern(p)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// lookupEncoded decodes payload and retrieves the value representing it without creating one.
// A well-formed payload a dynamic Registry has not interned yields neither a value nor an error.
func (r *Registry[K, P]) lookupEncoded(payload string) (Instance, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	p, err := r.codec.DecodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidArgument, r.typ, err)
	}

	key, err := r.codec.EncodePayload(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, r.typ, err)
	}

	if v, ok := r.get(key); ok {
		return v, nil
	}

	if r.typ.policy.Closed() {
		return nil, r.rejected(key)
	}

	if r.verify != nil {
		if err := r.verify(p); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrInvalidValue, r.typ, err)
		}
	}

	return nil, nil
}

func (r *Registry[K, P]) internAny(payload any) (Instance, error) {
	p, ok := payload.(P)
	if !ok {
		want := reflect.TypeOf((*P)(nil)).Elem()
		return nil, fmt.Errorf("%w: %s holds %s payloads, not %T", ErrInvalidArgument, r.typ, want, payload)
	}

	v, err := r.Intern(p)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (r *Registry[K, P]) lookupName(name string) (Instance, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}

	return v, true
}

func (r *Registry[K, P]) instances() []Instance {
	all := r.All()
	out := make([]Instance, len(all))
	for i, v := range all {
		out[i] = v
	}

	return out
}

func (r *Registry[K, P]) memberNames() []string { return r.Names() }
