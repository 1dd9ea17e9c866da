package enum

import "fmt"

// All lists every value in declaration order, followed for dynamic registries
// by values in the order they were first interned.
func (r *Registry[K, P]) All() []*Value[K, P] {
	if r.ready() != nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Value[K, P], len(r.order))
	copy(out, r.order)

	return out
}

// Len is the number of distinct values; aliases are not counted.
func (r *Registry[K, P]) Len() int {
	if r.ready() != nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Names lists every declared member name, aliases included, in declaration order.
func (r *Registry[K, P]) Names() []string {
	if r.ready() != nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)

	return out
}

// Filter lists the values whose payload satisfies keep, in the order of All.
func (r *Registry[K, P]) Filter(keep func(P) bool) []*Value[K, P] {
	var out []*Value[K, P]
	for _, v := range r.All() {
		if keep(v.Payload()) {
			out = append(out, v)
		}
	}

	return out
}

// FirstOrDefault returns the first value, in the order of All, whose payload satisfies match,
// or def when none does.
func (r *Registry[K, P]) FirstOrDefault(match func(P) bool, def *Value[K, P]) *Value[K, P] {
	for _, v := range r.All() {
		if match(v.Payload()) {
			return v
		}
	}

	return def
}

// Map applies fn to every value of r in the order of All.
func Map[K any, P any, R any](r *Registry[K, P], fn func(*Value[K, P]) R) []R {
	all := r.All()
	out := make([]R, len(all))
	for i, v := range all {
		out[i] = fn(v)
	}

	return out
}

// FromValue retrieves the value representing p without creating one,
// even for dynamic registries.
func (r *Registry[K, P]) FromValue(p P) (*Value[K, P], bool) {
	if r.ready() != nil {
		return nil, false
	}

	key, err := r.codec.EncodePayload(p)
	if err != nil {
		return nil, false
	}

	return r.get(key)
}

// HasValue asserts whether a value representing p exists.
func (r *Registry[K, P]) HasValue(p P) bool {
	_, ok := r.FromValue(p)
	return ok
}

// Lookup retrieves the value declared under the member name.
func (r *Registry[K, P]) Lookup(name string) (*Value[K, P], bool) {
	if r.ready() != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byName[name]
	return v, ok
}

// Must retrieves the value declared under the member name and panics if there is none.
// It suits package-level variables naming members.
func (r *Registry[K, P]) Must(name string) *Value[K, P] {
	v, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Errorf("enum: %w: %s has no member %s", ErrNotFound, r.Type(), name))
	}

	return v
}

// Next returns the value following v in the order of All, wrapping around after the last.
// Next reports false if v is not a valid value of r.
func (r *Registry[K, P]) Next(v *Value[K, P]) (*Value[K, P], bool) {
	return r.step(v, 1)
}

// Prev returns the value preceding v in the order of All, wrapping around before the first.
func (r *Registry[K, P]) Prev(v *Value[K, P]) (*Value[K, P], bool) {
	return r.step(v, -1)
}

func (r *Registry[K, P]) step(v *Value[K, P], by int) (*Value[K, P], bool) {
	if r.ready() != nil || v.Valid() != nil || v.reg != r {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.order)
	return r.order[((v.pos+by)%n+n)%n], true
}
