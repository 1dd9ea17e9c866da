package enum

import "fmt"

// discover invokes every member constructor once and seals the set of legal payloads.
// Nothing is committed unless every member succeeds.
func (r *Registry[K, P]) discover() {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	if r.sealed.Load() {
		return
	}

	byKey := make(map[string]*Value[K, P], len(r.members))
	byName := make(map[string]*Value[K, P], len(r.members))
	names := make([]string, 0, len(r.members))
	order := make([]*Value[K, P], 0, len(r.members))

	for _, m := range r.members {
		p := m.New()
		key, err := r.codec.EncodePayload(p)
		if err != nil {
			panic(fmt.Errorf("enum: %w: member %s of %s: %s", ErrInvalidConstruction, m.Name, r.typ, err))
		}

		if r.verify != nil {
			if err := r.verify(p); err != nil {
				panic(fmt.Errorf("enum: %w: member %s of %s: %s", ErrInvalidConstruction, m.Name, r.typ, err))
			}
		}

		if prev, ok := byName[m.Name]; ok {
			if prev.key != key {
				panic(fmt.Errorf("enum: %w: member %s of %s declared with two payloads", ErrInvalidConstruction, m.Name, r.typ))
			}
			continue
		}

		v, ok := byKey[key]
		if !ok {
			v = r.newValue(m.Name, p, key, len(order))
			byKey[key] = v
			order = append(order, v)
		}

		byName[m.Name] = v
		names = append(names, m.Name)
	}

	r.mu.Lock()
	r.byKey, r.byName, r.names, r.order = byKey, byName, names, order
	r.mu.Unlock()

	r.sealed.Store(true)

	r.logger().Debug("discovered members", logContext(DiscoveryLogKind, r.typ, map[string]any{
		"members": len(names),
		"values":  len(order),
	}))
}

func (r *Registry[K, P]) newValue(name string, p P, key string, pos int) *Value[K, P] {
	if r.isolate {
		p = clonePayload(p)
	}

	v := &Value[K, P]{reg: r, name: name, payload: p, key: key, pos: pos}
	v.self = v

	return v
}
