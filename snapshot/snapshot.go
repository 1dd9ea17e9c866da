package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xy-planning-network/enum"
)

var (
	ErrAbstract  = errors.New("abstract type")
	ErrNotFound  = errors.New("not found")
	ErrNotMember = errors.New("not a member")
	ErrStore     = errors.New("store failure")
)

// A Snapshot is the token catalog of one enumeration type at a point in time.
// It lets processes that do not link the Go declaration check tokens against it.
type Snapshot struct {
	Type   string      `json:"type"`
	Parent string      `json:"parent,omitempty"`
	Policy enum.Policy `json:"policy"`

	// Members pairs every declared member name with its token, aliases included.
	Members map[string]string `json:"members,omitempty"`

	// Tokens lists the token of every value in declaration order,
	// followed for dynamic types by the values interned so far.
	Tokens []string  `json:"tokens"`
	Taken  time.Time `json:"taken"`
}

// Take captures the current values of t.
//
// Take returns ErrAbstract for abstract Types, which have no values.
func Take(t *enum.Type) (Snapshot, error) {
	if t == nil || t.IsAbstract() {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrAbstract, t)
	}

	s := Snapshot{
		Type:   t.Name(),
		Policy: t.Policy(),
		Taken:  time.Now().UTC(),
	}

	if p := t.Parent(); p != nil && p != enum.Root {
		s.Parent = p.Name()
	}

	for _, v := range t.Instances() {
		s.Tokens = append(s.Tokens, v.Token())
	}

	for _, name := range t.Names() {
		if s.Members == nil {
			s.Members = make(map[string]string)
		}

		if v, ok := t.Member(name); ok {
			s.Members[name] = v.Token()
		}
	}

	return s, nil
}

// Has asserts whether tok is one of the tokens captured by s.
// Tokens match when their payloads decode alike,
// so a payload with reordered keys or a non-canonical number still matches.
func (s Snapshot) Has(tok string) bool {
	want, err := normalize(tok)
	if err != nil {
		return false
	}

	for _, t := range s.Tokens {
		if t == tok {
			return true
		}

		if got, err := normalize(t); err == nil && got == want {
			return true
		}
	}

	return false
}

// normalize rewrites the payload of tok with enum.NormalizePayload, keeping its Type name.
func normalize(tok string) (string, error) {
	name, payload, err := enum.SplitToken(tok)
	if err != nil {
		return "", err
	}

	payload, err = enum.NormalizePayload(payload)
	if err != nil {
		return "", err
	}

	return name + "::{" + payload + "}", nil
}

// Publish takes a Snapshot of each of types and saves it to store.
// Without types, Publish saves every concrete registered Type.
func Publish(ctx context.Context, store Store, types ...*enum.Type) error {
	if len(types) == 0 {
		for _, t := range enum.Types() {
			if !t.IsAbstract() {
				types = append(types, t)
			}
		}
	}

	for _, t := range types {
		s, err := Take(t)
		if err != nil {
			return err
		}

		if err := store.Put(ctx, s); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks tok against the Snapshot published for the Type it names.
//
// Validate returns ErrNotFound when no Snapshot was published for the Type
// and ErrNotMember when a closed Type's Snapshot lacks tok.
// Tokens of dynamic Types are valid whenever they are well-formed,
// since such Types represent any payload.
// Lacking the payload's Go type, Validate matches a closed Type's tokens by payload shape:
// reordered keys and non-canonical numbers match their member.
func Validate(ctx context.Context, store Store, tok string) error {
	name, payload, err := enum.SplitToken(tok)
	if err != nil {
		return err
	}

	if _, err := enum.NormalizePayload(payload); err != nil {
		return err
	}

	s, err := store.Get(ctx, name)
	if err != nil {
		return err
	}

	if !s.Policy.Closed() || s.Has(tok) {
		return nil
	}

	return fmt.Errorf("%w: %s is not a %s", ErrNotMember, tok, s.Type)
}
