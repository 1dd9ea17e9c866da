package enum

import (
	"database/sql/driver"
	"fmt"
)

// A Ref holds a value of one enumeration type as a field of a struct that is
// serialized as text, JSON or into a SQL column.
// It encodes as the value's token and decodes back to the interned value,
// so restoring a Ref never produces a second instance.
//
// The zero Ref holds no value and encodes as empty text or SQL NULL.
type Ref[K any, P any] struct {
	V *Value[K, P]
}

// RefOf wraps v.
func RefOf[K any, P any](v *Value[K, P]) Ref[K, P] { return Ref[K, P]{V: v} }

// MarshalText implements encoding.TextMarshaler.
func (r Ref[K, P]) MarshalText() ([]byte, error) {
	if r.V == nil {
		return []byte{}, nil
	}

	if err := r.V.Valid(); err != nil {
		return nil, err
	}

	return []byte(r.V.Token()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Ref[K, P]) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		r.V = nil
		return nil
	}

	t, ok := TypeOf[K]()
	if !ok {
		return fmt.Errorf("%w: no Registry uses kind %s", ErrInvalidArgument, kindOf[K]())
	}

	v, err := Decode(string(text), t)
	if err != nil {
		return err
	}

	r.V = v.(*Value[K, P])
	return nil
}

// Scan implements sql.Scanner.
func (r *Ref[K, P]) Scan(src any) error {
	switch src := src.(type) {
	case nil:
		r.V = nil
		return nil
	case string:
		return r.UnmarshalText([]byte(src))
	case []byte:
		return r.UnmarshalText(src)
	default:
		return fmt.Errorf("%w: cannot scan %T into a Ref", ErrInvalidArgument, src)
	}
}

// Value implements driver.Valuer.
func (r Ref[K, P]) Value() (driver.Value, error) {
	if r.V == nil {
		return nil, nil
	}

	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}

	return string(text), nil
}

// String renders the held value, or nothing for the zero Ref.
func (r Ref[K, P]) String() string {
	if r.V == nil {
		return ""
	}

	return r.V.String()
}

// Valid asserts r holds a registered value.
//
// Valid implements Enumerable.
func (r Ref[K, P]) Valid() error {
	if r.V == nil {
		return fmt.Errorf("%w: Ref holds no value", ErrInvalidValue)
	}

	return r.V.Valid()
}
