package enum

import (
	"fmt"
)

var _ Instance = (*Value[struct{}, int])(nil)

// An Instance is the type-erased view of a *Value, used where the enumeration type
// is only known at run time, such as when decoding a token naming any Type.
//
// Only *Value implements Instance.
type Instance interface {
	Enumerable

	// Name is the declared member name, empty for values created from a payload alone.
	Name() string

	// Type is the enumeration type the value belongs to.
	Type() *Type

	// Token is the canonical serialized form of the value.
	Token() string

	// PayloadAny is the payload as an untyped value.
	PayloadAny() any

	instance()
}

// A Value is the single instance representing one payload of one enumeration type.
//
// Values are only ever created by their Registry, and only handled by pointer:
// two *Value are the same enumeration value exactly when they are the same pointer.
// A Value copied by dereferencing its pointer is detached from its Registry;
// Valid reports ErrInvalidOperation for it and codecs refuse it.
type Value[K any, P any] struct {
	self    *Value[K, P]
	reg     *Registry[K, P]
	name    string
	payload P
	key     string
	pos     int
}

func (*Value[K, P]) instance() {}

// Payload is the data the value represents.
// Payloads sharing memory, such as maps and slices, are returned as fresh copies.
func (v *Value[K, P]) Payload() P {
	if v.reg != nil && v.reg.isolate {
		return clonePayload(v.payload)
	}

	return v.payload
}

// PayloadAny implements Instance.
func (v *Value[K, P]) PayloadAny() any { return v.Payload() }

// Name implements Instance.
func (v *Value[K, P]) Name() string { return v.name }

// Type implements Instance.
func (v *Value[K, P]) Type() *Type {
	if v.reg == nil {
		return nil
	}

	return v.reg.typ
}

// Registry is the Registry that owns the value.
func (v *Value[K, P]) Registry() *Registry[K, P] { return v.reg }

// Token implements Instance.
func (v *Value[K, P]) Token() string { return token(v.Type().Name(), v.key) }

// String renders the value through the Registry's stringer when one is configured,
// otherwise by its member name, otherwise by its payload.
//
// String implements fmt.Stringer.
func (v *Value[K, P]) String() string {
	switch {
	case v.reg != nil && v.reg.stringer != nil:
		return v.reg.stringer(v.Payload())
	case v.name != "":
		return v.name
	default:
		return fmt.Sprint(v.payload)
	}
}

// Valid asserts v is the registered singleton rather than a copy of one.
//
// Valid implements Enumerable.
func (v *Value[K, P]) Valid() error {
	if v == nil || v.reg == nil {
		return fmt.Errorf("%w: value not created by a Registry", ErrInvalidOperation)
	}

	if v.self != v {
		return fmt.Errorf("%w: %s value %s was duplicated", ErrInvalidOperation, v.reg.typ, v.key)
	}

	return nil
}

// MarshalText renders v as its canonical token.
//
// MarshalText implements encoding.TextMarshaler.
func (v *Value[K, P]) MarshalText() ([]byte, error) {
	if err := v.Valid(); err != nil {
		return nil, err
	}

	return []byte(v.Token()), nil
}

// UnmarshalText always fails: values are restored through Decode or a Ref,
// never by filling in an existing Value.
//
// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value[K, P]) UnmarshalText([]byte) error {
	return fmt.Errorf("%w: restore values with Decode or Ref", ErrInvalidOperation)
}

// UnmarshalJSON always fails; see UnmarshalText.
func (v *Value[K, P]) UnmarshalJSON([]byte) error {
	return fmt.Errorf("%w: restore values with Decode or Ref", ErrInvalidOperation)
}

// GobDecode always fails; see UnmarshalText.
func (v *Value[K, P]) GobDecode([]byte) error {
	return fmt.Errorf("%w: restore values with Decode or Ref", ErrInvalidOperation)
}
