package enum

import (
	"fmt"
	"strings"
)

// sep joins the segments of type names and precedes the payload or member name in tokens.
const sep = "::"

// A Codec converts values to and from tokens of the form
//
//	<Type>::{<payload>}
//
// where Type is the fully qualified type name and payload the canonical payload encoding,
// and restores values from the name form
//
//	<Type>::<Member>
//
// Decoding always yields the interned value, never a new one.
type Codec struct {
	// AllowSubtypes accepts values of any Type descending from the expected one.
	// Without it only the expected Type itself is accepted.
	AllowSubtypes bool
}

// DefaultCodec accepts only the exact expected Type.
var DefaultCodec = Codec{}

// Encode renders v as a token using DefaultCodec.
func Encode(v Instance, expected *Type) (string, error) { return DefaultCodec.Encode(v, expected) }

// Decode restores the value a token represents using DefaultCodec.
func Decode(tok string, expected *Type) (Instance, error) { return DefaultCodec.Decode(tok, expected) }

// ParseName restores a value from its name form using DefaultCodec.
func ParseName(s string, expected *Type) (Instance, error) {
	return DefaultCodec.ParseName(s, expected)
}

func token(typeName, key string) string { return typeName + sep + "{" + key + "}" }

// SplitToken separates a token into the name of its Type and its encoded payload
// without resolving either.
// Type names never contain braces, so the first one starts the payload.
func SplitToken(tok string) (string, string, error) {
	i := strings.IndexByte(tok, '{')
	if i < 0 || !strings.HasSuffix(tok, "}") || i == len(tok)-1 {
		return "", "", fmt.Errorf("%w: token %q is not of the form <Type>::{<payload>}", ErrInvalidArgument, tok)
	}

	head := tok[:i]
	if !strings.HasSuffix(head, sep) || len(head) == len(sep) {
		return "", "", fmt.Errorf("%w: token %q is not of the form <Type>::{<payload>}", ErrInvalidArgument, tok)
	}

	return head[:len(head)-len(sep)], tok[i+1 : len(tok)-1], nil
}

// Encode renders v as a token, provided expected accepts v's Type.
//
// Encode returns ErrInvalidOperation for a value not held by its Registry
// and ErrInvalidArgument when v is of the wrong Type.
func (c Codec) Encode(v Instance, expected *Type) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: cannot encode a nil value", ErrInvalidArgument)
	}

	if err := v.Valid(); err != nil {
		return "", err
	}

	if !expected.Accepts(v.Type(), c.AllowSubtypes) {
		return "", fmt.Errorf("%w: %s value is not a %s", ErrInvalidArgument, v.Type(), expected)
	}

	return v.Token(), nil
}

// Decode restores the value tok represents, provided expected accepts the Type tok names.
//
// Decode returns ErrInvalidArgument for malformed tokens, unknown or unacceptable Types
// and payloads that do not decode into the Type's payload type,
// ErrInvalidConstruction when tok names an abstract Type
// and ErrInvalidValue when a closed Type does not represent the payload.
func (c Codec) Decode(tok string, expected *Type) (Instance, error) {
	name, payload, err := SplitToken(tok)
	if err != nil {
		return nil, err
	}

	t, err := c.resolve(name, expected)
	if err != nil {
		return nil, err
	}

	v, err := t.ops.internEncoded(payload)
	if err != nil {
		lc := logContext(CodecLogKind, t, nil)
		lc.Token, lc.Error = tok, err
		Logger().Debug("rejected token", lc)
		return nil, err
	}

	return v, nil
}

// Peek checks tok exactly as Decode does but never creates a value.
// It returns the value tok represents when one exists, and no value and no error when tok
// is a well-formed token of a dynamic Type whose payload has not been interned.
func (c Codec) Peek(tok string, expected *Type) (Instance, error) {
	name, payload, err := SplitToken(tok)
	if err != nil {
		return nil, err
	}

	t, err := c.resolve(name, expected)
	if err != nil {
		return nil, err
	}

	return t.ops.lookupEncoded(payload)
}

// ParseName restores the value declared under the member name s refers to, where s is
// in the name form.
//
// ParseName returns ErrNotFound when the Type has no such member.
func (c Codec) ParseName(s string, expected *Type) (Instance, error) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q is not of the form <Type>::<Member>", ErrInvalidArgument, s)
	}

	t, err := c.resolve(s[:i], expected)
	if err != nil {
		return nil, err
	}

	v, ok := t.ops.lookupName(s[i+len(sep):])
	if !ok {
		return nil, fmt.Errorf("%w: %s has no member %s", ErrNotFound, t, s[i+len(sep):])
	}

	return v, nil
}

// resolve finds the concrete Type named name, provided expected accepts it.
func (c Codec) resolve(name string, expected *Type) (*Type, error) {
	t, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %s", ErrInvalidArgument, name)
	}

	if !expected.Accepts(t, c.AllowSubtypes) {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrInvalidArgument, t, expected)
	}

	if t.abstract || t.ops == nil {
		return nil, fmt.Errorf("%w: cannot create a value of abstract type %s", ErrInvalidConstruction, t)
	}

	return t, nil
}

// Encode renders v as a token of r's Type.
func (r *Registry[K, P]) Encode(v *Value[K, P]) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}

	return DefaultCodec.Encode(v, r.typ)
}

// Decode restores the value of r a token represents.
func (r *Registry[K, P]) Decode(tok string) (*Value[K, P], error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	v, err := DefaultCodec.Decode(tok, r.typ)
	if err != nil {
		return nil, err
	}

	return v.(*Value[K, P]), nil
}

// SerializeName renders v in the name form, <Type>::<Member>.
//
// SerializeName returns ErrInvalidArgument for values of another Registry
// and values without a member name, such as those interned by a dynamic Registry.
func (r *Registry[K, P]) SerializeName(v *Value[K, P]) (string, error) {
	if err := v.Valid(); err != nil {
		return "", err
	}

	if v.reg != r {
		return "", fmt.Errorf("%w: %s value is not a %s", ErrInvalidArgument, v.Type(), r.Type())
	}

	if v.name == "" {
		return "", fmt.Errorf("%w: %s value %s has no member name", ErrInvalidArgument, r.typ, v.key)
	}

	return r.typ.name + sep + v.name, nil
}

// Parse restores the value declared under a member name,
// given either the bare name or the name form <Type>::<Member>.
//
// Parse returns ErrInvalidArgument when s names another Type and ErrNotFound when
// r has no such member.
func (r *Registry[K, P]) Parse(s string) (*Value[K, P], error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	name := s
	if i := strings.LastIndex(s, sep); i >= 0 {
		if s[:i] != r.typ.name {
			return nil, fmt.Errorf("%w: %q does not name a %s member", ErrInvalidArgument, s, r.typ)
		}
		name = s[i+len(sep):]
	}

	v, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no member %s", ErrNotFound, r.typ, name)
	}

	return v, nil
}
