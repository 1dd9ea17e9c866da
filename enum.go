package enum

import "fmt"

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Every *Value satisfies Enumerable; Valid reports whether the value is the registered singleton
// and not a detached copy of one.
type Enumerable interface {
	String() string
	Valid() error
}

// A Policy is the rule a Registry applies to decide which payloads it may represent.
type Policy int

const (
	PolicyUnk Policy = iota

	// PolicyDynamic represents any payload on demand.
	PolicyDynamic

	// PolicyStrict represents only the payloads its declared members produce.
	PolicyStrict

	// PolicyOrdinal represents the position of each declared name plus a base offset.
	PolicyOrdinal
)

func (p Policy) String() string {
	switch p {
	case PolicyDynamic:
		return "dynamic"
	case PolicyStrict:
		return "strict"
	case PolicyOrdinal:
		return "ordinal"
	default:
		return "unknown"
	}
}

func (p Policy) Valid() error {
	switch p {
	case PolicyDynamic, PolicyStrict, PolicyOrdinal:
		return nil
	default:
		return ErrInvalidArgument
	}
}

// Closed asserts whether the Policy fixes the set of legal payloads once members are discovered.
func (p Policy) Closed() bool {
	switch p {
	case PolicyStrict, PolicyOrdinal:
		return true
	default:
		return false
	}
}

// MarshalText renders the Policy as its name.
func (p Policy) MarshalText() ([]byte, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}

	return []byte(p.String()), nil
}

// UnmarshalText parses the name of a Policy.
func (p *Policy) UnmarshalText(text []byte) error {
	for _, c := range []Policy{PolicyDynamic, PolicyStrict, PolicyOrdinal} {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}

	return fmt.Errorf("%w: unknown policy %q", ErrInvalidArgument, text)
}
