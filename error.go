package enum

import "errors"

var (
	// ErrInvalidArgument flags malformed tokens, unknown or unacceptable types
	// and payloads that cannot be canonically encoded.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConstruction flags attempts to create a value of an abstract type
	// or through a Registry not built by one of the New functions.
	ErrInvalidConstruction = errors.New("invalid construction")

	// ErrInvalidOperation flags duplicating a value or deserializing one outside of Decode.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidValue flags payloads a Registry refuses to represent.
	ErrInvalidValue = errors.New("invalid value")

	ErrNotFound = errors.New("not found")
)
