package enum

import "github.com/xy-planning-network/enum/logger"

// An Option configures a Registry when constructing a new one.
type Option[P any] func(*settings[P])

type settings[P any] struct {
	codec    PayloadCodec[P]
	log      logger.Logger
	parent   *Type
	stringer func(P) string
	verify   func(P) error
}

// WithLogger sets the logger.Logger the Registry reports discovery and growth to.
// Without it, the Registry uses the package logger set by SetLogger.
func WithLogger[P any](l logger.Logger) Option[P] {
	return func(s *settings[P]) {
		s.log = l
	}
}

// WithParent places the Registry's Type beneath the abstract Type parent.
func WithParent[P any](parent *Type) Option[P] {
	return func(s *settings[P]) {
		s.parent = parent
	}
}

// WithPayloadCodec replaces the canonical payload encoding.
// The codec must be deterministic and DecodePayload must invert EncodePayload.
func WithPayloadCodec[P any](c PayloadCodec[P]) Option[P] {
	return func(s *settings[P]) {
		s.codec = c
	}
}

// WithStringer sets how Value.String renders a payload.
func WithStringer[P any](fn func(P) string) Option[P] {
	return func(s *settings[P]) {
		s.stringer = fn
	}
}

// WithVerifier adds a check every payload must pass before it is represented.
//
// For closed registries a member failing the check panics during discovery;
// for dynamic registries Intern returns ErrInvalidValue.
func WithVerifier[P any](fn func(P) error) Option[P] {
	return func(s *settings[P]) {
		s.verify = fn
	}
}
