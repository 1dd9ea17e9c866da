package postgres

import (
	"errors"
	"regexp"
)

var (
	ErrNotClosed    = errors.New("enumeration type is not closed")
	ErrUnexpected   = errors.New("unexpected")
	ErrUnknownLabel = errors.New("unknown enum label")
)

// errInvalidText is raised for a label outside an ENUM type, among other bad input.
//
// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
var errInvalidText = regexp.MustCompile(`SQLSTATE 22P02`)

// classify maps a database error onto the sentinel errors of this package.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errInvalidText.MatchString(err.Error()):
		return ErrUnknownLabel
	default:
		return ErrUnexpected
	}
}
