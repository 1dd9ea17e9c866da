package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/postgres"
)

type (
	suit     struct{}
	tag      struct{}
	orphan   struct{}
	suitCol  = postgres.Column[suit, string]
	orphaned = postgres.Column[orphan, string]
)

var (
	Suits  = enum.NewNamed[suit]("Pg::Suit", []string{"Clubs", "Hearts"})
	Clubs  = Suits.Must("Clubs")
	Hearts = Suits.Must("Hearts")

	Tags = enum.NewDynamic[tag, string]("Pg::Tag")
)

func TestColumnScan(t *testing.T) {
	tcs := []struct {
		name     string
		src      any
		expected *enum.Value[suit, string]
		err      error
	}{
		{"Nil", nil, nil, nil},
		{"String", "Clubs", Clubs, nil},
		{"Bytes", []byte("Hearts"), Hearts, nil},
		{"Unknown-Label", "Joker", nil, postgres.ErrUnknownLabel},
		{"Bad-Type", 1, nil, postgres.ErrUnexpected},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c := suitCol{V: Clubs}
			if tc.err == nil {
				c.V = nil
			}

			// Act
			err := c.Scan(tc.src)

			// Assert
			require.ErrorIs(t, err, tc.err)
			if tc.err == nil {
				require.Same(t, tc.expected, c.V)
			}
		})
	}
}

func TestColumnScanOrphan(t *testing.T) {
	// Arrange
	var c orphaned

	// Act
	err := c.Scan("Clubs")

	// Assert
	require.ErrorIs(t, err, postgres.ErrUnexpected)
}

func TestColumnValue(t *testing.T) {
	// Act
	v, err := suitCol{V: Hearts}.Value()

	// Assert
	require.Nil(t, err)
	require.Equal(t, "Hearts", v)

	// Act
	v, err = suitCol{}.Value()

	// Assert
	require.Nil(t, err)
	require.Nil(t, v)

	// Act
	_, err = postgres.Column[tag, string]{V: Tags.MustIntern("loose")}.Value()

	// Assert
	require.ErrorIs(t, err, postgres.ErrNotClosed)

	// Arrange
	detached := *Clubs

	// Act
	_, err = suitCol{V: &detached}.Value()

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidOperation)
}

func TestColumnGormDBDataType(t *testing.T) {
	// Act & Assert
	require.Equal(t, "pg_suit", suitCol{}.GormDBDataType(nil, nil))
	require.Equal(t, "", orphaned{}.GormDBDataType(nil, nil))
}
