package enum_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum"
)

type orphan struct{}

type schedule struct {
	Day  enum.Ref[dayOfWeek, string] `json:"day"`
	Tags []enum.Ref[tag, string]     `json:"tags"`
}

func TestRefJSON(t *testing.T) {
	// Arrange
	newTag := Tags.MustIntern("ref-json")
	in := schedule{Day: enum.RefOf(Monday), Tags: []enum.Ref[tag, string]{enum.RefOf(newTag)}}

	// Act
	b, err := json.Marshal(in)

	// Assert
	require.Nil(t, err)
	require.JSONEq(t, `{"day":"DayOfWeek::{s:6:\"Monday\";}","tags":["Tag::{s:8:\"ref-json\";}"]}`, string(b))

	// Arrange
	var out schedule

	// Act
	err = json.Unmarshal(b, &out)

	// Assert
	require.Nil(t, err)
	require.Same(t, Monday, out.Day.V)
	require.Same(t, newTag, out.Tags[0].V)
}

func TestRefJSONDynamicInterns(t *testing.T) {
	// Arrange
	var out schedule

	// Act
	err := json.Unmarshal([]byte(`{"tags":["Tag::{s:8:\"ref-new1\";}"]}`), &out)

	// Assert
	require.Nil(t, err)
	v, ok := Tags.FromValue("ref-new1")
	require.True(t, ok)
	require.Same(t, v, out.Tags[0].V)
}

func TestRefUnmarshalText(t *testing.T) {
	// Arrange
	r := enum.RefOf(Monday)

	// Act
	err := r.UnmarshalText(nil)

	// Assert
	require.Nil(t, err)
	require.Nil(t, r.V)

	// Arrange
	var o enum.Ref[orphan, string]

	// Act
	err = o.UnmarshalText([]byte(Monday.Token()))

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidArgument)

	// Arrange
	var c enum.Ref[color, string]

	// Act
	err = c.UnmarshalText([]byte(Monday.Token()))

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidArgument)
	require.Nil(t, c.V)

	// Arrange
	var d enum.Ref[dayOfWeek, string]

	// Act
	err = d.UnmarshalText([]byte(`DayOfWeek::{s:7:"Someday";}`))

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidValue)
}

func TestRefSQL(t *testing.T) {
	// Arrange
	var r enum.Ref[dayOfWeek, string]

	// Act
	v, err := r.Value()

	// Assert
	require.Nil(t, err)
	require.Nil(t, v)
	require.Equal(t, "", r.String())
	require.ErrorIs(t, r.Valid(), enum.ErrInvalidValue)

	// Act
	err = r.Scan(Sunday.Token())

	// Assert
	require.Nil(t, err)
	require.Same(t, Sunday, r.V)
	require.Nil(t, r.Valid())
	require.Equal(t, "Sunday", r.String())

	// Act
	v, err = r.Value()

	// Assert
	require.Nil(t, err)
	require.Equal(t, Sunday.Token(), v)

	// Act
	err = r.Scan([]byte(Monday.Token()))

	// Assert
	require.Nil(t, err)
	require.Same(t, Monday, r.V)

	// Act
	err = r.Scan(nil)

	// Assert
	require.Nil(t, err)
	require.Nil(t, r.V)

	// Act
	err = r.Scan(42)

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidArgument)
}

func TestValueCannotBeRestoredInPlace(t *testing.T) {
	// Arrange
	v := DaysOfWeek.Must("Friday")

	// Act & Assert
	require.ErrorIs(t, v.UnmarshalText([]byte(Monday.Token())), enum.ErrInvalidOperation)
	require.ErrorIs(t, v.UnmarshalJSON([]byte(`"x"`)), enum.ErrInvalidOperation)
	require.ErrorIs(t, v.GobDecode(nil), enum.ErrInvalidOperation)
	require.Equal(t, "Friday", v.Name())

	// Arrange
	var target *enum.Value[dayOfWeek, string]

	// Act
	err := json.Unmarshal([]byte(`"x"`), &target)

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidOperation)
}

func TestDetachedCopy(t *testing.T) {
	// Arrange
	detached := *Monday

	// Act
	_, err := detached.MarshalText()

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidOperation)
	require.ErrorIs(t, detached.Valid(), enum.ErrInvalidOperation)
	require.Nil(t, Monday.Valid())

	// Act
	_, err = enum.RefOf(&detached).MarshalText()

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidOperation)

	// Act
	_, err = json.Marshal(schedule{Day: enum.RefOf(&detached)})

	// Assert
	require.ErrorIs(t, err, enum.ErrInvalidOperation)

	// Arrange
	var zero enum.Value[dayOfWeek, string]

	// Act & Assert
	require.ErrorIs(t, zero.Valid(), enum.ErrInvalidOperation)
}
