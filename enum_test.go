package enum_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum"
)

type (
	dayOfWeek   struct{}
	countryKind struct{}
	number      struct{}
	color       struct{}
	counted     struct{}
	flaky       struct{}
	conflict    struct{}
	tag         struct{}
	label       struct{}
	circle      struct{}
	square      struct{}
	percent     struct{}
	list        struct{}
	rejecting   struct{}
	letter      struct{}
)

// Day is one day of the week.
type Day = *enum.Value[dayOfWeek, string]

var DaysOfWeek = enum.NewNamed[dayOfWeek](
	"DayOfWeek",
	[]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
)

var (
	Monday = DaysOfWeek.Must("Monday")
	Sunday = DaysOfWeek.Must("Sunday")
)

type Country struct {
	Name       string
	Population int
	Area       int
}

func (c Country) Density() float64 { return float64(c.Population) / float64(c.Area) }

var Countries = enum.NewDynamic[countryKind, Country]("Country")

var Numbers = enum.NewOrdinal[number]("Numbers", 1, []string{"One", "Two", "Three", "Four", "Five", "Five"})

var Letters = enum.NewNamed[letter]("Letter", []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"})

var Colors = enum.NewStrict[color]("Color", []enum.Member[string]{
	enum.Const("Red", "red"),
	enum.Const("Crimson", "red"),
	enum.Const("Blue", "blue"),
})

var constructed atomic.Int32

var Counted = enum.NewStrict[counted]("Counted", []enum.Member[int]{
	{Name: "A", New: func() int { constructed.Add(1); return 1 }},
	{Name: "B", New: func() int { constructed.Add(1); return 2 }},
})

var (
	flakyCalls atomic.Int32
	failing    atomic.Bool
)

var Flaky = enum.NewStrict[flaky]("Flaky", []enum.Member[string]{
	{Name: "Fine", New: func() string { flakyCalls.Add(1); return "fine" }},
	{Name: "Flaky", New: func() string {
		if failing.Load() {
			panic(errors.New("constructor failed"))
		}
		return "flaky"
	}},
})

var Conflict = enum.NewStrict[conflict]("Conflict", []enum.Member[int]{
	enum.Const("A", 1),
	enum.Const("A", 2),
})

var Rejecting = enum.NewStrict[rejecting]("Rejecting", []enum.Member[int]{enum.Const("Big", 1000)}, enum.WithVerifier(func(p int) error {
	if p > 100 {
		return fmt.Errorf("%d is over 100", p)
	}
	return nil
}))

var (
	Tags   = enum.NewDynamic[tag, string]("Tag")
	Labels = enum.NewDynamic[label, string]("Label")
)

var (
	Shapes  = enum.Abstract("Shapes", nil)
	Circles = enum.NewDynamic[circle, float64]("Shapes::Circle", enum.WithParent[float64](Shapes))
	Squares = enum.NewOrdinal[square]("Shapes::Square", 0, []string{"Small", "Large"}, enum.WithParent[int](Shapes))
)

var Percents = enum.NewDynamic[percent, int](
	"Percent",
	enum.WithVerifier(func(p int) error {
		if p < 0 || p > 100 {
			return fmt.Errorf("%d is out of range", p)
		}
		return nil
	}),
	enum.WithStringer(func(p int) string { return fmt.Sprintf("%d%%", p) }),
)

var Lists = enum.NewDynamic[list, []string]("List")

// recovered runs fn, which must panic with an error, and returns that error.
func recovered(t *testing.T, fn func()) (err error) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r)

		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "panicked with %v", r)
	}()

	fn()
	return nil
}
