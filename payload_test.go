package enum_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum"
)

type person struct {
	Name   string `enum:"n"`
	Skip   int    `enum:"-"`
	hidden int    `enum:"-"`
	Age    int
	Born   time.Time
}

func TestMarshalPayload(t *testing.T) {
	seven := 7
	var none *int

	tcs := []struct {
		name     string
		in       any
		expected string
	}{
		{"Nil", nil, "N;"},
		{"True", true, "b:1;"},
		{"False", false, "b:0;"},
		{"Int", -42, "i:-42;"},
		{"Uint8", uint8(200), "i:200;"},
		{"Float", 3.035, "d:3.035;"},
		{"Negative-Zero", math.Copysign(0, -1), "d:0;"},
		{"Float32", float32(0.1), "d:0.1;"},
		{"Exponent", 1e21, "d:1e+21;"},
		{"NaN", math.NaN(), "d:NAN;"},
		{"String", "Monday", `s:6:"Monday";`},
		{"Multibyte", "é", `s:2:"é";`},
		{"Bytes", []byte("ab"), `s:2:"ab";`},
		{"Slice", []string{"a", "b"}, `a:2:{i:0;s:1:"a";i:1;s:1:"b";}`},
		{"Array", [2]int{1, 2}, "a:2:{i:0;i:1;i:1;i:2;}"},
		{"Map-Sorted", map[string]int{"b": 2, "a": 1}, `a:2:{s:1:"a";i:1;s:1:"b";i:2;}`},
		{"Int-Keys", map[int]bool{2: true, -1: false}, "a:2:{i:-1;b:0;i:2;b:1;}"},
		{"Pointer", &seven, "i:7;"},
		{"Nil-Pointer", none, "N;"},
		{"Time", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), `s:20:"2020-01-02T03:04:05Z";`},
		{
			"Struct",
			person{Name: "Bob", Skip: 1, hidden: 2, Age: 3, Born: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
			`a:3:{s:1:"n";s:3:"Bob";s:3:"Age";i:3;s:4:"Born";s:20:"2020-01-02T03:04:05Z";}`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := enum.MarshalPayload(tc.in)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestMarshalPayloadErrors(t *testing.T) {
	tcs := []struct {
		name string
		in   any
	}{
		{"Chan", make(chan int)},
		{"Func", func() {}},
		{"Complex", complex(1, 2)},
		{"Float-Keys", map[float64]int{1: 1}},
		{"Nested", []any{1, make(chan int)}},
		{"Unexported-Field", struct{ secret int }{1}},
		{"Unexported-Nested", []any{struct {
			Open   int
			closed int
		}{1, 2}}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := enum.MarshalPayload(tc.in)

			// Assert
			require.ErrorIs(t, err, enum.ErrInvalidArgument)
		})
	}
}

func TestUnmarshalPayloadGeneric(t *testing.T) {
	tcs := []struct {
		name     string
		in       string
		expected any
	}{
		{"Nil", "N;", nil},
		{"Int", "i:5;", int64(5)},
		{"Large", "i:18446744073709551615;", uint64(math.MaxUint64)},
		{"Float", "d:1.5;", 1.5},
		{"Sequence", `a:2:{i:0;s:1:"a";i:1;b:1;}`, []any{"a", true}},
		{"Map", `a:1:{s:1:"k";d:1.5;}`, map[string]any{"k": 1.5}},
		{"Sparse", `a:1:{i:1;N;}`, map[string]any{"1": nil}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var actual any

			// Act
			err := enum.UnmarshalPayload(tc.in, &actual)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestUnmarshalPayloadStruct(t *testing.T) {
	// Arrange
	in := person{Name: "Ada", Age: 36, Born: time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)}
	s, err := enum.MarshalPayload(in)
	require.Nil(t, err)

	var actual person

	// Act
	err = enum.UnmarshalPayload(s, &actual)

	// Assert
	require.Nil(t, err)
	require.Equal(t, in.Name, actual.Name)
	require.Equal(t, in.Age, actual.Age)
	require.True(t, in.Born.Equal(actual.Born))
}

func TestUnmarshalPayloadTyped(t *testing.T) {
	// Arrange
	var (
		f  float64
		bs []byte
		ns []int
		m  map[int]string
		p  *string
	)

	// Act & Assert
	require.Nil(t, enum.UnmarshalPayload("d:NAN;", &f))
	require.True(t, math.IsNaN(f))

	require.Nil(t, enum.UnmarshalPayload(`s:2:"ab";`, &bs))
	require.Equal(t, []byte("ab"), bs)

	ns = []int{1}
	require.Nil(t, enum.UnmarshalPayload("N;", &ns))
	require.Nil(t, ns)

	require.Nil(t, enum.UnmarshalPayload(`a:2:{i:2;s:1:"b";i:-1;s:1:"a";}`, &m))
	require.Equal(t, map[int]string{-1: "a", 2: "b"}, m)

	require.Nil(t, enum.UnmarshalPayload(`s:1:"x";`, &p))
	require.Equal(t, "x", *p)
}

func TestUnmarshalPayloadErrors(t *testing.T) {
	deep := strings.Repeat("a:1:{i:0;", 300) + "N;" + strings.Repeat("}", 300)

	tcs := []struct {
		name string
		in   string
		dst  func() any
	}{
		{"Non-Pointer", "i:1;", func() any { return 1 }},
		{"Nil-Pointer", "i:1;", func() any { return (*int)(nil) }},
		{"Trailing-Data", "i:1;N;", func() any { return new(int) }},
		{"Overflow", "i:300;", func() any { return new(int8) }},
		{"Negative-Uint", "i:-1;", func() any { return new(uint) }},
		{"Mismatch", "i:1;", func() any { return new(string) }},
		{"Bad-Bool", "b:2;", func() any { return new(bool) }},
		{"Bad-Integer", "i:1x;", func() any { return new(int) }},
		{"Bad-Float", "d:one;", func() any { return new(float64) }},
		{"Unknown-Tag", "x:1;", func() any { return new(any) }},
		{"Unterminated", "i:1", func() any { return new(int) }},
		{"Hostile-Length", "a:999999:{}", func() any { return new(any) }},
		{"Too-Deep", deep, func() any { return new(any) }},
		{"Sparse-Slice", "a:1:{i:1;i:1;}", func() any { return new([]int) }},
		{"Unknown-Field", `a:1:{s:4:"Nope";i:1;}`, func() any { return new(person) }},
		{"Non-Empty-Interface", "N;", func() any { return new(error) }},
		{"Unexported-Field", "a:0:{}", func() any { return new(struct{ secret int }) }},
		{"Nil-Int", "N;", func() any { return new(int) }},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := enum.UnmarshalPayload(tc.in, tc.dst())

			// Assert
			require.ErrorIs(t, err, enum.ErrInvalidArgument)
		})
	}
}

func TestNormalizePayload(t *testing.T) {
	tcs := []struct {
		name     string
		in       string
		expected string
	}{
		{"Nil", "N;", "N;"},
		{"Bool", "b:1;", "b:1;"},
		{"Leading-Zero", "i:007;", "i:7;"},
		{"Negative-Zero", "i:-0;", "i:0;"},
		{"Float", "d:1.50;", "d:1.5;"},
		{"Float-Negative-Zero", "d:-0.0;", "d:0;"},
		{"String", `s:2:"ab";`, `s:2:"ab";`},
		{"Sequence", "a:2:{i:0;i:1;i:1;i:2;}", "a:2:{i:0;i:1;i:1;i:2;}"},
		{"Integer-Keys", "a:2:{i:10;N;i:2;N;}", "a:2:{i:2;N;i:10;N;}"},
		{"String-Keys", `a:2:{s:1:"b";i:2;s:1:"a";i:1;}`, `a:2:{s:1:"a";i:1;s:1:"b";i:2;}`},
		{"Mixed-Keys", `a:2:{s:1:"x";N;i:5;N;}`, `a:2:{i:5;N;s:1:"x";N;}`},
		{"Nested", `a:1:{s:1:"k";a:2:{i:1;d:2.0;i:0;i:01;}}`, `a:1:{s:1:"k";a:2:{i:0;i:1;i:1;d:2;}}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := enum.NormalizePayload(tc.in)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestNormalizePayloadStructOrder(t *testing.T) {
	// Arrange
	canonical, err := enum.MarshalPayload(person{Name: "Ada", Age: 36})
	require.Nil(t, err)

	reordered := `a:3:{s:4:"Born";s:20:"0001-01-01T00:00:00Z";s:3:"Age";i:036;s:1:"n";s:3:"Ada";}`

	// Act
	expected, err := enum.NormalizePayload(canonical)
	require.Nil(t, err)

	actual, err := enum.NormalizePayload(reordered)

	// Assert
	require.Nil(t, err)
	require.Equal(t, expected, actual)
}

func TestNormalizePayloadErrors(t *testing.T) {
	for _, in := range []string{"", "i:1;N;", "i:1x;", "x:1;", "a:1:{N;N;}", "i:99999999999999999999;"} {
		// Act
		_, err := enum.NormalizePayload(in)

		// Assert
		require.ErrorIs(t, err, enum.ErrInvalidArgument, in)
	}
}
