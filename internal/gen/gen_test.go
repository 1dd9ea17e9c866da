package gen_test

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/internal/gen"
)

const cards = `
package: cards
types:
  - name: Cards::Kind
    abstract: true
  - name: Cards::Kind::Suit
    parent: Cards::Kind
    members: [Clubs, Diamonds, Hearts, Spades]
  - name: Cards::Rank
    policy: ordinal
    base: 2
    members: [Two, Three, Four, Four]
  - name: Cards::Tag
    policy: dynamic
    payload: string
  - name: Cards::Color
    payload: int
    values:
      - name: red
        value: "1"
      - name: dark blue
        value: "2"
  - name: Cards::Face
    payload: string
    values:
      - name: Jack
        value: J
`

func TestParseManifest(t *testing.T) {
	// Act
	m, err := gen.ParseManifest(strings.NewReader(cards))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "cards", m.Package)
	require.Len(t, m.Types, 6)
	require.True(t, m.Types[0].Abstract)
	require.Equal(t, enum.PolicyUnk, m.Types[0].Policy)
	require.Equal(t, enum.PolicyStrict, m.Types[1].Policy)
	require.Equal(t, enum.PolicyOrdinal, m.Types[2].Policy)
	require.Equal(t, 2, m.Types[2].Base)
	require.Equal(t, enum.PolicyDynamic, m.Types[3].Policy)
	require.Equal(t, []gen.ValueDecl{{Name: "red", Value: "1"}, {Name: "dark blue", Value: "2"}}, m.Types[4].Values)
}

func TestParseManifestErrors(t *testing.T) {
	tcs := []struct {
		name     string
		manifest string
	}{
		{"Not-YAML", "package: [cards"},
		{"Unknown-Field", "package: cards\ncolor: red\ntypes: [{name: A, members: [B]}]"},
		{"Bad-Package", "package: card-s\ntypes: [{name: A, members: [B]}]"},
		{"No-Types", "package: cards"},
		{"Bad-Policy", "package: cards\ntypes: [{name: A, policy: loose, members: [B]}]"},
		{"Bad-Name", "package: cards\ntypes: [{name: 'A::', members: [B]}]"},
		{"Braces", "package: cards\ntypes: [{name: 'A{}', members: [B]}]"},
		{"No-Ident", "package: cards\ntypes: [{name: '9', members: [B]}]"},
		{"Undeclared-Parent", "package: cards\ntypes: [{name: A, parent: P, members: [B]}]"},
		{"Concrete-Parent", "package: cards\ntypes: [{name: P, members: [B]}, {name: A, parent: P, members: [B]}]"},
		{"Abstract-Members", "package: cards\ntypes: [{name: A, abstract: true, members: [B]}]"},
		{"No-Members", "package: cards\ntypes: [{name: A}]"},
		{"Bad-Member", "package: cards\ntypes: [{name: A, members: ['B::C']}]"},
		{"Dynamic-Without-Payload", "package: cards\ntypes: [{name: A, policy: dynamic}]"},
		{"Dynamic-Members", "package: cards\ntypes: [{name: A, policy: dynamic, payload: string, members: [B]}]"},
		{"Ordinal-Values", "package: cards\ntypes: [{name: A, policy: ordinal, values: [{name: B, value: '1'}]}]"},
		{"Values-Without-Payload", "package: cards\ntypes: [{name: A, values: [{name: B, value: '1'}]}]"},
		{"Members-And-Values", "package: cards\ntypes: [{name: A, payload: int, members: [C], values: [{name: B, value: '1'}]}]"},
		{"Named-Int", "package: cards\ntypes: [{name: A, payload: int, members: [B]}]"},
		{"Duplicate-Value", "package: cards\ntypes: [{name: A, payload: int, values: [{name: B, value: '1'}, {name: B, value: '2'}]}]"},
		{"Empty-Value", "package: cards\ntypes: [{name: A, payload: int, values: [{name: B}]}]"},
		{"Duplicate-Type", "package: cards\ntypes: [{name: A, members: [B]}, {name: A, members: [B]}]"},
		{"Colliding-Idents", "package: cards\ntypes: [{name: X::A, members: [B]}, {name: Y::A, members: [B]}]"},
		{"Colliding-Members", "package: cards\ntypes: [{name: A, members: ['b c', 'bC']}]"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			_, err := gen.ParseManifest(strings.NewReader(tc.manifest))

			// Assert
			require.ErrorIs(t, err, gen.ErrBadManifest)
		})
	}
}

func TestGenerate(t *testing.T) {
	// Arrange
	m, err := gen.ParseManifest(strings.NewReader(cards))
	require.Nil(t, err)

	// Act
	src, err := gen.Generate(m, "cards.yaml")

	// Assert
	require.Nil(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "cards_enum.go", src, parser.AllErrors)
	require.Nil(t, err)

	actual := string(src)
	for _, expected := range []string{
		"// Code generated by enumgen from cards.yaml; DO NOT EDIT.\n",
		"package cards\n",
		`import "github.com/xy-planning-network/enum"`,
		`var Kind = enum.Abstract("Cards::Kind", nil)`,
		"type suitKind struct{}",
		"type Suit = *enum.Value[suitKind, string]",
		`var Suits = enum.NewNamed[suitKind]("Cards::Kind::Suit", []string{`,
		"}, enum.WithParent[string](Kind))",
		`SuitHearts   = Suits.Must("Hearts")`,
		`var Ranks = enum.NewOrdinal[rankKind]("Cards::Rank", 2, []string{`,
		`RankFour  = Ranks.Must("Four")`,
		`var Tags = enum.NewDynamic[tagKind, string]("Cards::Tag")`,
		`var Colors = enum.NewStrict[colorKind, int]("Cards::Color", []enum.Member[int]{`,
		`enum.Const("dark blue", 2),`,
		`ColorDarkBlue = Colors.Must("dark blue")`,
		`enum.Const("Jack", "J"),`,
	} {
		require.Contains(t, actual, expected)
	}

	require.Equal(t, 1, strings.Count(actual, `RankFour `))
	require.NotContains(t, actual, "TagKind")
}

func TestGenerateBadPayload(t *testing.T) {
	// Arrange
	m := &gen.Manifest{
		Package: "cards",
		Types: []gen.TypeDecl{{
			Name:    "Cards::Color",
			Policy:  enum.PolicyStrict,
			Payload: "int",
			Values:  []gen.ValueDecl{{Name: "red", Value: "1 +"}},
		}},
	}

	// Act
	_, err := gen.Generate(m, "")

	// Assert
	require.ErrorIs(t, err, gen.ErrBadManifest)
}

func TestIdentifier(t *testing.T) {
	tcs := []struct {
		name     string
		expected string
	}{
		{"hearts", "Hearts"},
		{"dark blue", "DarkBlue"},
		{"north-east_by-north", "NorthEastByNorth"},
		{"ALREADY", "ALREADY"},
		{"5", "5"},
		{"::", ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, gen.Identifier(tc.name))
		})
	}
}
