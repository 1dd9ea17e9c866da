package gen

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"
	"unicode"

	"github.com/xy-planning-network/enum"
	"gopkg.in/yaml.v3"
)

// ErrBadManifest flags manifests that cannot be turned into declarations.
var ErrBadManifest = errors.New("bad manifest")

// A Manifest declares the enumeration types of one Go package.
//
//	package: cards
//	types:
//	  - name: Cards::Kind
//	    abstract: true
//	  - name: Cards::Kind::Suit
//	    parent: Cards::Kind
//	    members: [Clubs, Diamonds, Hearts, Spades]
//	  - name: Cards::Rank
//	    policy: ordinal
//	    base: 2
//	    members: [Two, Three, Four]
//	  - name: Cards::Tag
//	    policy: dynamic
//	    payload: string
type Manifest struct {
	Package string     `yaml:"package"`
	Types   []TypeDecl `yaml:"types"`
}

// A TypeDecl declares one Type.
//
// Closed types list their members by name.
// A strict type whose members are given as Values maps each name to a payload literal
// of the Payload Go type; otherwise each member's payload is its name.
type TypeDecl struct {
	Name     string      `yaml:"name"`
	Abstract bool        `yaml:"abstract"`
	Parent   string      `yaml:"parent"`
	Policy   enum.Policy `yaml:"policy"`
	Payload  string      `yaml:"payload"`
	Base     int         `yaml:"base"`
	Members  []string    `yaml:"members"`
	Values   []ValueDecl `yaml:"values"`

	// Ident overrides the Go identifier derived from the last segment of Name.
	Ident string `yaml:"ident"`
}

// A ValueDecl pairs a member name with the Go literal of its payload.
type ValueDecl struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ParseManifest reads and checks a YAML manifest.
// Types without a policy are strict.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	m := new(Manifest)
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadManifest, err)
	}

	for i := range m.Types {
		if m.Types[i].Policy == enum.PolicyUnk && !m.Types[i].Abstract {
			m.Types[i].Policy = enum.PolicyStrict
		}
	}

	if err := m.Check(); err != nil {
		return nil, err
	}

	return m, nil
}

// Check asserts every TypeDecl can be declared, in order, by the generated code.
func (m *Manifest) Check() error {
	if !token.IsIdentifier(m.Package) {
		return fmt.Errorf("%w: package %q is not a Go identifier", ErrBadManifest, m.Package)
	}

	if len(m.Types) == 0 {
		return fmt.Errorf("%w: no types declared", ErrBadManifest)
	}

	abstract := make(map[string]bool)
	idents := make(map[string]string)
	for _, t := range m.Types {
		if _, ok := abstract[t.Name]; ok {
			return fmt.Errorf("%w: %s declared twice", ErrBadManifest, t.Name)
		}

		if err := t.check(abstract); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrBadManifest, t.Name, err)
		}

		for _, id := range t.idents() {
			if prev, ok := idents[id]; ok {
				return fmt.Errorf("%w: %s: identifier %s already declared by %s", ErrBadManifest, t.Name, id, prev)
			}
			idents[id] = t.Name
		}

		abstract[t.Name] = t.Abstract
	}

	return nil
}

func (t TypeDecl) check(declared map[string]bool) error {
	if t.Name == "" || strings.HasPrefix(t.Name, "::") || strings.HasSuffix(t.Name, "::") {
		return errors.New("malformed name")
	}

	if strings.ContainsAny(t.Name, "{} \t\n") {
		return errors.New("name contains a reserved character")
	}

	if !token.IsIdentifier(t.ident()) {
		return fmt.Errorf("cannot derive a Go identifier, set ident")
	}

	if t.Parent != "" && !declared[t.Parent] {
		return fmt.Errorf("parent %s is not an abstract type declared before it", t.Parent)
	}

	if t.Abstract {
		if len(t.Members) > 0 || len(t.Values) > 0 || t.Policy != enum.PolicyUnk {
			return errors.New("abstract types have no policy or members")
		}

		return nil
	}

	if t.Policy.Closed() && len(t.Members) == 0 && len(t.Values) == 0 {
		return fmt.Errorf("%s types need members", t.Policy)
	}

	for _, name := range t.names() {
		if name == "" || strings.Contains(name, "::") || strings.ContainsAny(name, "{}") {
			return fmt.Errorf("malformed member name %q", name)
		}
	}

	switch t.Policy {
	case enum.PolicyDynamic:
		if t.Payload == "" {
			return errors.New("dynamic types need a payload type")
		}

		if len(t.Members) > 0 || len(t.Values) > 0 {
			return errors.New("dynamic types have no members")
		}

	case enum.PolicyOrdinal:
		if len(t.Values) > 0 || (t.Payload != "" && t.Payload != "int") {
			return errors.New("ordinal types take members only")
		}

	case enum.PolicyStrict:
		seen := make(map[string]bool)
		for _, v := range t.Values {
			if seen[v.Name] {
				return fmt.Errorf("member %s given two values", v.Name)
			}
			seen[v.Name] = true

			if v.Value == "" {
				return fmt.Errorf("member %s has no value", v.Name)
			}
		}

		if len(t.Values) > 0 && len(t.Members) > 0 {
			return errors.New("set members or values, not both")
		}

		if len(t.Values) > 0 && t.Payload == "" {
			return errors.New("values need a payload type")
		}

		if len(t.Values) == 0 && t.Payload != "" && t.Payload != "string" {
			return errors.New("named members have string payloads")
		}
	}

	return nil
}

// ident is the exported Go identifier of the Type's values.
func (t TypeDecl) ident() string {
	if t.Ident != "" {
		return t.Ident
	}

	segs := strings.Split(t.Name, "::")
	return Identifier(segs[len(segs)-1])
}

// kind is the unexported Go identifier of the Type's phantom kind.
func (t TypeDecl) kind() string {
	id := []rune(t.ident())
	id[0] = unicode.ToLower(id[0])

	return string(id) + "Kind"
}

// registry is the exported Go identifier of the Type's Registry.
func (t TypeDecl) registry() string {
	id := t.ident()
	if strings.HasSuffix(id, "s") {
		return id + "Registry"
	}

	return id + "s"
}

func (t TypeDecl) names() []string {
	if len(t.Values) == 0 {
		return t.Members
	}

	names := make([]string, 0, len(t.Values))
	for _, v := range t.Values {
		names = append(names, v.Name)
	}

	return names
}

func (t TypeDecl) idents() []string {
	if t.Abstract {
		return []string{t.ident()}
	}

	ids := []string{t.ident(), t.kind(), t.registry()}
	seen := make(map[string]bool)
	for _, name := range t.names() {
		if !seen[name] {
			ids = append(ids, t.member(name))
			seen[name] = true
		}
	}

	return ids
}

// member is the exported Go identifier of the value declared under name.
func (t TypeDecl) member(name string) string { return t.ident() + Identifier(name) }

// Identifier converts name into the parts of an exported Go identifier,
// dropping characters Go identifiers cannot hold and capitalizing each word.
func Identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
