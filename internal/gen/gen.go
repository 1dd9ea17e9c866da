package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"

	"github.com/xy-planning-network/enum"
)

type memberView struct {
	Ident string
	Name  string
	Value string
}

type typeView struct {
	Abstract bool
	Base     int
	Ident    string
	Idents   []memberView
	Kind     string
	Members  []memberView
	Name     string
	Opts     string
	Parent   string
	Payload  string
	Policy   enum.Policy
	Registry string
	Values   bool
}

type fileView struct {
	Package string
	Source  string
	Types   []typeView
}

// Generate renders the Go source declaring every type of m.
// source names the manifest in the generated header and may be empty.
//
// The source is gofmt-ed; Generate returns ErrBadManifest when payload types
// or values of m are not valid Go.
func Generate(m *Manifest, source string) ([]byte, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}

	idents := make(map[string]string, len(m.Types))
	fv := fileView{Package: m.Package, Source: source}
	for _, t := range m.Types {
		idents[t.Name] = t.ident()
		fv.Types = append(fv.Types, view(t, idents))
	}

	b := new(bytes.Buffer)
	if err := fileTmpl.Execute(b, fv); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", source, err)
	}

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: generated code does not parse: %s", ErrBadManifest, err)
	}

	return out, nil
}

func view(t TypeDecl, idents map[string]string) typeView {
	v := typeView{
		Abstract: t.Abstract,
		Base:     t.Base,
		Ident:    t.ident(),
		Name:     t.Name,
		Parent:   idents[t.Parent],
		Policy:   t.Policy,
		Values:   len(t.Values) > 0,
	}

	if t.Abstract {
		return v
	}

	v.Kind = t.kind()
	v.Registry = t.registry()

	switch {
	case t.Policy == enum.PolicyOrdinal:
		v.Payload = "int"
	case t.Payload != "":
		v.Payload = t.Payload
	default:
		v.Payload = "string"
	}

	if len(t.Values) > 0 {
		for _, val := range t.Values {
			lit := val.Value
			if v.Payload == "string" {
				lit = strconv.Quote(lit)
			}
			v.Members = append(v.Members, memberView{Name: val.Name, Value: lit})
		}
	} else {
		for _, name := range t.Members {
			v.Members = append(v.Members, memberView{Name: name})
		}
	}

	seen := make(map[string]bool)
	for _, name := range t.names() {
		if !seen[name] {
			v.Idents = append(v.Idents, memberView{Ident: t.member(name), Name: name})
			seen[name] = true
		}
	}

	var opts []string
	if v.Parent != "" {
		opts = append(opts, fmt.Sprintf("enum.WithParent[%s](%s)", v.Payload, v.Parent))
	}

	if len(opts) > 0 {
		v.Opts = ", " + strings.Join(opts, ", ")
	}

	return v
}
