package gen

import (
	"strconv"
	"text/template"
)

var funcs = template.FuncMap{
	"quote": strconv.Quote,
}

var fileTmpl = template.Must(template.New("file").Funcs(funcs).Parse(`// Code generated by enumgen{{ with .Source }} from {{ . }}{{ end }}; DO NOT EDIT.

package {{ .Package }}

import "github.com/xy-planning-network/enum"
{{ range .Types }}{{ $t := . }}
{{ if .Abstract }}
// {{ .Ident }} groups the types declared beneath {{ .Name }}.
var {{ .Ident }} = enum.Abstract({{ quote .Name }}, {{ or .Parent "nil" }})
{{ else }}
type {{ .Kind }} struct{}

// A {{ .Ident }} is one value of the {{ .Policy }} type {{ .Name }}.
type {{ .Ident }} = *enum.Value[{{ .Kind }}, {{ .Payload }}]

// {{ .Registry }} holds every {{ .Ident }}.
{{- if eq .Policy.String "dynamic" }}
var {{ .Registry }} = enum.NewDynamic[{{ .Kind }}, {{ .Payload }}]({{ quote .Name }}{{ .Opts }})
{{- else if eq .Policy.String "ordinal" }}
var {{ .Registry }} = enum.NewOrdinal[{{ .Kind }}]({{ quote .Name }}, {{ .Base }}, []string{
{{- range .Members }}
	{{ quote .Name }},
{{- end }}
}{{ .Opts }})
{{- else if .Values }}
var {{ .Registry }} = enum.NewStrict[{{ .Kind }}, {{ .Payload }}]({{ quote .Name }}, []enum.Member[{{ .Payload }}]{
{{- range .Members }}
	enum.Const({{ quote .Name }}, {{ .Value }}),
{{- end }}
}{{ .Opts }})
{{- else }}
var {{ .Registry }} = enum.NewNamed[{{ .Kind }}]({{ quote .Name }}, []string{
{{- range .Members }}
	{{ quote .Name }},
{{- end }}
}{{ .Opts }})
{{- end }}
{{ with .Idents }}
var (
{{- range . }}
	{{ .Ident }} = {{ $t.Registry }}.Must({{ quote .Name }})
{{- end }}
)
{{ end }}
{{- end }}
{{- end }}
`))
