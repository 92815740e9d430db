package gen

import "text/template"

// fileTemplate is the skeleton of a generated file. The declarations are
// pre-rendered; the template only lays out the header, package clause and
// import block. Its output is already gofmt-clean so formatting is a
// verification step, not a repair step.
var fileTemplate = template.Must(template.New("expunge_file").Parse(
	`{{.Header}}

package {{.PackageName}}

{{if .Imports}}import (
{{range .Imports}}{{if .Blank}}
{{else}}	"{{.Path}}"
{{end}}{{end}})

{{end}}{{range $i, $d := .Decls}}{{if $i}}
{{end}}{{$d}}
{{end}}`))
