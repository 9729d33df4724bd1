// Command gen writes props/record_generated.go, the Record1..RecordN family.
//
//	go run ./internal/gen -n 8 -o props/record_generated.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

const header = `// Code generated by propsync/internal/gen; DO NOT EDIT.

package props

import "github.com/drpcorg/propsync/bitstream"
`

var recordTemplate = template.Must(template.New("record").Parse(`
// Record{{.N}} is a change-tracked record of {{.N}} typed field{{if gt .N 1}}s{{end}}.
type Record{{.N}}[{{.TypeParams}} any] struct {
	Tracker
	schema *Schema
{{- range .Fields}}
	c{{.}} Codec[T{{.}}]
{{- end}}
}

// NewRecord{{.N}} makes a Record{{.N}} over the given codecs; the schema is
// named name.
func NewRecord{{.N}}[{{.TypeParams}} any](name string, {{.CodecParams}}) *Record{{.N}}[{{.TypeParams}}] {
	return &Record{{.N}}[{{.TypeParams}}]{
		Tracker: NewTracker({{.N}}),
		schema: MustSchema(name, {{.Kinds}}),
{{- range .Fields}}
		c{{.}}: c{{.}},
{{- end}}
	}
}

func (r *Record{{.N}}[{{.TypeParams}}]) Schema() *Schema {
	return r.schema
}

func (r *Record{{.N}}[{{.TypeParams}}]) WriteSnapshot(w *bitstream.Writer, {{.ValueParams}}) {
{{- range .Fields}}
	writeChange(true, w, true, r.c{{.}}, v{{.}})
{{- end}}
}

func (r *Record{{.N}}[{{.TypeParams}}]) WriteDelta(forceAll bool, w *bitstream.Writer, {{.ValueParams}}) bool {
	if !forceAll && !r.Any() {
		return false
	}
	changed := r.Changed()
{{- range .Fields}}
	writeChange(forceAll, w, changed.Has({{.}}), r.c{{.}}, v{{.}})
{{- end}}
	r.Clear()
	return true
}

func (r *Record{{.N}}[{{.TypeParams}}]) ReadSnapshot(rd *bitstream.Reader, {{.PointerParams}}) error {
{{- range .Fields}}
	if _, err := readChange(true, rd, r.c{{.}}, v{{.}}); err != nil {
		return fieldError({{.}}, r.c{{.}}.Kind(), err)
	}
{{- end}}
	return nil
}

func (r *Record{{.N}}[{{.TypeParams}}]) ReadDelta(rd *bitstream.Reader, forceAll bool, {{.PointerParams}}) (changes Mask, err error) {
	var ok bool
{{- range .Fields}}
	if ok, err = readChange(forceAll, rd, r.c{{.}}, v{{.}}); err != nil {
		return changes, fieldError({{.}}, r.c{{.}}.Kind(), err)
	} else if ok {
		changes.Set({{.}})
	}
{{- end}}
	return
}
`))

type arity struct {
	N      int
	Fields []int
}

func (a arity) join(f func(i int) string) string {
	parts := make([]string, 0, a.N)
	for _, i := range a.Fields {
		parts = append(parts, f(i))
	}
	return strings.Join(parts, ", ")
}

func (a arity) TypeParams() string {
	return a.join(func(i int) string { return fmt.Sprintf("T%d", i) })
}

func (a arity) CodecParams() string {
	return a.join(func(i int) string { return fmt.Sprintf("c%d Codec[T%d]", i, i) })
}

func (a arity) ValueParams() string {
	return a.join(func(i int) string { return fmt.Sprintf("v%d T%d", i, i) })
}

func (a arity) PointerParams() string {
	return a.join(func(i int) string { return fmt.Sprintf("v%d *T%d", i, i) })
}

func (a arity) Kinds() string {
	return a.join(func(i int) string { return fmt.Sprintf("c%d.Kind()", i) })
}

func main() {
	n := flag.Int("n", 8, "largest arity")
	out := flag.String("o", "record_generated.go", "output file")
	flag.Parse()

	if *n < 1 || *n > 32 {
		fmt.Fprintln(os.Stderr, "gen: arity must be 1..32")
		os.Exit(2)
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	for k := 1; k <= *n; k++ {
		a := arity{N: k}
		for i := 0; i < k; i++ {
			a.Fields = append(a.Fields, i)
		}
		if err := recordTemplate.Execute(&buf, a); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	src, err := imports.Process(*out, buf.Bytes(), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
