package cmd

import (
	"bytes"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, quiet bool, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	if !quiet && len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

// unindent formats long help text before it's printed to the console.
// it's helpful to indent multiline strings to make it look nice in the
// code, but you don't want those indents to make their way to the
// console output.
func unindent(str string) string {
	str = strings.TrimSpace(str)
	out := new(bytes.Buffer)
	for _, line := range strings.Split(str, "\n") {
		out.WriteString(strings.TrimSpace(line) + "\n")
	}
	return out.String()
}
