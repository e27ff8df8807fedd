package emit

import "strings"

// Document holds the output sections in their fixed order. Source order is
// preserved inside the declaration section only; re-exports and the
// default export always trail regardless of where they appeared.
type Document struct {
	Imports           []string
	TypeOnlyReExports []string
	Declarations      []string
	ValueReExports    []string
	DefaultExport     string
}

func (d *Document) Render() string {
	var b strings.Builder

	if len(d.Imports) > 0 {
		for _, line := range d.Imports {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	for _, line := range d.TypeOnlyReExports {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, decl := range d.Declarations {
		b.WriteString(decl)
		b.WriteByte('\n')
	}
	for _, line := range d.ValueReExports {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if d.DefaultExport != "" {
		b.WriteString(d.DefaultExport)
		b.WriteByte('\n')
	}
	return b.String()
}
