// Package emit converts scanned declarations into canonical declaration
// text: bodies stripped, literal values narrowed to types, imports reduced
// to the bindings the final document actually uses.
package emit

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/imports"
	"github.com/stacksjs/dtsx-sub004/internal/engine/infer"
	"github.com/stacksjs/dtsx-sub004/internal/engine/scanner"
)

type Options struct {
	KeepComments           bool
	PreferredImportSources []string
}

// Emit renders the final declaration document. Import optimization runs
// after the declaration section is fixed, since usage can only be computed
// against the assembled output.
func Emit(decls []scanner.Declaration, opts Options) string {
	doc := &Document{}
	records := make([]imports.Record, 0, 4)

	for _, d := range decls {
		switch d.Kind {
		case scanner.KindImport:
			if rec, ok := imports.Parse(d.Raw); ok {
				records = append(records, rec)
			}
		case scanner.KindExport:
			line := normalizeStatement(d.Raw)
			switch {
			case d.Default:
				doc.DefaultExport = line
			case d.TypeOnly:
				doc.TypeOnlyReExports = append(doc.TypeOnlyReExports, line)
			default:
				doc.ValueReExports = append(doc.ValueReExports, line)
			}
		default:
			if text := emitDeclaration(d, opts); text != "" {
				doc.Declarations = append(doc.Declarations, text)
			}
		}
	}

	usage := strings.Join(doc.Declarations, "\n") + "\n" +
		strings.Join(doc.TypeOnlyReExports, "\n") + "\n" +
		strings.Join(doc.ValueReExports, "\n") + "\n" +
		doc.DefaultExport
	for _, r := range imports.Optimize(records, usage, opts.PreferredImportSources) {
		doc.Imports = append(doc.Imports, r.Render())
	}
	return doc.Render()
}

func normalizeStatement(raw string) string {
	line := strings.TrimSpace(raw)
	if !strings.HasSuffix(line, ";") && !strings.HasSuffix(line, "}") {
		line += ";"
	}
	return line
}

func emitDeclaration(d scanner.Declaration, opts Options) string {
	var text string
	switch d.Kind {
	case scanner.KindFunction:
		text = emitFunction(d)
	case scanner.KindVariable:
		text = emitVariable(d)
	case scanner.KindInterface:
		text = emitInterface(d)
	case scanner.KindTypeAlias:
		text = emitTypeAlias(d)
	case scanner.KindClass:
		text = emitClass(d)
	case scanner.KindEnum:
		text = emitEnum(d)
	case scanner.KindModule:
		text = emitModule(d)
	}
	if text == "" {
		return ""
	}
	if opts.KeepComments && d.LeadingComment != "" {
		text = d.LeadingComment + "\n" + text
	}
	return text
}

// emitFunction writes one line per signature: every overload first, the
// implementation shape last. Bodies never survive.
func emitFunction(d scanner.Declaration) string {
	lines := make([]string, 0, len(d.Signatures))
	for _, sig := range d.Signatures {
		var b strings.Builder
		if d.Default {
			b.WriteString("export default function")
			if d.Name != "" {
				b.WriteString(" " + d.Name)
			}
		} else {
			if d.Exported {
				b.WriteString("export ")
			}
			b.WriteString("declare function " + d.Name)
		}
		b.WriteString(sig.Generics)
		b.WriteString("(" + sig.Params + ")")
		if sig.ReturnType != "" {
			b.WriteString(": " + sig.ReturnType)
		}
		b.WriteString(";")
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func emitVariable(d scanner.Declaration) string {
	typ := d.TypeAnnotation
	if typ == "" {
		typ = infer.Infer(d.Value, d.Binding == "const").Text
	}
	prefix := "declare "
	if d.Exported {
		prefix = "export declare "
	}
	return prefix + d.Binding + " " + d.Name + ": " + typ + ";"
}

func emitInterface(d scanner.Declaration) string {
	var b strings.Builder
	if d.Exported {
		b.WriteString("export ")
	}
	b.WriteString("declare interface " + d.Name + d.Generics)
	if d.Extends != "" {
		b.WriteString(" extends " + d.Extends)
	}
	b.WriteString(" " + d.Body)
	return b.String()
}

func emitTypeAlias(d scanner.Declaration) string {
	prefix := "declare "
	if d.Exported {
		prefix = "export declare "
	}
	return prefix + "type " + d.Name + d.Generics + " = " + d.AliasType + ";"
}

func emitEnum(d scanner.Declaration) string {
	var b strings.Builder
	if d.Exported {
		b.WriteString("export ")
	}
	b.WriteString("declare ")
	if d.ConstEnum {
		b.WriteString("const ")
	}
	b.WriteString("enum " + d.Name + " " + d.Body)
	return b.String()
}

// emitModule handles namespaces and ambient module augmentations. An
// ambient module (string-literal name) is never export-prefixed.
func emitModule(d scanner.Declaration) string {
	var b strings.Builder
	if d.Exported && !d.Ambient {
		b.WriteString("export ")
	}
	b.WriteString("declare ")
	if d.Namespace {
		b.WriteString("namespace ")
	} else {
		b.WriteString("module ")
	}
	b.WriteString(d.Name + " " + d.Body)
	return b.String()
}
