package scanner

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

// parseDeclaration turns one collected raw span into a Declaration record.
// Returns false for shapes the emitter cannot describe (for example
// destructured bindings); those are skipped, not errors.
func parseDeclaration(kw, raw, doc string) (Declaration, bool) {
	d := Declaration{Raw: raw, LeadingComment: doc}
	head := strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(head, "export "); ok {
		d.Exported = true
		head = strings.TrimSpace(after)
	}
	if kw != "export" {
		if after, ok := strings.CutPrefix(head, "default "); ok {
			d.Default = true
			head = strings.TrimSpace(after)
		}
	}
	if after, ok := strings.CutPrefix(head, "declare "); ok {
		head = strings.TrimSpace(after)
	}

	switch kw {
	case "import":
		d.Kind = KindImport
		d.TypeOnly = strings.HasPrefix(head, "import type ")
		return d, true
	case "export":
		return parseExport(d, head)
	case "variable":
		return parseVariable(d, head)
	case "function":
		return parseFunction(d, head)
	case "interface":
		return parseInterface(d, head)
	case "typealias":
		return parseTypeAlias(d, head)
	case "class":
		return parseClass(d, head)
	case "enum":
		return parseEnum(d, head)
	case "module":
		return parseModule(d, head)
	}
	return d, false
}

func parseExport(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindExport
	if strings.HasPrefix(head, "type ") {
		d.TypeOnly = true
	}
	if after, ok := strings.CutPrefix(head, "default "); ok {
		d.Default = true
		d.Value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), ";"))
	}
	return d, true
}

func parseVariable(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindVariable
	binding, rest := source.ReadIdent(head)
	d.Binding = binding
	rest = strings.TrimSpace(rest)

	name, rest := source.ReadIdent(rest)
	if name == "" {
		// Destructured bindings have no single declarable name.
		return d, false
	}
	d.Name = name
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "!"))

	assign := source.IndexTopAssign(rest)
	annot := rest
	if assign >= 0 {
		annot = rest[:assign]
		d.Value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[assign+1:]), ";"))
	}
	annot = strings.TrimSpace(annot)
	if after, ok := strings.CutPrefix(annot, ":"); ok {
		d.TypeAnnotation = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), ";"))
	}
	return d, true
}

func parseFunction(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindFunction
	sig := Signature{}

	rest := head
	if after, ok := strings.CutPrefix(rest, "async "); ok {
		sig.Async = true
		rest = strings.TrimSpace(after)
	}
	after, ok := strings.CutPrefix(rest, "function")
	if !ok {
		return d, false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(after), "*"))

	name, rest := source.ReadIdent(rest)
	if name == "" && !d.Default {
		return d, false
	}
	d.Name = name
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "<") {
		var genOK bool
		sig.Generics, rest, genOK = source.ReadGenerics(rest)
		if !genOK {
			return d, false
		}
		rest = strings.TrimSpace(rest)
	}
	if !strings.HasPrefix(rest, "(") {
		return d, false
	}
	end := source.BalancedEnd(rest, 0)
	if end < 0 {
		return d, false
	}
	sig.Params = source.StripDefaults(rest[1 : end-1])

	tail := strings.TrimSpace(rest[end:])
	if after, hasRet := strings.CutPrefix(tail, ":"); hasRet {
		ret := strings.TrimSpace(after)
		retHead, body := source.SplitTrailingBody(ret)
		if strings.TrimSpace(retHead) == "" && body != "" {
			// The whole tail is one brace group: an object-literal return
			// type on a body-less signature, not a function body.
			retHead, body = ret, ""
		}
		sig.ReturnType = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(retHead), ";"))
		d.HasBody = body != ""
	} else {
		_, body := source.SplitTrailingBody(tail)
		d.HasBody = body != ""
	}

	d.Signatures = []Signature{sig}
	return d, true
}

func parseInterface(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindInterface
	rest := strings.TrimSpace(strings.TrimPrefix(head, "interface"))
	name, rest := source.ReadIdent(rest)
	if name == "" {
		return d, false
	}
	d.Name = name
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "<") {
		var ok bool
		d.Generics, rest, ok = source.ReadGenerics(rest)
		if !ok {
			return d, false
		}
		rest = strings.TrimSpace(rest)
	}

	heritage, body := source.SplitTrailingBody(rest)
	if body == "" {
		return d, false
	}
	if after, ok := strings.CutPrefix(strings.TrimSpace(heritage), "extends "); ok {
		d.Extends = strings.TrimSpace(after)
	}
	d.Body = body
	return d, true
}

func parseTypeAlias(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindTypeAlias
	rest := strings.TrimSpace(strings.TrimPrefix(head, "type"))
	name, rest := source.ReadIdent(rest)
	if name == "" {
		return d, false
	}
	d.Name = name
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "<") {
		var ok bool
		d.Generics, rest, ok = source.ReadGenerics(rest)
		if !ok {
			return d, false
		}
		rest = strings.TrimSpace(rest)
	}

	eq := source.IndexTopAssign(rest)
	if eq < 0 {
		return d, false
	}
	d.AliasType = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[eq+1:]), ";"))
	return d, d.AliasType != ""
}

func parseClass(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindClass
	rest := head
	if after, ok := strings.CutPrefix(rest, "abstract "); ok {
		d.Abstract = true
		rest = strings.TrimSpace(after)
	}
	after, ok := strings.CutPrefix(rest, "class")
	if !ok {
		return d, false
	}
	rest = strings.TrimSpace(after)

	name, rest := source.ReadIdent(rest)
	if name == "" && !d.Default {
		return d, false
	}
	d.Name = name
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "<") {
		var genOK bool
		d.Generics, rest, genOK = source.ReadGenerics(rest)
		if !genOK {
			return d, false
		}
		rest = strings.TrimSpace(rest)
	}

	heritage, body := source.SplitTrailingBody(rest)
	if body == "" {
		return d, false
	}
	h := strings.TrimSpace(heritage)
	if idx := strings.Index(h, "implements "); idx >= 0 {
		d.Implements = strings.TrimSpace(h[idx+len("implements "):])
		h = strings.TrimSpace(h[:idx])
	}
	if after, hasExt := strings.CutPrefix(h, "extends "); hasExt {
		d.Extends = strings.TrimSpace(after)
	}
	d.Body = body
	return d, true
}

func parseEnum(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindEnum
	rest := head
	if after, ok := strings.CutPrefix(rest, "const "); ok {
		d.ConstEnum = true
		rest = strings.TrimSpace(after)
	}
	after, ok := strings.CutPrefix(rest, "enum")
	if !ok {
		return d, false
	}
	name, rest := source.ReadIdent(strings.TrimSpace(after))
	if name == "" {
		return d, false
	}
	d.Name = name

	_, body := source.SplitTrailingBody(strings.TrimSpace(rest))
	if body == "" {
		return d, false
	}
	d.Body = body
	return d, true
}

func parseModule(d Declaration, head string) (Declaration, bool) {
	d.Kind = KindModule
	word, rest := source.ReadIdent(head)
	d.Namespace = word == "namespace"
	rest = strings.TrimSpace(rest)

	switch {
	case strings.HasPrefix(rest, "'"), strings.HasPrefix(rest, "\""):
		quote := rest[0]
		endQuote := strings.IndexByte(rest[1:], quote)
		if endQuote < 0 {
			return d, false
		}
		d.Name = rest[:endQuote+2]
		d.Ambient = true
		rest = rest[endQuote+2:]
	default:
		name := readQualifiedName(rest)
		if name == "" {
			return d, false
		}
		d.Name = name
		rest = rest[len(name):]
	}

	_, body := source.SplitTrailingBody(strings.TrimSpace(rest))
	if body == "" {
		return d, false
	}
	d.Body = body
	return d, true
}

func readQualifiedName(s string) string {
	name, rest := source.ReadIdent(s)
	if name == "" {
		return ""
	}
	for strings.HasPrefix(rest, ".") {
		part, r := source.ReadIdent(rest[1:])
		if part == "" {
			break
		}
		name += "." + part
		rest = r
	}
	return name
}
