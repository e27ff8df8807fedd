package scanner

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

// Scan walks input once, left to right, and returns the top-level
// declarations in source order. Constructs nested inside another
// declaration's body are never surfaced; unrecognised top-level statements
// are skipped without error.
func Scan(input string) ([]Declaration, error) {
	lines := strings.Split(input, "\n")
	cur := source.NewCursor()
	decls := make([]Declaration, 0, 16)
	pendingDoc := ""

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if !cur.AtTopLevel() {
			advanceLine(cur, line)
			i++
			continue
		}

		if trimmed == "" {
			// Blank lines between a doc comment and its declaration are
			// allowed; the buffered comment survives.
			advanceLine(cur, line)
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "/**") {
			doc, next := collectComment(cur, lines, i)
			pendingDoc = doc
			i = next
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			// Plain comments are discarded and break doc attachment.
			pendingDoc = ""
			advanceLine(cur, line)
			i++
			for i < len(lines) && cur.State() == source.StateBlockComment {
				advanceLine(cur, lines[i])
				i++
			}
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		kw, ok := candidateKeyword(trimmed)
		if !ok || indented {
			pendingDoc = ""
			advanceLine(cur, line)
			i++
			continue
		}

		raw, next := collectDeclaration(cur, lines, i)
		i = next
		if d, parsed := parseDeclaration(kw, raw, pendingDoc); parsed {
			decls = append(decls, d)
		}
		pendingDoc = ""
	}

	if err := cur.Err(); err != nil {
		ue := err.(*source.UnterminatedError)
		return nil, &ScanError{Position: ue.Position, Reason: ue.Reason}
	}
	return groupOverloads(decls), nil
}

func advanceLine(cur *source.Cursor, line string) {
	cur.Advance(line + "\n")
}

// collectComment consumes a /** ... */ block and returns it verbatim.
func collectComment(cur *source.Cursor, lines []string, i int) (string, int) {
	start := i
	advanceLine(cur, lines[i])
	i++
	for i < len(lines) && cur.State() == source.StateBlockComment {
		advanceLine(cur, lines[i])
		i++
	}
	block := strings.Join(lines[start:i], "\n")
	return strings.TrimRight(block, " \t\n"), i
}

// collectDeclaration accumulates lines until the construct is complete:
// all depths back to zero and either a trailing semicolon, a closed brace
// span, or a following line that itself starts a new top-level construct.
func collectDeclaration(cur *source.Cursor, lines []string, i int) (string, int) {
	start := i
	openedBrace := false
	for i < len(lines) {
		seg := lines[i] + "\n"
		for k := 0; k < len(seg); {
			k = cur.Step(seg, k)
			if cur.Depth().Curly > 0 {
				openedBrace = true
			}
		}
		i++

		if !cur.AtTopLevel() {
			continue
		}
		t := strings.TrimSpace(lines[i-1])
		if strings.HasSuffix(t, ";") || openedBrace {
			break
		}

		// Brace-less statement: complete once the next non-blank line
		// starts its own construct (or input ends).
		j := i
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			break
		}
		next := strings.TrimSpace(lines[j])
		nextIndented := lines[j][0] == ' ' || lines[j][0] == '\t'
		if _, starts := candidateKeyword(next); starts && !nextIndented {
			break
		}
		if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/*") {
			break
		}
	}
	raw := strings.Join(lines[start:i], "\n")
	return strings.TrimRight(raw, " \t\n"), i
}

// candidateKeyword classifies a trimmed line as a declaration start after
// stripping an optional export/declare prefix. The returned keyword picks
// the parse routine.
func candidateKeyword(t string) (string, bool) {
	rest := t
	if after, ok := strings.CutPrefix(rest, "export "); ok {
		r := strings.TrimSpace(after)
		switch {
		case strings.HasPrefix(r, "{"), strings.HasPrefix(r, "*"):
			return "export", true
		case strings.HasPrefix(r, "type {"), strings.HasPrefix(r, "type *"):
			return "export", true
		case r == "default" || strings.HasPrefix(r, "default "):
			body := strings.TrimSpace(strings.TrimPrefix(r, "default"))
			if startsFunction(body) {
				return "function", true
			}
			if startsClass(body) {
				return "class", true
			}
			return "export", true
		}
		rest = r
	}
	if after, ok := strings.CutPrefix(rest, "declare "); ok {
		rest = strings.TrimSpace(after)
	}

	word, _ := source.ReadIdent(rest)
	switch word {
	case "import":
		return "import", true
	case "const":
		if strings.HasPrefix(rest, "const enum ") {
			return "enum", true
		}
		return "variable", true
	case "let", "var":
		return "variable", true
	case "function":
		return "function", true
	case "async":
		if startsFunction(rest) {
			return "function", true
		}
	case "interface":
		return "interface", true
	case "type":
		if after, ok := strings.CutPrefix(rest, "type "); ok {
			if name, _ := source.ReadIdent(strings.TrimSpace(after)); name != "" {
				return "typealias", true
			}
		}
	case "class":
		return "class", true
	case "abstract":
		if startsClass(rest) {
			return "class", true
		}
	case "enum":
		return "enum", true
	case "namespace", "module":
		return "module", true
	}
	return "", false
}

func startsFunction(s string) bool {
	return strings.HasPrefix(s, "function ") || strings.HasPrefix(s, "function(") ||
		strings.HasPrefix(s, "function*") ||
		strings.HasPrefix(s, "async function ") || strings.HasPrefix(s, "async function(")
}

func startsClass(s string) bool {
	return strings.HasPrefix(s, "class ") || strings.HasPrefix(s, "class{") ||
		strings.HasPrefix(s, "abstract class ")
}

// groupOverloads merges runs of consecutive same-name functions: earlier
// body-less instances become leading signatures, the first instance with a
// body closes the run. Bodies themselves are never retained.
func groupOverloads(decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	i := 0
	for i < len(decls) {
		d := decls[i]
		if d.Kind != KindFunction {
			out = append(out, d)
			i++
			continue
		}
		merged := d
		sigs := make([]Signature, 0, 2)
		j := i
		for j < len(decls) && decls[j].Kind == KindFunction && decls[j].Name == d.Name {
			sigs = append(sigs, decls[j].Signatures...)
			withBody := decls[j].HasBody
			j++
			if withBody {
				break
			}
		}
		merged.Signatures = sigs
		out = append(out, merged)
		i = j
	}
	return out
}
