package emit

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/infer"
	"github.com/stacksjs/dtsx-sub004/internal/engine/scanner"
	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

func emitClass(d scanner.Declaration) string {
	var b strings.Builder
	switch {
	case d.Default:
		b.WriteString("export default ")
	case d.Exported:
		b.WriteString("export declare ")
	default:
		b.WriteString("declare ")
	}
	if d.Abstract {
		b.WriteString("abstract ")
	}
	b.WriteString("class")
	if d.Name != "" {
		b.WriteString(" " + d.Name)
	}
	b.WriteString(d.Generics)
	if d.Extends != "" {
		b.WriteString(" extends " + d.Extends)
	}
	if d.Implements != "" {
		b.WriteString(" implements " + d.Implements)
	}
	b.WriteString(" " + filterClassBody(d.Body))
	return b.String()
}

// filterClassBody rewrites a class body for declaration output: private
// and #-prefixed members disappear entirely, method bodies collapse to
// signatures, parameter defaults are stripped and modifiers are reordered
// canonically.
func filterClassBody(body string) string {
	inner := strings.TrimSpace(body[1 : len(body)-1])
	if inner == "" {
		return "{}"
	}

	lines := make([]string, 0, 8)
	for _, member := range splitMembers(inner) {
		if line, keep := emitMember(member); keep {
			lines = append(lines, "  "+line)
		}
	}
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

// splitMembers cuts a class body into member spans. A member ends at a
// top-level semicolon, or at the close of its method body; an initializer
// brace (after `=`) does not end the member.
func splitMembers(inner string) []string {
	members := make([]string, 0, 8)
	i := 0
	for i < len(inner) {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t' || inner[i] == '\n' || inner[i] == '\r' || inner[i] == ';') {
			i++
		}
		if i >= len(inner) {
			break
		}
		s := inner[i:]
		c := source.NewCursor()
		sawAssign := false
		end := -1
		for j := 0; j < len(s) && end < 0; {
			if c.AtTopLevel() {
				switch ch := s[j]; {
				case ch == ';':
					end = j
				case ch == '=' && !(j+1 < len(s) && (s[j+1] == '=' || s[j+1] == '>')):
					sawAssign = true
				case ch == '{' && !sawAssign:
					if close := source.BalancedEnd(s, j); close >= 0 {
						end = close - 1
					} else {
						end = len(s) - 1
					}
				}
			}
			if end < 0 {
				j = c.Step(s, j)
			}
		}
		if end < 0 {
			members = append(members, strings.TrimSpace(s))
			break
		}
		members = append(members, strings.TrimSpace(s[:end+1]))
		i += end + 1
	}
	return members
}

var droppedModifiers = map[string]bool{
	"public":   true,
	"async":    true,
	"override": true,
}

var keptModifiers = map[string]bool{
	"protected": true,
	"static":    true,
	"abstract":  true,
	"readonly":  true,
}

// startsMemberHead reports whether s begins a class member head: a name
// (identifier, #-private, quoted or computed key), a generator star, or a
// constructor-less signature opener.
func startsMemberHead(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '#', '[', '(', '\'', '"', '*':
		return true
	}
	return source.IsIdentStart(s[0])
}

// emitMember renders one member line, or reports that it must be dropped.
func emitMember(member string) (string, bool) {
	rest := member
	kept := make(map[string]bool, 4)
	for {
		word, after := source.ReadIdent(rest)
		if word == "" || !strings.HasPrefix(after, " ") {
			break
		}
		next := strings.TrimSpace(after)
		// A modifier must be followed by a member head; otherwise the word
		// is itself the member name (`readonly = 5`).
		if !startsMemberHead(next) {
			break
		}
		if word == "private" {
			return "", false
		}
		if keptModifiers[word] {
			kept[word] = true
			rest = next
			continue
		}
		if droppedModifiers[word] {
			rest = next
			continue
		}
		break
	}
	if strings.HasPrefix(rest, "#") {
		return "", false
	}
	if rest == "" {
		return "", false
	}

	head, _ := source.SplitTrailingBody(rest)
	head = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(head), ";"))
	if head == "" {
		return "", false
	}

	if sig, ok := rewriteMethodHead(head); ok {
		head = sig
	} else if line, keep := rewriteProperty(head); keep {
		head = line
	} else {
		return "", false
	}

	// Canonical modifier order: protected, static, abstract, readonly.
	prefix := ""
	for _, m := range []string{"protected", "static", "abstract", "readonly"} {
		if kept[m] {
			prefix += m + " "
		}
	}
	return prefix + head + ";", true
}

// rewriteMethodHead strips parameter defaults from a method-shaped member
// head; constructor parameter properties marked private vanish with it.
func rewriteMethodHead(head string) (string, bool) {
	rest := head
	prefix := ""
	for _, accessor := range []string{"get ", "set "} {
		if after, ok := strings.CutPrefix(rest, accessor); ok {
			prefix += accessor
			rest = strings.TrimLeft(after, " ")
		}
	}
	name, after := source.ReadIdent(rest)
	if name == "" {
		return "", false
	}
	prefix += name
	rest = after
	if strings.HasPrefix(rest, "?") {
		prefix += "?"
		rest = rest[1:]
	}
	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "<") {
		generics, r, ok := source.ReadGenerics(rest)
		if !ok {
			return "", false
		}
		prefix += generics
		rest = strings.TrimLeft(r, " ")
	}
	if !strings.HasPrefix(rest, "(") {
		return "", false
	}
	end := source.BalancedEnd(rest, 0)
	if end < 0 {
		return "", false
	}
	params := source.SplitTopTrimmed(rest[1:end-1], ',')
	cleaned := make([]string, 0, len(params))
	for _, p := range params {
		if strings.HasPrefix(p, "private ") {
			continue
		}
		if eq := source.IndexTopAssign(p); eq >= 0 {
			p = strings.TrimSpace(p[:eq])
		}
		cleaned = append(cleaned, p)
	}
	return prefix + "(" + strings.Join(cleaned, ", ") + ")" + rest[end:], true
}

// rewriteProperty keeps an annotated property as written (minus its
// initializer) and narrows an unannotated initializer into a type.
func rewriteProperty(head string) (string, bool) {
	assign := source.IndexTopAssign(head)
	if assign < 0 {
		return head, true
	}
	declPart := strings.TrimSpace(head[:assign])
	value := strings.TrimSpace(head[assign+1:])
	if source.IndexTop(declPart, ':') >= 0 {
		return declPart, true
	}
	t := infer.Infer(value, false)
	return declPart + ": " + t.Text, true
}
