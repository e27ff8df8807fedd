// Package infer narrows a value expression to the most specific type text
// representable without semantic analysis. Inference is total: anything it
// cannot recognise resolves to unknown, never to an error.
package infer

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

type Kind int

const (
	KindLiteral Kind = iota
	KindArray
	KindTuple
	KindObject
	KindFunction
	KindPromise
	KindReference
	KindUnknown
)

// Type is a type-expression string plus the shape tag used to decide
// parenthesization when members are composed into unions.
type Type struct {
	Text string
	Kind Kind
}

func unknownType() Type {
	return Type{Text: "unknown", Kind: KindUnknown}
}

// Infer derives the narrowest faithful type for expr. isConst carries the
// binding mutability: const bindings keep literals and produce readonly
// tuples, mutable bindings widen to primitives and Array<...> unions. The
// flag propagates through arbitrarily nested array and object literals.
func Infer(expr string, isConst bool) Type {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimSuffix(expr, ";")
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return unknownType()
	}

	// A fully parenthesized expression infers as its inner expression,
	// unless the parens are an arrow-function parameter list.
	if expr[0] == '(' {
		if end := source.BalancedEnd(expr, 0); end == len(expr) {
			return Infer(expr[1:len(expr)-1], isConst)
		}
	}

	if t, ok := inferString(expr, isConst); ok {
		return t
	}
	if t, ok := inferPrimitiveLiteral(expr, isConst); ok {
		return t
	}
	if t, ok := inferArray(expr, isConst); ok {
		return t
	}
	if t, ok := inferObject(expr, isConst); ok {
		return t
	}
	if t, ok := inferAssertion(expr, isConst); ok {
		return t
	}
	if t, ok := inferFunction(expr); ok {
		return t
	}
	if t, ok := inferNew(expr); ok {
		return t
	}
	if t, ok := inferPromise(expr); ok {
		return t
	}
	for _, sym := range []string{"Symbol(", "Symbol.for("} {
		if strings.HasPrefix(expr, sym) && source.BalancedEnd(expr, len(sym)-1) == len(expr) {
			return Type{Text: "symbol", Kind: KindReference}
		}
	}
	return unknownType()
}

// inferString handles rules for quoted and template literals. A template
// with interpolation keeps its literal text only for const bindings.
func inferString(expr string, isConst bool) (Type, bool) {
	if len(expr) < 2 {
		return Type{}, false
	}
	quote := expr[0]
	if quote != '\'' && quote != '"' && quote != '`' {
		return Type{}, false
	}
	if !isWholeLiteral(expr) {
		return Type{}, false
	}
	if quote == '`' && hasInterpolation(expr) {
		if isConst {
			return Type{Text: expr, Kind: KindLiteral}, true
		}
		return Type{Text: "string", Kind: KindReference}, true
	}
	return Type{Text: expr, Kind: KindLiteral}, true
}

// isWholeLiteral reports whether expr is exactly one string/template
// literal with nothing after the closing quote.
func isWholeLiteral(expr string) bool {
	c := source.NewCursor()
	j := c.Step(expr, 0)
	for j < len(expr) {
		if c.AtTopLevel() {
			return false
		}
		j = c.Step(expr, j)
	}
	return c.AtTopLevel() && c.Err() == nil
}

func hasInterpolation(tmpl string) bool {
	escaped := false
	for i := 0; i+1 < len(tmpl); i++ {
		switch {
		case escaped:
			escaped = false
		case tmpl[i] == '\\':
			escaped = true
		case tmpl[i] == '$' && tmpl[i+1] == '{':
			return true
		}
	}
	return false
}

func inferPrimitiveLiteral(expr string, isConst bool) (Type, bool) {
	switch expr {
	case "true", "false":
		if isConst {
			return Type{Text: expr, Kind: KindLiteral}, true
		}
		return Type{Text: "boolean", Kind: KindReference}, true
	case "null", "undefined":
		return Type{Text: expr, Kind: KindLiteral}, true
	}
	if isBigIntLiteral(expr) {
		if isConst {
			return Type{Text: expr, Kind: KindLiteral}, true
		}
		return Type{Text: "bigint", Kind: KindReference}, true
	}
	if isNumericLiteral(expr) {
		if isConst {
			return Type{Text: expr, Kind: KindLiteral}, true
		}
		return Type{Text: "number", Kind: KindReference}, true
	}
	return Type{}, false
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X' || s[1] == 'b' || s[1] == 'B' || s[1] == 'o' || s[1] == 'O') {
		for i := 2; i < len(s); i++ {
			if !isHexOrSep(s[i]) {
				return false
			}
		}
		return true
	}
	seenDigit := false
	seenDot := false
	seenExp := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			seenDigit = true
		case ch == '_':
		case ch == '.' && !seenDot && !seenExp:
			seenDot = true
		case (ch == 'e' || ch == 'E') && seenDigit && !seenExp:
			seenExp = true
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				i++
			}
		default:
			return false
		}
	}
	return seenDigit
}

func isHexOrSep(ch byte) bool {
	return ch == '_' || (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBigIntLiteral(s string) bool {
	if len(s) < 2 || s[len(s)-1] != 'n' {
		return false
	}
	body := s[:len(s)-1]
	if body == "" {
		return false
	}
	if body[0] == '-' {
		body = body[1:]
	}
	for i := 0; i < len(body); i++ {
		if body[i] != '_' && (body[i] < '0' || body[i] > '9') {
			return false
		}
	}
	return body != ""
}

// inferArray produces a readonly tuple for const bindings and a
// deduplicated Array<...> union for mutable ones.
func inferArray(expr string, isConst bool) (Type, bool) {
	if expr[0] != '[' || source.BalancedEnd(expr, 0) != len(expr) {
		return Type{}, false
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	elems := source.SplitTopTrimmed(inner, ',')

	if isConst {
		members := make([]string, 0, len(elems))
		for _, e := range elems {
			members = append(members, Infer(e, true).Text)
		}
		return Type{
			Text: "readonly [" + strings.Join(members, ", ") + "]",
			Kind: KindTuple,
		}, true
	}

	seen := make(map[string]struct{}, len(elems))
	members := make([]string, 0, len(elems))
	for _, e := range elems {
		t := Infer(e, false)
		text := t.Text
		if t.Kind == KindFunction {
			text = "(" + text + ")"
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		members = append(members, text)
	}
	if len(members) == 0 {
		return Type{Text: "Array<unknown>", Kind: KindArray}, true
	}
	return Type{Text: "Array<" + strings.Join(members, " | ") + ">", Kind: KindArray}, true
}

// inferObject emits `{ key: Type; ... }` preserving source property order.
// Keys that are not valid bare identifiers are re-quoted.
func inferObject(expr string, isConst bool) (Type, bool) {
	if expr[0] != '{' || source.BalancedEnd(expr, 0) != len(expr) {
		return Type{}, false
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	if inner == "" {
		return Type{Text: "{}", Kind: KindObject}, true
	}

	props := source.SplitTopTrimmed(inner, ',')
	members := make([]string, 0, len(props))
	for _, prop := range props {
		if strings.HasPrefix(prop, "...") {
			// Spread shape is unresolvable without symbol knowledge.
			continue
		}
		if m, ok := objectMember(prop, isConst); ok {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return Type{Text: "{}", Kind: KindObject}, true
	}
	return Type{Text: "{ " + strings.Join(members, "; ") + " }", Kind: KindObject}, true
}

func objectMember(prop string, isConst bool) (string, bool) {
	// Method shorthand first: its return annotation would otherwise read as
	// a key/value colon.
	if name, sig, ok := methodShorthand(prop); ok {
		return formatKey(name) + ": " + sig, true
	}

	// Accessors carry no inferable value shape.
	if strings.HasPrefix(prop, "get ") {
		name, _ := source.ReadIdent(strings.TrimSpace(prop[4:]))
		if name != "" {
			return formatKey(name) + ": unknown", true
		}
	}
	if strings.HasPrefix(prop, "set ") {
		return "", false
	}

	if colon := propertyColon(prop); colon >= 0 {
		key := formatKey(strings.TrimSpace(prop[:colon]))
		value := strings.TrimSpace(prop[colon+1:])
		return key + ": " + Infer(value, isConst).Text, true
	}

	// Shorthand property.
	if source.IsIdentifier(prop) {
		return prop + ": unknown", true
	}
	return "", false
}

// propertyColon locates the key/value separator colon at the top level of
// a single property, skipping colons inside computed keys and nested
// literals.
func propertyColon(prop string) int {
	return source.IndexTop(prop, ':')
}

func formatKey(key string) string {
	if len(key) >= 2 && (key[0] == '\'' || key[0] == '"') && key[0] == key[len(key)-1] {
		inner := key[1 : len(key)-1]
		if source.IsBareKey(inner) {
			return inner
		}
		return "'" + inner + "'"
	}
	if key != "" && key[0] == '[' {
		// Computed key, kept verbatim.
		return key
	}
	if source.IsBareKey(key) {
		return key
	}
	return "'" + key + "'"
}

// inferAssertion handles `expr as const` (re-runs inference with const
// semantics) and `expr as T` (the written type wins over unknown).
func inferAssertion(expr string, isConst bool) (Type, bool) {
	idx := lastTopLevelAs(expr)
	if idx < 0 {
		return Type{}, false
	}
	lhs := strings.TrimSpace(expr[:idx])
	rhs := strings.TrimSpace(expr[idx+4:])
	if lhs == "" || rhs == "" {
		return Type{}, false
	}
	if rhs == "const" {
		return Infer(lhs, true), true
	}
	return Type{Text: rhs, Kind: KindReference}, true
}

func lastTopLevelAs(expr string) int {
	last := -1
	c := source.NewCursor()
	i := 0
	for i < len(expr) {
		if c.AtTopLevel() && expr[i] == 'a' && strings.HasPrefix(expr[i:], "as") {
			beforeOK := i > 0 && expr[i-1] == ' '
			afterOK := i+2 < len(expr) && expr[i+2] == ' '
			if beforeOK && afterOK {
				last = i - 1
			}
		}
		i = c.Step(expr, i)
	}
	return last
}
