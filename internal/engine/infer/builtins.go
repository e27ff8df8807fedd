package infer

import (
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

// constructorTypes maps well-known built-in constructors to the type their
// instances carry. Unknown classes fall back to the bare class name.
var constructorTypes = map[string]string{
	"Date":    "Date",
	"Map":     "Map<any, any>",
	"Set":     "Set<any>",
	"WeakMap": "WeakMap<any, any>",
	"WeakSet": "WeakSet<any>",
	"RegExp":  "RegExp",
	"Error":   "Error",
	"Array":   "any[]",
	"Promise": "Promise<any>",
}

// inferFunction recognises arrow functions and function expressions and
// builds `(params) => ReturnType`. Block bodies yield unknown; expression
// bodies are inferred as mutable values; async wraps the return in a
// Promise.
func inferFunction(expr string) (Type, bool) {
	rest := expr
	async := false
	if strings.HasPrefix(rest, "async ") {
		async = true
		rest = strings.TrimSpace(rest[len("async "):])
	}

	if strings.HasPrefix(rest, "function") {
		return inferFunctionKeyword(rest[len("function"):], async)
	}
	if arrow := topLevelArrow(rest); arrow >= 0 {
		return inferArrow(rest[:arrow], rest[arrow+2:], async)
	}
	return Type{}, false
}

func inferFunctionKeyword(after string, async bool) (Type, bool) {
	after = strings.TrimSpace(after)
	if strings.HasPrefix(after, "*") {
		// Generators would need an Iterator mapping; left to the fallback.
		return Type{}, false
	}
	if name, r := source.ReadIdent(after); name != "" {
		after = strings.TrimSpace(r)
	}
	generics := ""
	if strings.HasPrefix(after, "<") {
		var ok bool
		generics, after, ok = source.ReadGenerics(after)
		if !ok {
			return Type{}, false
		}
		after = strings.TrimSpace(after)
	}
	if !strings.HasPrefix(after, "(") {
		return Type{}, false
	}
	end := source.BalancedEnd(after, 0)
	if end < 0 {
		return Type{}, false
	}
	params := source.StripDefaults(after[1 : end-1])
	tail := strings.TrimSpace(after[end:])

	ret := "unknown"
	if strings.HasPrefix(tail, ":") {
		head, _ := source.SplitTrailingBody(strings.TrimSpace(tail[1:]))
		if t := strings.TrimSpace(head); t != "" {
			ret = t
		}
	}
	return Type{Text: buildFunctionType(generics, params, ret, async), Kind: KindFunction}, true
}

func inferArrow(head, body string, async bool) (Type, bool) {
	head = strings.TrimSpace(head)
	body = strings.TrimSpace(body)

	if strings.HasPrefix(head, "async ") {
		async = true
		head = strings.TrimSpace(head[len("async "):])
	}

	generics := ""
	if strings.HasPrefix(head, "<") {
		var ok bool
		generics, head, ok = source.ReadGenerics(head)
		if !ok {
			return Type{}, false
		}
		head = strings.TrimSpace(head)
	}

	var params, annotated string
	switch {
	case strings.HasPrefix(head, "("):
		end := source.BalancedEnd(head, 0)
		if end < 0 {
			return Type{}, false
		}
		params = source.StripDefaults(head[1 : end-1])
		tail := strings.TrimSpace(head[end:])
		if strings.HasPrefix(tail, ":") {
			annotated = strings.TrimSpace(tail[1:])
		}
	case source.IsIdentifier(head):
		params = head
	default:
		return Type{}, false
	}

	ret := annotated
	if ret == "" {
		if strings.HasPrefix(body, "{") {
			ret = "unknown"
		} else {
			ret = Infer(body, false).Text
		}
	}
	return Type{Text: buildFunctionType(generics, params, ret, async), Kind: KindFunction}, true
}

func buildFunctionType(generics, params, ret string, async bool) string {
	if async && !strings.HasPrefix(ret, "Promise<") {
		ret = "Promise<" + ret + ">"
	}
	return generics + "(" + params + ") => " + ret
}

// topLevelArrow returns the offset of the first `=>` outside any nested
// bracket, string or comment, or -1.
func topLevelArrow(s string) int {
	c := source.NewCursor()
	i := 0
	for i < len(s) {
		if c.AtTopLevel() && s[i] == '=' && i+1 < len(s) && s[i+1] == '>' {
			return i
		}
		i = c.Step(s, i)
	}
	return -1
}

// methodShorthand parses `name(params): Ret { ... }` object members into a
// function-typed property.
func methodShorthand(prop string) (string, string, bool) {
	rest := prop
	async := false
	if strings.HasPrefix(rest, "async ") {
		async = true
		rest = strings.TrimSpace(rest[len("async "):])
	}
	name, rest := source.ReadIdent(rest)
	if name == "" {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	generics := ""
	if strings.HasPrefix(rest, "<") {
		var ok bool
		generics, rest, ok = source.ReadGenerics(rest)
		if !ok {
			return "", "", false
		}
		rest = strings.TrimSpace(rest)
	}
	if !strings.HasPrefix(rest, "(") {
		return "", "", false
	}
	end := source.BalancedEnd(rest, 0)
	if end < 0 {
		return "", "", false
	}
	params := source.StripDefaults(rest[1 : end-1])
	tail := strings.TrimSpace(rest[end:])
	ret := "unknown"
	if strings.HasPrefix(tail, ":") {
		head, _ := source.SplitTrailingBody(strings.TrimSpace(tail[1:]))
		if t := strings.TrimSpace(head); t != "" {
			ret = t
		}
	}
	return name, buildFunctionType(generics, params, ret, async), true
}

// inferNew maps `new X(...)` through the built-in constructor table. The
// call must be the whole expression: a trailing member or call chain
// produces some other value and falls through to the caller's fallback.
func inferNew(expr string) (Type, bool) {
	if !strings.HasPrefix(expr, "new ") {
		return Type{}, false
	}
	rest := strings.TrimSpace(expr[len("new "):])
	name := readQualified(rest)
	if name == "" {
		return Type{}, false
	}
	rest = strings.TrimSpace(rest[len(name):])
	if strings.HasPrefix(rest, "<") {
		_, r, ok := source.ReadGenerics(rest)
		if !ok {
			return Type{}, false
		}
		rest = strings.TrimSpace(r)
	}
	if rest != "" {
		if !strings.HasPrefix(rest, "(") || source.BalancedEnd(rest, 0) != len(rest) {
			return Type{}, false
		}
	}
	if mapped, ok := constructorTypes[name]; ok {
		return Type{Text: mapped, Kind: KindReference}, true
	}
	return Type{Text: name, Kind: KindReference}, true
}

func readQualified(s string) string {
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

// inferPromise handles the static Promise combinators.
func inferPromise(expr string) (Type, bool) {
	for _, p := range []struct {
		prefix string
		build  func(arg string) string
	}{
		{"Promise.resolve(", func(arg string) string {
			if strings.TrimSpace(arg) == "" {
				return "Promise<void>"
			}
			return "Promise<" + Infer(arg, false).Text + ">"
		}},
		{"Promise.reject(", func(string) string {
			return "Promise<never>"
		}},
		{"Promise.all(", func(arg string) string {
			arg = strings.TrimSpace(arg)
			if !strings.HasPrefix(arg, "[") || source.BalancedEnd(arg, 0) != len(arg) {
				return "Promise<unknown[]>"
			}
			elems := source.SplitTopTrimmed(arg[1:len(arg)-1], ',')
			members := make([]string, 0, len(elems))
			for _, e := range elems {
				members = append(members, Infer(e, false).Text)
			}
			return "Promise<[" + strings.Join(members, ", ") + "]>"
		}},
	} {
		if !strings.HasPrefix(expr, p.prefix) {
			continue
		}
		open := len(p.prefix) - 1
		if source.BalancedEnd(expr, open) != len(expr) {
			continue
		}
		return Type{Text: p.build(expr[open+1 : len(expr)-1]), Kind: KindPromise}, true
	}
	return Type{}, false
}
