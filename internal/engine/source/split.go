package source

import "strings"

// SplitTop splits s at every occurrence of sep that sits at top lexical
// level: zero bracket depth, outside strings, comments and templates.
// Separators inside nested literals never split.
func SplitTop(s string, sep byte) []string {
	parts := make([]string, 0, 4)
	c := NewCursor()
	start := 0
	i := 0
	for i < len(s) {
		if s[i] == sep && c.AtTopLevel() {
			parts = append(parts, s[start:i])
			i++
			start = i
			continue
		}
		i = c.step(s, i)
	}
	parts = append(parts, s[start:])
	return parts
}

// SplitTopTrimmed is SplitTop with whitespace-trimmed, non-empty parts.
func SplitTopTrimmed(s string, sep byte) []string {
	raw := SplitTop(s, sep)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}
	return parts
}

// IndexTop returns the offset of the first top-level occurrence of target,
// or -1.
func IndexTop(s string, target byte) int {
	c := NewCursor()
	i := 0
	for i < len(s) {
		if s[i] == target && c.AtTopLevel() {
			return i
		}
		i = c.step(s, i)
	}
	return -1
}

// IndexTopAssign finds the first top-level single '=' that is an
// assignment: not part of ==, ===, =>, <=, >= or !=, and not preceded by a
// compound-assignment operator character.
func IndexTopAssign(s string) int {
	c := NewCursor()
	i := 0
	for i < len(s) {
		if s[i] == '=' && c.AtTopLevel() {
			if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '>') {
				i = c.step(s, i)
				i = c.step(s, i)
				continue
			}
			if i > 0 && strings.IndexByte("=!<>+-*/%&|^", s[i-1]) >= 0 {
				i = c.step(s, i)
				continue
			}
			return i
		}
		i = c.step(s, i)
	}
	return -1
}

// BalancedEnd returns the index just past the bracket matching the opener
// at s[start], honouring strings, comments and templates in between.
// Returns -1 when the span never closes. The text before start must be
// lexically neutral (the caller slices accordingly).
func BalancedEnd(s string, start int) int {
	if start >= len(s) {
		return -1
	}
	var kind byte
	switch s[start] {
	case '{', '[', '(':
		kind = s[start]
	default:
		return -1
	}

	c := NewCursor()
	i := 0
	for i < start {
		i = c.step(s, i)
	}
	base := depthOf(c.depth, kind)
	i = c.step(s, i)
	if depthOf(c.depth, kind) <= base {
		// Opener was inside a string or comment.
		return -1
	}
	for i < len(s) {
		i = c.step(s, i)
		if c.InCode() && depthOf(c.depth, kind) == base && len(c.exprBase) == 0 {
			return i
		}
	}
	return -1
}

func depthOf(d Depth, kind byte) int {
	switch kind {
	case '{':
		return d.Curly
	case '[':
		return d.Square
	default:
		return d.Paren
	}
}
