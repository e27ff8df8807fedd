package source

// ReadGenerics consumes a balanced <...> group from the start of s. Angle
// brackets are not tracked by the cursor, so they are counted directly,
// skipping the `>` of `=>` arrows inside parameter defaults.
func ReadGenerics(s string) (generics, rest string, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
			if depth == 0 {
				return s[:i+1], s[i+1:], true
			}
		}
	}
	return "", s, false
}

// SplitTrailingBody separates leading text from a trailing block body: the
// body is the last top-level brace group that runs to the end of s. When no
// such group exists the whole text is head.
func SplitTrailingBody(s string) (head, body string) {
	c := NewCursor()
	i := 0
	bodyStart := -1
	for i < len(s) {
		if c.AtTopLevel() && s[i] == '{' {
			if end := BalancedEnd(s[i:], 0); end >= 0 && i+end == len(s) {
				bodyStart = i
			}
		}
		i = c.Step(s, i)
	}
	if bodyStart < 0 {
		return s, ""
	}
	return s[:bodyStart], s[bodyStart:]
}
