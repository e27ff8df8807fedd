package source

import "strings"

// StripDefaults removes `= value` initializers from a parameter list,
// keeping the declared shape (including destructuring patterns) intact.
// The input is the text between the parentheses, not including them.
func StripDefaults(paramList string) string {
	if strings.TrimSpace(paramList) == "" {
		return ""
	}
	params := SplitTop(paramList, ',')
	out := make([]string, 0, len(params))
	for _, p := range params {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if eq := IndexTopAssign(trimmed); eq >= 0 {
			trimmed = strings.TrimSpace(trimmed[:eq])
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, ", ")
}
