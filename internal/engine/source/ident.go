package source

// Identifier classification used for property-key quoting and whole-word
// usage matching. ASCII only; the emitter re-quotes anything fancier.

func IsIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func IsIdentPart(ch byte) bool {
	return IsIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func IsIdentifier(s string) bool {
	if s == "" || !IsIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// IsBareKey reports whether s may appear unquoted as an object type key:
// an identifier or a plain unsigned number.
func IsBareKey(s string) bool {
	if IsIdentifier(s) {
		return true
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Words collects every whole-word identifier in text. Substrings of longer
// identifiers never register: matching is boundary-exact by construction.
func Words(text string) map[string]struct{} {
	set := make(map[string]struct{})
	i := 0
	for i < len(text) {
		if !IsIdentPart(text[i]) {
			i++
			continue
		}
		start := i
		for i < len(text) && IsIdentPart(text[i]) {
			i++
		}
		word := text[start:i]
		if IsIdentStart(word[0]) {
			set[word] = struct{}{}
		}
	}
	return set
}

// ReadIdent reads a leading identifier from s and returns it with the
// remainder. Returns "" when s does not start with one.
func ReadIdent(s string) (string, string) {
	if s == "" || !IsIdentStart(s[0]) {
		return "", s
	}
	i := 1
	for i < len(s) && IsIdentPart(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
