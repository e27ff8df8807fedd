// Package imports parses import statements and minimizes them against the
// identifiers actually used by the emitted declarations. Dropping an
// entire statement is normal steady-state behaviour, not an error.
package imports

import (
	"sort"
	"strings"

	"github.com/stacksjs/dtsx-sub004/internal/engine/source"
)

// Binding is one named import. Text preserves the source spelling
// (including `orig as local`); Local is the identifier usage matching
// runs against.
type Binding struct {
	Text     string
	Local    string
	TypeOnly bool
}

// Record is one parsed import statement.
type Record struct {
	Source     string
	Default    string
	Namespace  string
	Bindings   []Binding
	TypeOnly   bool // statement-level `import type`
	SideEffect bool
	Raw        string
}

// Parse decomposes a single import statement. Returns false for text that
// is not an import.
func Parse(stmt string) (Record, bool) {
	rec := Record{Raw: strings.TrimSpace(stmt)}
	rest := strings.TrimSuffix(rec.Raw, ";")

	after, ok := strings.CutPrefix(rest, "import")
	if !ok {
		return rec, false
	}
	rest = strings.TrimSpace(after)

	// Side-effect import binds nothing and is always retained.
	if src, isBare := bareSpecifier(rest); isBare {
		rec.Source = src
		rec.SideEffect = true
		return rec, true
	}

	if after, isType := strings.CutPrefix(rest, "type "); isType {
		rec.TypeOnly = true
		rest = strings.TrimSpace(after)
	}

	clause, src, ok := splitFrom(rest)
	if !ok {
		return rec, false
	}
	rec.Source = src

	for _, part := range source.SplitTopTrimmed(clause, ',') {
		switch {
		case strings.HasPrefix(part, "*"):
			if after, isNS := strings.CutPrefix(part, "*"); isNS {
				if name, hasAs := strings.CutPrefix(strings.TrimSpace(after), "as "); hasAs {
					rec.Namespace = strings.TrimSpace(name)
				}
			}
		case strings.HasPrefix(part, "{"):
			inner := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			for _, b := range source.SplitTopTrimmed(inner, ',') {
				binding := Binding{Text: b}
				if after, isType := strings.CutPrefix(b, "type "); isType {
					binding.TypeOnly = true
					binding.Text = strings.TrimSpace(after)
				}
				binding.Local = localName(binding.Text)
				if binding.Local != "" {
					rec.Bindings = append(rec.Bindings, binding)
				}
			}
		default:
			if source.IsIdentifier(part) {
				rec.Default = part
			}
		}
	}
	return rec, true
}

func bareSpecifier(s string) (string, bool) {
	if len(s) < 2 || (s[0] != '\'' && s[0] != '"') {
		return "", false
	}
	end := strings.IndexByte(s[1:], s[0])
	if end < 0 || strings.TrimSpace(s[end+2:]) != "" {
		return "", false
	}
	return s[1 : end+1], true
}

// splitFrom separates the binding clause from the module specifier.
func splitFrom(s string) (clause, src string, ok bool) {
	q := strings.LastIndexAny(s, "'\"")
	if q < 0 {
		return "", "", false
	}
	open := strings.LastIndexByte(s[:q], s[q])
	if open < 0 {
		return "", "", false
	}
	src = s[open+1 : q]
	clause = strings.TrimSpace(s[:open])
	clause = strings.TrimSpace(strings.TrimSuffix(clause, "from"))
	return clause, src, true
}

func localName(spec string) string {
	if idx := strings.Index(spec, " as "); idx >= 0 {
		return strings.TrimSpace(spec[idx+4:])
	}
	if source.IsIdentifier(spec) {
		return spec
	}
	return ""
}

// Retained is the post-optimization remnant of a Record; its binding set
// is always a subset of the source record's.
type Retained struct {
	Source     string
	Default    string
	Namespace  string
	Bindings   []Binding
	TypeOnly   bool
	SideEffect bool
	Raw        string
}

// Render reconstructs the minimal import statement, preserving the
// original type-only / value / mixed classification.
func (r Retained) Render() string {
	if r.SideEffect {
		return "import '" + r.Source + "';"
	}
	parts := make([]string, 0, 2)
	if r.Default != "" {
		parts = append(parts, r.Default)
	}
	if r.Namespace != "" {
		parts = append(parts, "* as "+r.Namespace)
	}
	if len(r.Bindings) > 0 {
		specs := make([]string, 0, len(r.Bindings))
		for _, b := range r.Bindings {
			spec := b.Text
			if b.TypeOnly && !r.TypeOnly {
				spec = "type " + spec
			}
			specs = append(specs, spec)
		}
		parts = append(parts, "{ "+strings.Join(specs, ", ")+" }")
	}
	kw := "import "
	if r.TypeOnly {
		kw = "import type "
	}
	return kw + strings.Join(parts, ", ") + " from '" + r.Source + "';"
}

// Optimize keeps, per record, only the bindings whose local names occur as
// whole words in the final declaration text, and drops records left with
// none. Retained records sort preferred-first, then lexicographically by
// rendered text.
func Optimize(records []Record, declText string, preferredFirst []string) []Retained {
	used := source.Words(declText)
	retained := make([]Retained, 0, len(records))

	for _, rec := range records {
		if rec.SideEffect {
			retained = append(retained, Retained{Source: rec.Source, SideEffect: true, Raw: rec.Raw})
			continue
		}
		keep := Retained{Source: rec.Source, TypeOnly: rec.TypeOnly, Raw: rec.Raw}
		if rec.Default != "" {
			if _, ok := used[rec.Default]; ok {
				keep.Default = rec.Default
			}
		}
		if rec.Namespace != "" {
			if _, ok := used[rec.Namespace]; ok {
				keep.Namespace = rec.Namespace
			}
		}
		for _, b := range rec.Bindings {
			if _, ok := used[b.Local]; ok {
				keep.Bindings = append(keep.Bindings, b)
			}
		}
		if keep.Default == "" && keep.Namespace == "" && len(keep.Bindings) == 0 {
			continue
		}
		retained = append(retained, keep)
	}

	prefIndex := func(src string) int {
		for i, p := range preferredFirst {
			if p == src {
				return i
			}
		}
		return len(preferredFirst)
	}
	sort.SliceStable(retained, func(i, j int) bool {
		pi, pj := prefIndex(retained[i].Source), prefIndex(retained[j].Source)
		if pi != pj {
			return pi < pj
		}
		return retained[i].Render() < retained[j].Render()
	})
	return retained
}
