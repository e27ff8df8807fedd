// Package scanner extracts top-level declarations from module source text
// in a single string/comment-aware pass. It performs no type checking and
// silently skips constructs it does not recognise; the only failure mode
// is lexically broken input (unterminated strings or comments).
package scanner

import "fmt"

type Kind int

const (
	KindImport Kind = iota
	KindExport
	KindFunction
	KindVariable
	KindInterface
	KindTypeAlias
	KindClass
	KindEnum
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindExport:
		return "export"
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindInterface:
		return "interface"
	case KindTypeAlias:
		return "type"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Signature is one function signature: an overload or the implementation.
type Signature struct {
	Generics   string
	Params     string
	ReturnType string
	Async      bool
}

// Declaration is one top-level construct. Raw always holds the original
// span; the parsed fields cover what the emitter needs per kind.
type Declaration struct {
	Kind           Kind
	Name           string
	Raw            string
	LeadingComment string

	Exported bool
	Default  bool
	TypeOnly bool

	// Variables.
	Binding        string
	TypeAnnotation string
	Value          string

	// Functions. After overload grouping, Signatures carries every line to
	// emit in order; HasBody marks the scanned instance that had one.
	Signatures []Signature
	HasBody    bool

	// Interfaces, classes, enums, namespaces: opaque balanced body span
	// including the braces.
	Body string

	Generics   string
	Extends    string
	Implements string
	AliasType  string

	Abstract  bool
	ConstEnum bool
	Namespace bool
	Ambient   bool
}

// ScanError is the single fatal failure of a scan: lexically unterminated
// input. Position is a byte offset into the source.
type ScanError struct {
	Position int
	Reason   string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Position)
}
