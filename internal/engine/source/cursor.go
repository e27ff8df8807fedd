// Package source provides the character-level lexical machinery shared by
// the declaration scanner, the inference engine, the import optimizer and
// the emitter: a finite-state cursor that tracks string/comment/template
// context and bracket depths, plus top-level splitting helpers built on it.
package source

import "fmt"

type State int

const (
	StateNormal State = iota
	StateLineComment
	StateBlockComment
	StateSingleQuote
	StateDoubleQuote
	StateTemplate
	StateTemplateExpr
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateLineComment:
		return "line-comment"
	case StateBlockComment:
		return "block-comment"
	case StateSingleQuote:
		return "single-quote"
	case StateDoubleQuote:
		return "double-quote"
	case StateTemplate:
		return "template"
	case StateTemplateExpr:
		return "template-expr"
	default:
		return "unknown"
	}
}

// Depth holds independent nesting counters for the three bracket kinds.
// Counters never go negative; an unmatched closer is ignored at zero.
type Depth struct {
	Curly  int
	Square int
	Paren  int
}

func (d Depth) Zero() bool {
	return d.Curly == 0 && d.Square == 0 && d.Paren == 0
}

// UnterminatedError reports a string, template or block comment left open
// at end of input.
type UnterminatedError struct {
	Position int
	Reason   string
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Position)
}

// Cursor is a resumable lexical scanner. Feed it text in chunks that never
// split a line (two-character tokens such as // and ${ are matched with
// single-byte lookahead inside one chunk).
type Cursor struct {
	state State
	depth Depth

	// ret is the code state (Normal or TemplateExpr) to restore when the
	// current quote or comment closes. Quotes and comments never nest.
	ret State
	// tmplRet stacks the code state to restore per nested template literal.
	tmplRet []State
	// exprBase stacks the curly depth at each ${ so the matching } can be
	// told apart from expression braces.
	exprBase []int

	escaped bool
	pos     int
	openPos int

	malformed *UnterminatedError
}

func NewCursor() *Cursor {
	return &Cursor{}
}

func (c *Cursor) State() State { return c.state }
func (c *Cursor) Depth() Depth { return c.depth }
func (c *Cursor) Pos() int     { return c.pos }

// AtTopLevel reports whether the cursor sits in plain code at zero bracket
// depth outside any string, comment or template.
func (c *Cursor) AtTopLevel() bool {
	return c.state == StateNormal && c.depth.Zero() && len(c.tmplRet) == 0
}

// InCode reports whether the current position is executable text rather
// than the inside of a string or comment.
func (c *Cursor) InCode() bool {
	return c.state == StateNormal || c.state == StateTemplateExpr
}

// Advance feeds a chunk of input through the state machine.
func (c *Cursor) Advance(chunk string) {
	for i := 0; i < len(chunk); {
		i = c.step(chunk, i)
	}
}

// Step consumes the token starting at s[i] (one byte, or two for paired
// tokens such as // and ${) and returns the next unconsumed index.
func (c *Cursor) Step(s string, i int) int {
	return c.step(s, i)
}

// Err returns the unterminated-context error accumulated so far, if any.
// A line comment open at end of input is not an error.
func (c *Cursor) Err() error {
	if c.malformed != nil {
		return c.malformed
	}
	switch c.state {
	case StateBlockComment:
		return &UnterminatedError{Position: c.openPos, Reason: "unterminated block comment"}
	case StateSingleQuote, StateDoubleQuote:
		return &UnterminatedError{Position: c.openPos, Reason: "unterminated string literal"}
	case StateTemplate, StateTemplateExpr:
		return &UnterminatedError{Position: c.openPos, Reason: "unterminated template literal"}
	}
	return nil
}

// step consumes chunk[i] (and its lookahead byte for two-character tokens)
// and returns the index of the next unconsumed byte.
func (c *Cursor) step(chunk string, i int) int {
	ch := chunk[i]
	next := byte(0)
	if i+1 < len(chunk) {
		next = chunk[i+1]
	}

	switch c.state {
	case StateNormal, StateTemplateExpr:
		switch {
		case ch == '/' && next == '/':
			c.ret = c.state
			c.state = StateLineComment
			c.pos += 2
			return i + 2
		case ch == '/' && next == '*':
			c.ret = c.state
			c.state = StateBlockComment
			c.openPos = c.pos
			c.pos += 2
			return i + 2
		case ch == '\'':
			c.ret = c.state
			c.state = StateSingleQuote
			c.openPos = c.pos
		case ch == '"':
			c.ret = c.state
			c.state = StateDoubleQuote
			c.openPos = c.pos
		case ch == '`':
			c.tmplRet = append(c.tmplRet, c.state)
			c.state = StateTemplate
			c.openPos = c.pos
		case ch == '{':
			c.depth.Curly++
		case ch == '}':
			if c.state == StateTemplateExpr && len(c.exprBase) > 0 && c.depth.Curly == c.exprBase[len(c.exprBase)-1] {
				c.exprBase = c.exprBase[:len(c.exprBase)-1]
				c.state = StateTemplate
			} else if c.depth.Curly > 0 {
				c.depth.Curly--
			}
		case ch == '[':
			c.depth.Square++
		case ch == ']':
			if c.depth.Square > 0 {
				c.depth.Square--
			}
		case ch == '(':
			c.depth.Paren++
		case ch == ')':
			if c.depth.Paren > 0 {
				c.depth.Paren--
			}
		}

	case StateLineComment:
		if ch == '\n' {
			c.state = c.ret
		}

	case StateBlockComment:
		if ch == '*' && next == '/' {
			c.state = c.ret
			c.pos += 2
			return i + 2
		}

	case StateSingleQuote, StateDoubleQuote:
		switch {
		case c.escaped:
			c.escaped = false
		case ch == '\\':
			c.escaped = true
		case ch == '\n':
			// Plain strings cannot span lines.
			if c.malformed == nil {
				c.malformed = &UnterminatedError{Position: c.openPos, Reason: "unterminated string literal"}
			}
			c.state = c.ret
		case ch == '\'' && c.state == StateSingleQuote:
			c.state = c.ret
		case ch == '"' && c.state == StateDoubleQuote:
			c.state = c.ret
		}

	case StateTemplate:
		switch {
		case c.escaped:
			c.escaped = false
		case ch == '\\':
			c.escaped = true
		case ch == '`':
			c.state = c.tmplRet[len(c.tmplRet)-1]
			c.tmplRet = c.tmplRet[:len(c.tmplRet)-1]
		case ch == '$' && next == '{':
			c.exprBase = append(c.exprBase, c.depth.Curly)
			c.state = StateTemplateExpr
			c.pos += 2
			return i + 2
		}
	}

	c.pos++
	return i + 1
}
