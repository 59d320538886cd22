// Package errors provides Slang's diagnostic model: categorized error
// codes, source-span-aware formatting, and a collector that
// accumulates diagnostics across a compilation phase.
package errors

import (
	"fmt"
	"strings"

	"github.com/slanglang/slang/internal/lexer"
)

// Code is a categorized diagnostic code in the ranges from spec.md §7:
// lexical 1000-1099, parse 1100-1999, semantic 2000-2999, codegen
// 3000-3099, runtime 3100-3999.
type Code int

const (
	// Lexical.
	UnterminatedString Code = 1000 + iota
	UnterminatedComment
	InvalidEscape
	UnexpectedCharacter
)

const (
	// Parse.
	UnexpectedToken Code = 1100 + iota
	ExpectedExpression
	ExpectedType
	ExpectedIdentifier
	UnclosedBrace
	UnclosedParen
	InvalidStatement
)

const (
	// Semantic.
	UndefinedVariable Code = 2000 + iota
	UndefinedType
	UndefinedFunction
	TypeMismatch
	ArityMismatch
	LiteralOutOfRange
	AssignToImmutable
	DuplicateSymbol
	MissingReturn
	IfBranchTypeMismatch
)

const (
	// Codegen.
	InternalCodegenError Code = 3000 + iota
)

const (
	// Runtime.
	DivisionByZero Code = 3100 + iota
	StackOverflow
	IntegerOverflow
	UndefinedBuiltin
)

// Category classifies a Code into its phase.
type Category int

const (
	CategoryLexical Category = iota
	CategoryParse
	CategorySemantic
	CategoryCodegen
	CategoryRuntime
	CategoryUnknown
)

// Category reports which phase produced c.
func (c Code) Category() Category {
	switch {
	case c >= 1000 && c < 1100:
		return CategoryLexical
	case c >= 1100 && c < 2000:
		return CategoryParse
	case c >= 2000 && c < 3000:
		return CategorySemantic
	case c >= 3000 && c < 3100:
		return CategoryCodegen
	case c >= 3100 && c < 4000:
		return CategoryRuntime
	default:
		return CategoryUnknown
	}
}

// Diagnostic is a single compile-time or runtime error: a categorized
// code, a human message, the source span it concerns, and enough
// source context to render a caret under the offending text.
type Diagnostic struct {
	Code    Code
	Message string
	Span    lexer.Span
	Source  string
	File    string
}

// Error implements the error interface by rendering without color.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic in the shape required by spec.md §7:
//
//	error[E<code>]: <message>
//	 --> <path>:<line>:<col>
//	  |
//	N | <source line>
//	  | <caret(s) ^^^ under the offending span>
//
// If color is true, the code and carets are wrapped in ANSI escapes.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("error[E%04d]: %s", int(d.Code), d.Message)
	if color {
		header = "\033[1;31m" + header + "\033[0m"
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	file := d.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(&sb, " --> %s:%d:%d\n", file, d.Span.Start.Line, d.Span.Start.Column)

	line := d.sourceLine(d.Span.Start.Line)
	if line != "" {
		gutter := fmt.Sprintf("%d", d.Span.Start.Line)
		pad := strings.Repeat(" ", len(gutter))

		sb.WriteString(pad + " |\n")
		fmt.Fprintf(&sb, "%s | %s\n", gutter, line)

		caretCount := d.Span.End.Column - d.Span.Start.Column
		if caretCount < 1 {
			caretCount = 1
		}
		caret := strings.Repeat(" ", d.Span.Start.Column-1) + strings.Repeat("^", caretCount)
		if color {
			caret = "\033[1;31m" + caret + "\033[0m"
		}
		sb.WriteString(pad + " | " + caret + "\n")
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// New constructs a Diagnostic.
func New(code Code, message string, span lexer.Span, source, file string) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Span: span, Source: source, File: file}
}

// Collector accumulates diagnostics across a single compilation phase.
// Compile-time errors are accumulated rather than returned
// immediately (spec.md §7 Propagation); the phase runner inspects
// HasErrors after each phase and skips later phases if it is true.
type Collector struct {
	diagnostics []*Diagnostic
	source      string
	file        string
}

// NewCollector creates a Collector bound to the given source text and
// file name, used to build Diagnostics with the right context.
func NewCollector(source, file string) *Collector {
	return &Collector{source: source, file: file}
}

// Add records a new diagnostic.
func (c *Collector) Add(code Code, message string, span lexer.Span) {
	c.diagnostics = append(c.diagnostics, New(code, message, span, c.source, c.file))
}

// Diagnostics returns all diagnostics collected so far, in order.
func (c *Collector) Diagnostics() []*Diagnostic {
	return c.diagnostics
}

// HasErrors reports whether any diagnostic has been collected.
func (c *Collector) HasErrors() bool {
	return len(c.diagnostics) > 0
}

// FormatAll renders every diagnostic in order, separated by blank
// lines, matching the teacher's FormatErrors convention.
func FormatAll(diagnostics []*Diagnostic, color bool) string {
	var sb strings.Builder
	for i, d := range diagnostics {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Format(color))
	}
	return sb.String()
}
