package errors

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/slanglang/slang/internal/lexer"
)

func span(line, startCol, endCol int) lexer.Span {
	return lexer.Span{
		Start: lexer.Position{Line: line, Column: startCol},
		End:   lexer.Position{Line: line, Column: endCol},
	}
}

func TestCodeCategory(t *testing.T) {
	cases := []struct {
		code Code
		want Category
	}{
		{UnterminatedString, CategoryLexical},
		{UnexpectedToken, CategoryParse},
		{TypeMismatch, CategorySemantic},
		{InternalCodegenError, CategoryCodegen},
		{DivisionByZero, CategoryRuntime},
	}
	for _, c := range cases {
		if got := c.code.Category(); got != c.want {
			t.Errorf("Code(%d).Category() = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestDiagnosticFormatRendersCaretUnderSpan(t *testing.T) {
	source := "let y: i32 = x;"
	d := New(UndefinedVariable, "Undefined variable: x", span(1, 14, 15), source, "main.sl")

	got := d.Format(false)
	snaps.MatchSnapshot(t, "undefined_variable_format", got)

	if !strings.Contains(got, "error[E2000]") {
		t.Errorf("expected error code header, got:\n%s", got)
	}
	if !strings.Contains(got, "main.sl:1:14") {
		t.Errorf("expected position header, got:\n%s", got)
	}
	if !strings.Contains(got, "let y: i32 = x;") {
		t.Errorf("expected source line, got:\n%s", got)
	}
}

func TestDiagnosticFormatColor(t *testing.T) {
	d := New(TypeMismatch, "type mismatch", span(1, 1, 2), "x", "")
	got := d.Format(true)
	if !strings.Contains(got, "\033[") {
		t.Errorf("expected ANSI escapes when color=true, got:\n%s", got)
	}
}

func TestCollectorAccumulatesAndStopsPhase(t *testing.T) {
	c := NewCollector("let x = ;", "main.sl")
	if c.HasErrors() {
		t.Fatalf("fresh collector should have no errors")
	}
	c.Add(ExpectedExpression, "expected expression", span(1, 9, 10))
	if !c.HasErrors() {
		t.Fatalf("expected HasErrors to be true after Add")
	}
	if len(c.Diagnostics()) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(c.Diagnostics()))
	}
}

func TestFormatAllSeparatesDiagnostics(t *testing.T) {
	diags := []*Diagnostic{
		New(UndefinedVariable, "Undefined variable: a", span(1, 1, 2), "a", "f.sl"),
		New(UndefinedVariable, "Undefined variable: b", span(2, 1, 2), "a\nb", "f.sl"),
	}
	out := FormatAll(diags, false)
	if strings.Count(out, "error[E2000]") != 2 {
		t.Fatalf("expected two formatted diagnostics, got:\n%s", out)
	}
}
