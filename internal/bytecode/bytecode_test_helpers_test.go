package bytecode

import (
	"bytes"
	"testing"

	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/parser"
	"github.com/slanglang/slang/internal/semantic"
	"github.com/slanglang/slang/internal/types"
)

// compileSource runs the full front end (lex, parse, analyze, compile)
// on input and fails the test immediately on any error at any stage —
// a compile failure in one of these tests means the fixture itself is
// broken, not the thing under test.
func compileSource(t *testing.T, input string) (*Chunk, *types.Registry) {
	t.Helper()
	p := parser.New(lexer.New(input), input, "<test>")
	program := p.ParseProgram()
	if p.HasErrors() {
		t.Fatalf("parser errors: %v", p.Diagnostics())
	}
	ctx := semantic.Analyze(program, input, "<test>")
	if ctx.Collector.HasErrors() {
		t.Fatalf("semantic errors: %v", ctx.Collector.Diagnostics())
	}
	chunk, err := NewCompiler("<test>", ctx.Registry).Compile(program)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk, ctx.Registry
}

// runSource compiles input and runs it to completion, returning
// whatever print_value wrote and the run's resulting error (nil on a
// clean run).
func runSource(t *testing.T, input string) (string, error) {
	t.Helper()
	chunk, registry := compileSource(t, input)
	var out bytes.Buffer
	vm := NewVM(chunk, registry, &out)
	err := vm.Run()
	return out.String(), err
}
