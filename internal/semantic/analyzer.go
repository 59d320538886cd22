package semantic

import "github.com/slanglang/slang/internal/ast"

// Analyze runs declaration collection and body analysis over program,
// annotating every expression with its resolved type and returning the
// Context carrying the type registry, function/struct tables, and any
// diagnostics. Callers should check ctx.Collector.HasErrors() before
// handing program to the code generator.
func Analyze(program *ast.Program, source, file string) *Context {
	ctx := NewContext(source, file)
	pm := NewPassManager(DeclarationPass{}, BodyPass{})
	pm.RunAll(program, ctx)
	return ctx
}
