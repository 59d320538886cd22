// Package semantic resolves names, assigns a type to every expression,
// and enforces spec.md §4.3's type rules over a parsed ast.Program.
package semantic

import "github.com/slanglang/slang/internal/ast"

// Pass is a single semantic analysis pass. The two-pass design lets
// top-level struct and function declarations forward-reference each
// other: declaration collection runs first and registers signatures
// before any function body is analyzed.
type Pass interface {
	Name() string
	Run(program *ast.Program, ctx *Context)
}

// PassManager runs passes in order, stopping early once a pass has
// recorded a diagnostic (a later pass would otherwise walk an AST
// full of unresolved names and drown the real error in noise).
type PassManager struct {
	passes []Pass
}

// NewPassManager creates a PassManager running passes in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// RunAll runs every registered pass against program, short-circuiting
// after the first pass that leaves the context with diagnostics.
func (pm *PassManager) RunAll(program *ast.Program, ctx *Context) {
	for _, pass := range pm.passes {
		pass.Run(program, ctx)
		if ctx.Collector.HasErrors() {
			return
		}
	}
}
