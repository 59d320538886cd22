package semantic

import (
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/symtab"
	"github.com/slanglang/slang/internal/types"
)

// FuncSig is a function's resolved parameter and result types, built
// during declaration collection and consulted by every later call site
// (spec.md §4.3 "Declaration collection").
type FuncSig struct {
	Params []types.ID
	Result types.ID
}

// StructInfo is a struct type's registry ID and its resolved field
// list, in declaration order (the positional layout the VM assumes).
type StructInfo struct {
	TypeID types.ID
	Fields []types.Field
}

// Context is the shared state threaded through every pass: the type
// registry, the symbol table (starting at the global scope), the
// collected diagnostics, and the function/struct signature tables
// built by declaration collection and consumed by body analysis.
type Context struct {
	Registry  *types.Registry
	Global    *symtab.Table
	Scope     *symtab.Table // current scope; starts equal to Global
	Collector *errors.Collector

	Functions map[string]*FuncSig
	Structs   map[string]*StructInfo

	CurrentFunc *FuncSig
}

// NewContext creates a Context with fresh registries and an empty
// global scope.
func NewContext(source, file string) *Context {
	global := symtab.New()
	return &Context{
		Registry:  types.NewRegistry(),
		Global:    global,
		Scope:     global,
		Collector: errors.NewCollector(source, file),
		Functions: make(map[string]*FuncSig),
		Structs:   make(map[string]*StructInfo),
	}
}

// PushScope enters a new, nested scope.
func (c *Context) PushScope() {
	c.Scope = symtab.NewEnclosed(c.Scope)
}

// PopScope leaves the current scope, returning to its parent.
func (c *Context) PopScope() {
	if outer := c.Scope.Outer(); outer != nil {
		c.Scope = outer
	}
}
