// Package symtab implements Slang's scoped symbol table: resolution
// of variables, functions, and type names, with conflict detection
// within a single scope (spec.md §3).
package symtab

import (
	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/types"
)

// Kind discriminates what a Symbol names.
type Kind int

const (
	KindType Kind = iota
	KindVariable
	KindFunction
)

// Symbol is one entry in a scope: a name bound to a kind and a type,
// plus the span where it was defined (used for "previously declared
// here"-style diagnostics) and whether it may be reassigned.
type Symbol struct {
	Name    string
	Kind    Kind
	TypeID  types.ID
	Span    lexer.Span
	Mutable bool
}

// Table is one lexical scope. Lookups search the current scope and
// then each enclosing scope in turn (spec.md §3: "lookups search from
// innermost outward"). The global scope has a nil outer.
type Table struct {
	symbols map[string]*Symbol
	outer   *Table
}

// New creates a fresh top-level (global) scope.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// NewEnclosed creates a new scope nested inside outer, e.g. for a
// block, function body, or parameter list.
func NewEnclosed(outer *Table) *Table {
	return &Table{symbols: make(map[string]*Symbol), outer: outer}
}

// Outer returns the enclosing scope, or nil at the global scope.
func (t *Table) Outer() *Table {
	return t.outer
}

// Define adds sym to the current scope. It reports ok=false without
// modifying the table if a symbol with the same name already exists
// in this scope (spec.md §3, invariant 2: no two symbols sharing a
// name may exist in the same scope — shadowing an outer scope's name
// is fine, redefining within the same scope is not).
func (t *Table) Define(sym *Symbol) (ok bool) {
	if _, exists := t.symbols[sym.Name]; exists {
		return false
	}
	t.symbols[sym.Name] = sym
	return true
}

// Resolve looks up name starting in the current scope and searching
// outward. ok is false if no scope defines it.
func (t *Table) Resolve(name string) (sym *Symbol, ok bool) {
	for scope := t; scope != nil; scope = scope.outer {
		if s, exists := scope.symbols[name]; exists {
			return s, true
		}
	}
	return nil, false
}

// ResolveLocal looks up name only in the current scope, without
// searching outward.
func (t *Table) ResolveLocal(name string) (sym *Symbol, ok bool) {
	s, exists := t.symbols[name]
	return s, exists
}
