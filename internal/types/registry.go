// Package types implements Slang's type registry: interning of
// primitive and user-defined (struct) types behind a small opaque
// numeric handle, plus the compatibility and numeric-range queries the
// semantic analyzer and code generator both need.
package types

import (
	"fmt"
	"strings"
)

// ID is an opaque, interned handle for a type. IDs are stable within
// one compilation context and are never reused after a type is
// removed — removal is not a supported operation (spec.md §3,
// invariant 4).
type ID int32

// Built-in type IDs, pre-registered at fixed values (spec.md §3).
const (
	Bool ID = iota
	I32
	I64
	U32
	U64
	F32
	F64
	String
	Unit

	firstUserID = 100
)

// Kind discriminates the shape of a Type.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindFloat
	KindString
	KindUnit
	KindStruct
	KindFunction
)

// Field is one named, typed member of a struct type.
type Field struct {
	Name string
	Type ID
}

// Type is the registry's record for one interned type.
type Type struct {
	Kind Kind
	Name string

	// Integer / Float
	Signed bool // Integer only
	Width  int  // 32 or 64, Integer and Float

	// Struct
	Fields []Field

	// Function
	Params []ID
	Result ID
}

// Registry interns types and assigns them stable numeric IDs. The
// nine built-ins are registered by NewRegistry at fixed IDs; struct
// types receive IDs starting at 100 in registration order.
type Registry struct {
	types  map[ID]*Type
	byName map[string]ID
	nextID ID
}

// NewRegistry creates a Registry with the nine built-in types already
// registered at their fixed IDs.
func NewRegistry() *Registry {
	r := &Registry{
		types:  make(map[ID]*Type),
		byName: make(map[string]ID),
		nextID: firstUserID,
	}
	r.registerBuiltin(Bool, "bool", &Type{Kind: KindBool, Name: "bool"})
	r.registerBuiltin(I32, "i32", &Type{Kind: KindInteger, Name: "i32", Signed: true, Width: 32})
	r.registerBuiltin(I64, "i64", &Type{Kind: KindInteger, Name: "i64", Signed: true, Width: 64})
	r.registerBuiltin(U32, "u32", &Type{Kind: KindInteger, Name: "u32", Signed: false, Width: 32})
	r.registerBuiltin(U64, "u64", &Type{Kind: KindInteger, Name: "u64", Signed: false, Width: 64})
	r.registerBuiltin(F32, "f32", &Type{Kind: KindFloat, Name: "f32", Width: 32})
	r.registerBuiltin(F64, "f64", &Type{Kind: KindFloat, Name: "f64", Width: 64})
	r.registerBuiltin(String, "string", &Type{Kind: KindString, Name: "string"})
	r.registerBuiltin(Unit, "unit", &Type{Kind: KindUnit, Name: "unit"})
	return r
}

func (r *Registry) registerBuiltin(id ID, name string, t *Type) {
	r.types[id] = t
	r.byName[name] = id
}

// RegisterStruct interns a new struct type and returns its fresh ID.
// Callers must ensure name is not already registered (the semantic
// analyzer's declaration pass reports DuplicateSymbol before calling
// this).
func (r *Registry) RegisterStruct(name string, fields []Field) ID {
	id := r.nextID
	r.nextID++
	r.types[id] = &Type{Kind: KindStruct, Name: name, Fields: fields}
	r.byName[name] = id
	return id
}

// RegisterFunction interns a function signature type, used for
// function-typed symbols in the symbol table. Function types are not
// named in the byName index since Slang has no first-class function
// type syntax; they exist purely for the symbol table to record
// parameter/result shape.
func (r *Registry) RegisterFunction(params []ID, result ID) ID {
	id := r.nextID
	r.nextID++
	r.types[id] = &Type{Kind: KindFunction, Params: params, Result: result}
	return id
}

// Lookup returns the Type for id, or nil if id is not registered.
func (r *Registry) Lookup(id ID) *Type {
	return r.types[id]
}

// LookupByName resolves a type name (built-in or struct) to its ID.
func (r *Registry) LookupByName(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the registered name of id, or a placeholder if id is
// unknown (defensive formatting only; should not occur for a valid
// compilation).
func (r *Registry) Name(id ID) string {
	if t := r.Lookup(id); t != nil {
		if t.Kind == KindFunction {
			return r.functionSignature(t)
		}
		return t.Name
	}
	return fmt.Sprintf("<type %d>", int(id))
}

func (r *Registry) functionSignature(t *Type) string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = r.Name(p)
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), r.Name(t.Result))
}

// IsNumeric reports whether id names an integer or float type.
func (r *Registry) IsNumeric(id ID) bool {
	t := r.Lookup(id)
	return t != nil && (t.Kind == KindInteger || t.Kind == KindFloat)
}

// IsInteger reports whether id names an integer type.
func (r *Registry) IsInteger(id ID) bool {
	t := r.Lookup(id)
	return t != nil && t.Kind == KindInteger
}

// IsFloat reports whether id names a float type.
func (r *Registry) IsFloat(id ID) bool {
	t := r.Lookup(id)
	return t != nil && t.Kind == KindFloat
}

// IntegerRange returns the inclusive [min, max] range representable
// by an integer type, as int64 bounds; u64's max does not fit and is
// capped at math.MaxInt64. ok is false if id is not an integer type.
func (r *Registry) IntegerRange(id ID) (min, max int64, ok bool) {
	t := r.Lookup(id)
	if t == nil || t.Kind != KindInteger {
		return 0, 0, false
	}
	switch {
	case t.Signed && t.Width == 32:
		return -2147483648, 2147483647, true
	case t.Signed && t.Width == 64:
		return -9223372036854775808, 9223372036854775807, true
	case !t.Signed && t.Width == 32:
		return 0, 4294967295, true
	case !t.Signed && t.Width == 64:
		// math.MaxInt64 is the largest value representable in int64;
		// u64's true max (2^64-1) cannot be expressed as a signed
		// bound here. The semantic analyzer's u64 literal check parses
		// the digits with strconv.ParseUint instead of using this range.
		return 0, 9223372036854775807, true
	}
	return 0, 0, false
}
