package semantic

import (
	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/errors"
	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/types"
)

// resolveTypeName maps a type name as written in source to its
// registry ID. An empty name (no declared type) resolves to unit, the
// convention the parser uses for an omitted `-> ResultType`.
func resolveTypeName(ctx *Context, name string, span lexer.Span) types.ID {
	if name == "" {
		return types.Unit
	}
	id, ok := ctx.Registry.LookupByName(name)
	if !ok {
		ctx.Collector.Add(errors.UndefinedType, "undefined type '"+name+"'", span)
		return ast.NoType
	}
	return id
}

func isErrorType(id types.ID) bool {
	return id == ast.NoType
}
