package bytecode

import (
	"fmt"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/types"
)

// localScope is one nested block's slot bindings within the function
// currently being compiled; scopes chain to their enclosing block so
// inner blocks can still see outer locals of the *same* function.
type localScope struct {
	vars  map[string]int
	outer *localScope
}

func newLocalScope(outer *localScope) *localScope {
	return &localScope{vars: make(map[string]int), outer: outer}
}

func (s *localScope) resolve(name string) (int, bool) {
	for scope := s; scope != nil; scope = scope.outer {
		if slot, ok := scope.vars[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// funcCompiler tracks local-slot allocation for one function body (or,
// for frame 0, the top-level script's own nested-block locals).
type funcCompiler struct {
	locals   *localScope
	nextSlot int
	maxSlot  int
}

func newFuncCompiler() *funcCompiler {
	return &funcCompiler{locals: newLocalScope(nil)}
}

func (f *funcCompiler) pushScope() { f.locals = newLocalScope(f.locals) }
func (f *funcCompiler) popScope()  { f.locals = f.locals.outer }

func (f *funcCompiler) define(name string) int {
	slot := f.nextSlot
	f.nextSlot++
	if f.nextSlot > f.maxSlot {
		f.maxSlot = f.nextSlot
	}
	f.locals.vars[name] = slot
	return slot
}

// Compiler lowers a semantically validated *ast.Program into a single
// Chunk (spec.md §4.4). Top-level `let` bindings become globals,
// visible from every function (nested functions chain only from
// global scope, per the semantic analyzer's no-closures rule); every
// other `let` — inside a function body or a nested block at the
// script's top level — becomes a local slot in its enclosing frame.
type Compiler struct {
	chunk     *Chunk
	registry  *types.Registry
	globals   map[string]uint16
	funcIndex map[string]int
	pending   []*ast.FunctionDecl
}

// NewCompiler creates a Compiler that will produce a chunk named name
// (conventionally the source file path, used in diagnostics). registry
// is the same type registry the semantic analyzer resolved the
// program's types against, needed to turn a declared result type name
// into the type_id the wire format's function table stores.
func NewCompiler(name string, registry *types.Registry) *Compiler {
	return &Compiler{
		chunk:     NewChunk(name),
		registry:  registry,
		globals:   make(map[string]uint16),
		funcIndex: make(map[string]int),
	}
}

// Compile lowers program into a bytecode Chunk. program must already
// be free of semantic diagnostics (spec.md §8: "For all ill-typed
// programs, codegen is not invoked").
func (c *Compiler) Compile(program *ast.Program) (*Chunk, error) {
	c.collectFunctionSignatures(program.Statements)

	top := newFuncCompiler()
	for _, stmt := range program.Statements {
		c.compileStmt(top, stmt, true)
	}
	c.chunk.TopLevelEnd = len(c.chunk.Code)
	c.chunk.TopLevelLocals = top.maxSlot

	for _, decl := range c.pending {
		if err := c.compileFunctionBody(decl); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

// resultTypeID resolves a function's declared result type name to its
// registry ID, the same lookup internal/semantic's resolveTypeName
// does; an empty name means unit (spec.md §4.2 "result type name is
// empty/\"unit\" if none declared"). Semantic analysis already
// rejected an undefined type name, so a miss here cannot occur for a
// program this Compiler is ever handed.
func (c *Compiler) resultTypeID(name string) types.ID {
	if name == "" {
		return types.Unit
	}
	if id, ok := c.registry.LookupByName(name); ok {
		return id
	}
	return types.Unit
}

// collectFunctionSignatures walks the whole tree (nested fns included,
// same recursion the semantic declaration pass uses) registering a
// FunctionEntry placeholder per function so forward/self calls resolve
// to a stable index before any body is compiled.
func (c *Compiler) collectFunctionSignatures(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		c.collectSignaturesInStmt(stmt)
	}
}

func (c *Compiler) collectSignaturesInStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FunctionDecl:
		idx := len(c.chunk.Functions)
		c.funcIndex[s.Name] = idx
		c.chunk.Functions = append(c.chunk.Functions, FunctionEntry{
			Name:       s.Name,
			ParamCount: len(s.Params),
			ResultType: c.resultTypeID(s.ResultType),
		})
		c.pending = append(c.pending, s)
		c.collectFunctionSignatures(s.Body.Statements)
		if s.Body.Tail != nil {
			c.collectSignaturesInExpr(s.Body.Tail)
		}
	case *ast.LetStmt:
		c.collectSignaturesInExpr(s.Init)
	case *ast.AssignStmt:
		c.collectSignaturesInExpr(s.Value)
	case *ast.ExprStmt:
		c.collectSignaturesInExpr(s.X)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.collectSignaturesInExpr(s.Value)
		}
	case *ast.If:
		c.collectSignaturesInExpr(s.Cond)
		c.collectFunctionSignatures(s.Then.Statements)
		if s.Then.Tail != nil {
			c.collectSignaturesInExpr(s.Then.Tail)
		}
		c.collectSignaturesInElse(s.Else)
	}
}

func (c *Compiler) collectSignaturesInElse(e ast.Expr) {
	switch arm := e.(type) {
	case *ast.Block:
		c.collectFunctionSignatures(arm.Statements)
		if arm.Tail != nil {
			c.collectSignaturesInExpr(arm.Tail)
		}
	case *ast.If:
		c.collectSignaturesInStmt(arm)
	}
}

func (c *Compiler) collectSignaturesInExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Block:
		c.collectFunctionSignatures(expr.Statements)
		if expr.Tail != nil {
			c.collectSignaturesInExpr(expr.Tail)
		}
	case *ast.If:
		c.collectSignaturesInExpr(expr.Cond)
		c.collectFunctionSignatures(expr.Then.Statements)
		if expr.Then.Tail != nil {
			c.collectSignaturesInExpr(expr.Then.Tail)
		}
		c.collectSignaturesInElse(expr.Else)
	case *ast.Unary:
		c.collectSignaturesInExpr(expr.Operand)
	case *ast.Binary:
		c.collectSignaturesInExpr(expr.Left)
		c.collectSignaturesInExpr(expr.Right)
	case *ast.Call:
		for _, arg := range expr.Args {
			c.collectSignaturesInExpr(arg)
		}
	}
}

func (c *Compiler) compileFunctionBody(decl *ast.FunctionDecl) error {
	idx := c.funcIndex[decl.Name]
	fc := newFuncCompiler()
	for _, p := range decl.Params {
		fc.define(p.Name)
	}

	entryOffset := len(c.chunk.Code)
	if err := c.compileBlockValue(fc, decl.Body); err != nil {
		return err
	}
	c.chunk.emit(OpReturn, decl.Body.Span().Start.Line)

	entry := c.chunk.Functions[idx]
	entry.EntryOffset = entryOffset
	entry.LocalCount = fc.maxSlot
	c.chunk.Functions[idx] = entry
	return nil
}

// compileStmt compiles one statement. atProgramDepth is true only
// while directly walking Program.Statements (not inside any block),
// the condition under which a `let` becomes a global rather than a
// local slot in fc.
func (c *Compiler) compileStmt(fc *funcCompiler, stmt ast.Stmt, atProgramDepth bool) error {
	line := stmt.Span().Start.Line
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if err := c.compileExpr(fc, s.Init); err != nil {
			return err
		}
		if atProgramDepth {
			idx := c.defineGlobal(s.Name)
			c.chunk.emit(OpStoreGlobal, line)
			c.chunk.emitU16(idx)
		} else {
			slot := fc.define(s.Name)
			c.chunk.emit(OpStoreLocal, line)
			c.chunk.emitByte(byte(slot))
		}
		return nil
	case *ast.AssignStmt:
		if err := c.compileExpr(fc, s.Value); err != nil {
			return err
		}
		return c.emitStore(fc, s.Name, line)
	case *ast.ExprStmt:
		if err := c.compileExpr(fc, s.X); err != nil {
			return err
		}
		c.chunk.emit(OpPop, line)
		return nil
	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := c.compileExpr(fc, s.Value); err != nil {
				return err
			}
		} else {
			c.chunk.emit(OpNil, line)
		}
		c.chunk.emit(OpReturn, line)
		return nil
	case *ast.If:
		return c.compileIf(fc, s, false)
	case *ast.FunctionDecl:
		return nil // compiled later from c.pending
	case *ast.StructDecl:
		return nil // a type declaration only; already registered by the semantic analyzer
	case *ast.ErrorStmt:
		return nil
	default:
		return fmt.Errorf("bytecode: unsupported statement %T", stmt)
	}
}

func (c *Compiler) emitStore(fc *funcCompiler, name string, line int) error {
	if slot, ok := fc.locals.resolve(name); ok {
		c.chunk.emit(OpStoreLocal, line)
		c.chunk.emitByte(byte(slot))
		return nil
	}
	if idx, ok := c.globals[name]; ok {
		c.chunk.emit(OpStoreGlobal, line)
		c.chunk.emitU16(idx)
		return nil
	}
	return fmt.Errorf("bytecode: assignment to undefined name %q", name)
}

func (c *Compiler) defineGlobal(name string) uint16 {
	idx := uint16(len(c.globals))
	c.globals[name] = idx
	return idx
}

// compileIf lowers `if cond { A } else { B }` with the standard
// two-jump pattern (spec.md §4.4 "Control flow"). asValue indicates
// whether the surrounding expression context wants the if's resolved
// value left on the stack; when false (statement position) any value
// produced by a branch must still be popped to keep the stack balanced.
func (c *Compiler) compileIf(fc *funcCompiler, ifNode *ast.If, asValue bool) error {
	line := ifNode.Span().Start.Line
	if err := c.compileExpr(fc, ifNode.Cond); err != nil {
		return err
	}
	c.chunk.emit(OpJumpIfFalse, line)
	elseJumpOperand := len(c.chunk.Code)
	c.chunk.emitU16(0)

	if err := c.compileBranchValue(fc, ifNode.Then, asValue); err != nil {
		return err
	}

	c.chunk.emit(OpJump, line)
	endJumpOperand := len(c.chunk.Code)
	c.chunk.emitU16(0)

	c.chunk.patchU16(elseJumpOperand, uint16(len(c.chunk.Code)))

	switch elseArm := ifNode.Else.(type) {
	case nil:
		if asValue {
			c.chunk.emit(OpNil, line)
		}
	case *ast.Block:
		if err := c.compileBranchValue(fc, elseArm, asValue); err != nil {
			return err
		}
	case *ast.If:
		if err := c.compileIf(fc, elseArm, asValue); err != nil {
			return err
		}
	}

	c.chunk.patchU16(endJumpOperand, uint16(len(c.chunk.Code)))
	return nil
}

func (c *Compiler) compileBranchValue(fc *funcCompiler, block *ast.Block, asValue bool) error {
	if asValue {
		return c.compileBlockValue(fc, block)
	}
	return c.compileBlockDiscard(fc, block)
}

// compileBlockValue compiles block leaving its resolved value (the
// tail expression, or unit) on the stack.
func (c *Compiler) compileBlockValue(fc *funcCompiler, block *ast.Block) error {
	fc.pushScope()
	defer fc.popScope()
	for _, stmt := range block.Statements {
		if err := c.compileStmt(fc, stmt, false); err != nil {
			return err
		}
	}
	if block.Tail == nil {
		c.chunk.emit(OpNil, block.Span().End.Line)
		return nil
	}
	return c.compileExpr(fc, block.Tail)
}

// compileBlockDiscard compiles block for its side effects only,
// leaving the stack exactly as it was before the block (used for `if`
// used as a statement).
func (c *Compiler) compileBlockDiscard(fc *funcCompiler, block *ast.Block) error {
	fc.pushScope()
	defer fc.popScope()
	for _, stmt := range block.Statements {
		if err := c.compileStmt(fc, stmt, false); err != nil {
			return err
		}
	}
	if block.Tail != nil {
		if err := c.compileExpr(fc, block.Tail); err != nil {
			return err
		}
		c.chunk.emit(OpPop, block.Span().End.Line)
	}
	return nil
}

func (c *Compiler) compileExpr(fc *funcCompiler, e ast.Expr) error {
	line := e.Span().Start.Line
	switch expr := e.(type) {
	case *ast.Literal:
		return c.compileLiteral(expr)
	case *ast.Identifier:
		if slot, ok := fc.locals.resolve(expr.Name); ok {
			c.chunk.emit(OpLoadLocal, line)
			c.chunk.emitByte(byte(slot))
			return nil
		}
		if idx, ok := c.globals[expr.Name]; ok {
			c.chunk.emit(OpLoadGlobal, line)
			c.chunk.emitU16(idx)
			return nil
		}
		return fmt.Errorf("bytecode: reference to undefined name %q", expr.Name)
	case *ast.Unary:
		if err := c.compileExpr(fc, expr.Operand); err != nil {
			return err
		}
		return c.compileUnaryOp(expr, line)
	case *ast.Binary:
		return c.compileBinary(fc, expr, line)
	case *ast.Call:
		return c.compileCall(fc, expr, line)
	case *ast.Block:
		return c.compileBlockValue(fc, expr)
	case *ast.If:
		return c.compileIf(fc, expr, true)
	case *ast.ErrorExpr:
		return fmt.Errorf("bytecode: cannot compile an error node")
	default:
		return fmt.Errorf("bytecode: unsupported expression %T", e)
	}
}

func (c *Compiler) compileLiteral(lit *ast.Literal) error {
	line := lit.Span().Start.Line
	switch lit.Kind {
	case ast.LiteralUnit:
		c.chunk.emit(OpNil, line)
		return nil
	case ast.LiteralBool:
		idx := c.chunk.addConstant(Constant{Kind: ConstBool, Bool: lit.Bool})
		c.chunk.emit(OpConstant, line)
		c.chunk.emitU16(idx)
		return nil
	case ast.LiteralString:
		idx := c.chunk.addConstant(Constant{Kind: ConstString, String: lit.Str})
		c.chunk.emit(OpConstant, line)
		c.chunk.emitU16(idx)
		return nil
	case ast.LiteralInt:
		v, err := parseIntLiteralValue(lit)
		if err != nil {
			return err
		}
		idx := c.chunk.addConstant(Constant{Kind: ConstInt, Int: v, NumericKind: valueKindForType(lit.Type())})
		c.chunk.emit(OpConstant, line)
		c.chunk.emitU16(idx)
		return nil
	case ast.LiteralFloat:
		v, err := parseFloatLiteralValue(lit)
		if err != nil {
			return err
		}
		idx := c.chunk.addConstant(Constant{Kind: ConstFloat, Float: v, NumericKind: valueKindForType(lit.Type())})
		c.chunk.emit(OpConstant, line)
		c.chunk.emitU16(idx)
		return nil
	default:
		return fmt.Errorf("bytecode: unsupported literal kind %v", lit.Kind)
	}
}

func (c *Compiler) compileUnaryOp(u *ast.Unary, line int) error {
	switch u.Op {
	case ast.UnaryNeg:
		c.chunk.emit(OpNeg, line)
		return nil
	case ast.UnaryNot:
		c.chunk.emit(OpNot, line)
		return nil
	default:
		return fmt.Errorf("bytecode: unsupported unary operator %v", u.Op)
	}
}

func (c *Compiler) compileBinary(fc *funcCompiler, b *ast.Binary, line int) error {
	switch b.Op {
	case ast.BinAnd:
		return c.compileShortCircuit(fc, b, false)
	case ast.BinOr:
		return c.compileShortCircuit(fc, b, true)
	}

	if err := c.compileExpr(fc, b.Left); err != nil {
		return err
	}
	if err := c.compileExpr(fc, b.Right); err != nil {
		return err
	}

	if b.Op.IsRelational() || b.Op.IsEquality() {
		c.chunk.emit(relationalOpcode(b.Op), line)
		return nil
	}

	op, err := arithmeticOpcode(b.Op, b.Left.Type())
	if err != nil {
		return err
	}
	c.chunk.emit(op, line)
	return nil
}

// compileShortCircuit lowers && and || into the same jump primitives
// used for `if` (spec.md §4.4): `a && b` skips evaluating b when a is
// already false; `a || b` skips it when a is already true.
func (c *Compiler) compileShortCircuit(fc *funcCompiler, b *ast.Binary, isOr bool) error {
	line := b.Span().Start.Line
	if err := c.compileExpr(fc, b.Left); err != nil {
		return err
	}
	c.chunk.emit(OpDup, line)
	if isOr {
		c.chunk.emit(OpNot, line)
	}
	c.chunk.emit(OpJumpIfFalse, line)
	shortCircuitJump := len(c.chunk.Code)
	c.chunk.emitU16(0)

	c.chunk.emit(OpPop, line) // discard the left value now that we need the right one
	if err := c.compileExpr(fc, b.Right); err != nil {
		return err
	}
	c.chunk.emit(OpJump, line)
	endJump := len(c.chunk.Code)
	c.chunk.emitU16(0)

	// Both jumps land here: the short-circuit path leaves the left
	// value on the stack (already the result when && sees false or ||
	// sees true); the evaluated path leaves the right value instead.
	target := uint16(len(c.chunk.Code))
	c.chunk.patchU16(shortCircuitJump, target)
	c.chunk.patchU16(endJump, target)
	return nil
}

func (c *Compiler) compileCall(fc *funcCompiler, call *ast.Call, line int) error {
	if nativeIdx, ok := nativeIndex[call.Callee]; ok {
		for _, arg := range call.Args {
			if err := c.compileExpr(fc, arg); err != nil {
				return err
			}
		}
		c.chunk.emit(OpCallNative, line)
		c.chunk.emitByte(byte(nativeIdx))
		c.chunk.emitByte(byte(len(call.Args)))
		return nil
	}

	funcIdx, ok := c.funcIndex[call.Callee]
	if !ok {
		return fmt.Errorf("bytecode: call to unresolved function %q", call.Callee)
	}
	for _, arg := range call.Args {
		if err := c.compileExpr(fc, arg); err != nil {
			return err
		}
	}
	c.chunk.emit(OpCall, line)
	c.chunk.emitU16(uint16(funcIdx))
	c.chunk.emitByte(byte(len(call.Args)))
	return nil
}

func relationalOpcode(op ast.BinaryOp) OpCode {
	switch op {
	case ast.BinEq:
		return OpEq
	case ast.BinNe:
		return OpNe
	case ast.BinLt:
		return OpLt
	case ast.BinLe:
		return OpLe
	case ast.BinGt:
		return OpGt
	case ast.BinGe:
		return OpGe
	default:
		return OpEq
	}
}

// arithmeticOpcode picks the typed opcode matching operandType (the
// left operand's resolved type; the semantic analyzer already
// guarantees both operands share it).
func arithmeticOpcode(op ast.BinaryOp, operandType types.ID) (OpCode, error) {
	table, ok := arithmeticOpcodes[operandType]
	if !ok {
		return 0, fmt.Errorf("bytecode: arithmetic on non-numeric type %d", operandType)
	}
	code, ok := table[op]
	if !ok {
		return 0, fmt.Errorf("bytecode: operator %v not supported for this type", op)
	}
	return code, nil
}

var arithmeticOpcodes = map[types.ID]map[ast.BinaryOp]OpCode{
	types.I32: {ast.BinAdd: OpAddI32, ast.BinSub: OpSubI32, ast.BinMul: OpMulI32, ast.BinDiv: OpDivI32, ast.BinMod: OpModI32},
	types.I64: {ast.BinAdd: OpAddI64, ast.BinSub: OpSubI64, ast.BinMul: OpMulI64, ast.BinDiv: OpDivI64, ast.BinMod: OpModI64},
	types.U32: {ast.BinAdd: OpAddU32, ast.BinSub: OpSubU32, ast.BinMul: OpMulU32, ast.BinDiv: OpDivU32, ast.BinMod: OpModU32},
	types.U64: {ast.BinAdd: OpAddU64, ast.BinSub: OpSubU64, ast.BinMul: OpMulU64, ast.BinDiv: OpDivU64, ast.BinMod: OpModU64},
	types.F32: {ast.BinAdd: OpAddF32, ast.BinSub: OpSubF32, ast.BinMul: OpMulF32, ast.BinDiv: OpDivF32},
	types.F64: {ast.BinAdd: OpAddF64, ast.BinSub: OpSubF64, ast.BinMul: OpMulF64, ast.BinDiv: OpDivF64},
}
