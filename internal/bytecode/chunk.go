package bytecode

import (
	"encoding/binary"

	"github.com/slanglang/slang/internal/types"
)

// ConstKind tags one entry of a Chunk's constant pool.
type ConstKind byte

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
)

// Constant is one entry of the constant pool (spec.md §3 "Bytecode
// chunk"): a tagged literal value baked into the chunk at compile
// time and pushed onto the stack by OpConstant. The wire format
// (spec.md §6) tags constants with only four kinds (int/float/
// string/bool), erasing numeric width — NumericKind is an in-memory
// extra, set by the compiler from the literal's resolved type and
// preserved across a disassembly pass, so OpConstant can push a
// precisely-tagged Value even though the width isn't part of the
// serialized entry. A chunk freshly deserialized from disk has it
// zero (KindUnit) and falls back to the widest same-family kind.
type Constant struct {
	Kind        ConstKind
	Int         int64
	Float       float64
	String      string
	Bool        bool
	NumericKind ValueKind
}

// FunctionEntry is one row of a chunk's function table: everything the
// VM needs to set up a call without re-reading the AST (spec.md §3).
// ResultType is the registered type ID of the declared result (types.
// Unit when the function declares none), matching the wire format's
// result_type_id:u16 field (spec.md §6) rather than collapsing it to a
// bare is-unit flag.
type FunctionEntry struct {
	Name        string
	ParamCount  int
	ResultType  types.ID
	EntryOffset int
	LocalCount  int
}

// lineEntry is one run of the line table: code offsets from Offset
// onward (until the next entry) map to Line (spec.md §4.4 "Line
// table" — run-length-encoded, only changes are stored).
type lineEntry struct {
	Offset int
	Line   int
}

// Chunk is a self-contained bytecode program unit: instructions, the
// constant pool, the function table, and the source line table.
type Chunk struct {
	Name      string
	Code      []byte
	Constants []Constant
	Functions []FunctionEntry

	// TopLevelEnd is the byte offset one past the script's top-level
	// code; function bodies are appended after it, so the VM knows
	// where top-level execution completes without scanning for a
	// sentinel (spec.md §4.5 "execution begins at offset 0").
	TopLevelEnd int

	// TopLevelLocals is the number of local slots frame 0 (the
	// top-level script itself) needs: top-level can contain its own
	// nested blocks with `let`s that are locals, not globals, exactly
	// like a function body's nested blocks.
	TopLevelLocals int

	lines    []lineEntry
	lastLine int
}

// NewChunk creates an empty chunk.
func NewChunk(name string) *Chunk {
	return &Chunk{Name: name, lastLine: -1}
}

// emit appends a single opcode byte at the given source line, growing
// the line table only when the line changes (run-length encoding).
func (c *Chunk) emit(op OpCode, line int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.markLine(offset, line)
	return offset
}

func (c *Chunk) markLine(offset, line int) {
	if line != c.lastLine {
		c.lines = append(c.lines, lineEntry{Offset: offset, Line: line})
		c.lastLine = line
	}
}

func (c *Chunk) emitByte(b byte) {
	c.Code = append(c.Code, b)
}

func (c *Chunk) emitU16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	c.Code = append(c.Code, buf[:]...)
}

func (c *Chunk) patchU16(offset int, v uint16) {
	binary.BigEndian.PutUint16(c.Code[offset:offset+2], v)
}

func (c *Chunk) readU16(offset int) uint16 {
	return binary.BigEndian.Uint16(c.Code[offset : offset+2])
}

// addConstant interns value in the constant pool, returning its index.
// Constants are not deduplicated: the codegen grain is "one constant
// per literal occurrence", which keeps the compiler simple at the cost
// of a few duplicate pool entries.
func (c *Chunk) addConstant(v Constant) uint16 {
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// LineForOffset returns the source line that produced the instruction
// at offset, by scanning the run-length-encoded line table (spec.md
// §8 "the line-table lookup returns a line within the original
// source's range").
func (c *Chunk) LineForOffset(offset int) int {
	line := 0
	for _, e := range c.lines {
		if e.Offset > offset {
			break
		}
		line = e.Line
	}
	return line
}
