package bytecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/slanglang/slang/internal/types"
)

// Disassembler renders a Chunk's instructions as human-readable text:
// offset, source line, opcode name, and resolved operands. Grounded on
// the teacher's Disassembler (disasm.go), adapted for Slang's
// variable-length byte-oriented encoding (spec.md §4.4 "each opcode is
// one byte; operands follow inline") rather than the teacher's
// fixed-width Instruction word — DisassembleInstruction therefore
// returns the next offset to visit instead of assuming every
// instruction is the same width.
type Disassembler struct {
	writer   io.Writer
	chunk    *Chunk
	registry *types.Registry
}

// NewDisassembler creates a disassembler for chunk, writing to w.
// registry is optional (nil falls back to showing "unit" for every
// function's result); pass it to resolve function result types.
func NewDisassembler(chunk *Chunk, w io.Writer, registry *types.Registry) *Disassembler {
	return &Disassembler{writer: w, chunk: chunk, registry: registry}
}

// Disassemble prints the whole chunk: header, constant pool, function
// table, then every instruction in the code stream.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "== %s ==\n", d.chunk.Name)
	fmt.Fprintf(d.writer, "Code: %d bytes, Constants: %d, Functions: %d\n\n",
		len(d.chunk.Code), len(d.chunk.Constants), len(d.chunk.Functions))

	if len(d.chunk.Constants) > 0 {
		fmt.Fprintf(d.writer, "Constants:\n")
		for i, c := range d.chunk.Constants {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, describeConstant(c))
		}
		fmt.Fprintf(d.writer, "\n")
	}

	if len(d.chunk.Functions) > 0 {
		fmt.Fprintf(d.writer, "Functions:\n")
		for i, fn := range d.chunk.Functions {
			resultName := "unit"
			if d.registry != nil {
				resultName = d.registry.Name(fn.ResultType)
			}
			fmt.Fprintf(d.writer, "  [%04d] %s(params=%d) entry=%04d locals=%d result=%s\n",
				i, fn.Name, fn.ParamCount, fn.EntryOffset, fn.LocalCount, resultName)
		}
		fmt.Fprintf(d.writer, "\n")
	}

	fmt.Fprintf(d.writer, "Code:\n")
	for offset := 0; offset < len(d.chunk.Code); {
		offset = d.DisassembleInstruction(offset)
	}
}

func describeConstant(c Constant) string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%s %d", c.NumericKind, c.Int)
	case ConstFloat:
		return fmt.Sprintf("%s %g", c.NumericKind, c.Float)
	case ConstString:
		return fmt.Sprintf("string %q", c.String)
	case ConstBool:
		return fmt.Sprintf("bool %t", c.Bool)
	default:
		return "?"
	}
}

// DisassembleInstruction prints the instruction at offset and returns
// the offset of the one that follows it.
func (d *Disassembler) DisassembleInstruction(offset int) int {
	if offset < 0 || offset >= len(d.chunk.Code) {
		fmt.Fprintf(d.writer, "invalid offset: %d\n", offset)
		return offset + 1
	}

	d.printHeader(offset)
	op := OpCode(d.chunk.Code[offset])

	switch op {
	case OpConstant:
		return d.idx16Instruction(op, offset, "const")
	case OpLoadLocal, OpStoreLocal:
		return d.slot8Instruction(op, offset)
	case OpLoadGlobal, OpStoreGlobal:
		return d.idx16Instruction(op, offset, "global")
	case OpJump, OpJumpIfFalse:
		return d.jumpInstruction(op, offset)
	case OpCall:
		return d.callInstruction(op, offset)
	case OpCallNative:
		return d.callNativeInstruction(op, offset)
	case OpMakeStruct:
		return d.makeStructInstruction(op, offset)
	case OpGetField:
		return d.slot8Instruction(op, offset)
	default:
		fmt.Fprintf(d.writer, "%s\n", op)
		return offset + 1
	}
}

func (d *Disassembler) printHeader(offset int) {
	line := d.chunk.LineForOffset(offset)
	if offset > 0 && line == d.chunk.LineForOffset(offset-1) {
		fmt.Fprintf(d.writer, "%04d    | ", offset)
	} else {
		fmt.Fprintf(d.writer, "%04d %4d ", offset, line)
	}
}

func (d *Disassembler) idx16Instruction(op OpCode, offset int, label string) int {
	idx := d.chunk.readU16(offset + 1)
	detail := ""
	if op == OpConstant && int(idx) < len(d.chunk.Constants) {
		detail = " ; " + describeConstant(d.chunk.Constants[idx])
	}
	fmt.Fprintf(d.writer, "%-14s %4d (%s)%s\n", op, idx, label, detail)
	return offset + 3
}

func (d *Disassembler) slot8Instruction(op OpCode, offset int) int {
	slot := d.chunk.Code[offset+1]
	fmt.Fprintf(d.writer, "%-14s %4d\n", op, slot)
	return offset + 2
}

func (d *Disassembler) jumpInstruction(op OpCode, offset int) int {
	target := d.chunk.readU16(offset + 1)
	fmt.Fprintf(d.writer, "%-14s -> %04d\n", op, target)
	return offset + 3
}

func (d *Disassembler) callInstruction(op OpCode, offset int) int {
	funcIdx := d.chunk.readU16(offset + 1)
	argc := d.chunk.Code[offset+3]
	name := ""
	if int(funcIdx) < len(d.chunk.Functions) {
		name = " ; " + d.chunk.Functions[funcIdx].Name
	}
	fmt.Fprintf(d.writer, "%-14s func=%d argc=%d%s\n", op, funcIdx, argc, name)
	return offset + 4
}

func (d *Disassembler) callNativeInstruction(op OpCode, offset int) int {
	idx := d.chunk.Code[offset+1]
	argc := d.chunk.Code[offset+2]
	name := ""
	if int(idx) < len(nativeNames) {
		name = " ; " + nativeNames[idx]
	}
	fmt.Fprintf(d.writer, "%-14s idx=%d argc=%d%s\n", op, idx, argc, name)
	return offset + 3
}

func (d *Disassembler) makeStructInstruction(op OpCode, offset int) int {
	typeID := d.chunk.readU16(offset + 1)
	fieldCount := d.chunk.Code[offset+3]
	fmt.Fprintf(d.writer, "%-14s type=%d fields=%d\n", op, typeID, fieldCount)
	return offset + 4
}

// DisassembleToString returns chunk's full disassembly as a string,
// for snapshot tests.
func DisassembleToString(chunk *Chunk, registry *types.Registry) string {
	var sb strings.Builder
	NewDisassembler(chunk, &sb, registry).Disassemble()
	return sb.String()
}
