package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/slanglang/slang/internal/types"
)

// Magic identifies a serialized bytecode container (spec.md §6).
const Magic = "SLBC"

// Version is the wire format's current version.
const Version uint16 = 1

// Serializer writes Chunks to, and reads them back from, the exact
// byte layout spec.md §6 specifies: a four-byte magic, a version, a
// chunk count, then per-chunk constants/functions/code/line-table/
// type-registry sections. Grounded on the teacher's
// internal/bytecode/serializer.go (binary.Write/Read helper-method
// style, length-prefixed strings), with the magic, version, and
// section order replaced to match spec.md rather than the teacher's
// `.dwc` layout.
type Serializer struct{}

// NewSerializer creates a Serializer.
func NewSerializer() *Serializer { return &Serializer{} }

// Write serializes one chunk (spec.md's format supports multiple, but
// this module only ever produces one per compilation) plus the
// registry's user-defined types, to w.
func (s *Serializer) Write(w io.Writer, chunk *Chunk, registry *types.Registry) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil {
		return err
	}
	return s.writeChunk(w, chunk, registry)
}

func (s *Serializer) writeChunk(w io.Writer, chunk *Chunk, registry *types.Registry) error {
	if err := s.writeConstants(w, chunk.Constants); err != nil {
		return err
	}
	if err := s.writeFunctions(w, chunk.Functions); err != nil {
		return err
	}
	if err := s.writeCode(w, chunk.Code); err != nil {
		return err
	}
	if err := s.writeLineTable(w, chunk.lines); err != nil {
		return err
	}
	return s.writeTypeRegistry(w, registry)
}

func (s *Serializer) writeConstants(w io.Writer, constants []Constant) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(constants))); err != nil {
		return err
	}
	for _, c := range constants {
		if err := binary.Write(w, binary.LittleEndian, uint8(c.Kind)); err != nil {
			return err
		}
		switch c.Kind {
		case ConstInt:
			if err := binary.Write(w, binary.LittleEndian, c.Int); err != nil {
				return err
			}
		case ConstFloat:
			if err := binary.Write(w, binary.LittleEndian, c.Float); err != nil {
				return err
			}
		case ConstString:
			if err := writeString(w, c.String); err != nil {
				return err
			}
		case ConstBool:
			if err := binary.Write(w, binary.LittleEndian, boolByte(c.Bool)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("bytecode: unknown constant kind %d", c.Kind)
		}
	}
	return nil
}

func (s *Serializer) writeFunctions(w io.Writer, functions []FunctionEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(functions))); err != nil {
		return err
	}
	for _, fn := range functions {
		if err := writeString(w, fn.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(fn.ParamCount)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(fn.ResultType)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(fn.EntryOffset)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(fn.LocalCount)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) writeCode(w io.Writer, code []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(code))); err != nil {
		return err
	}
	_, err := w.Write(code)
	return err
}

func (s *Serializer) writeLineTable(w io.Writer, lines []lineEntry) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(lines))); err != nil {
		return err
	}
	for _, e := range lines {
		if err := binary.Write(w, binary.LittleEndian, uint32(e.Offset)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(e.Line)); err != nil {
			return err
		}
	}
	return nil
}

// writeTypeRegistry emits only registry's user-defined (struct) types:
// spec.md §6 "type_registry (user-defined types only)". A nil
// registry (a chunk with no struct types ever constructed) writes a
// zero count.
func (s *Serializer) writeTypeRegistry(w io.Writer, registry *types.Registry) error {
	structs := userStructTypes(registry)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(structs))); err != nil {
		return err
	}
	for _, st := range structs {
		if err := binary.Write(w, binary.LittleEndian, uint16(st.id)); err != nil {
			return err
		}
		if err := writeString(w, st.t.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(len(st.t.Fields))); err != nil {
			return err
		}
		for _, f := range st.t.Fields {
			if err := writeString(w, f.Name); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, uint16(f.Type)); err != nil {
				return err
			}
		}
	}
	return nil
}

type namedStruct struct {
	id types.ID
	t  *types.Type
}

// userStructTypes collects registry's struct types in ascending ID
// order (registration order, since IDs only increase); nil registry or
// one with no structs yields an empty slice.
func userStructTypes(registry *types.Registry) []namedStruct {
	if registry == nil {
		return nil
	}
	var out []namedStruct
	for id := types.ID(100); ; id++ {
		t := registry.Lookup(id)
		if t == nil {
			break
		}
		if t.Kind == types.KindStruct {
			out = append(out, namedStruct{id: id, t: t})
		}
	}
	return out
}

// Read deserializes one chunk and its struct-type registry from r.
// Numeric constants come back tagged with Constant.NumericKind unset
// (KindUnit): the wire format doesn't carry it (spec.md §6's constant
// entry is kind:u8 + payload, four kinds only), so a round-tripped
// chunk's bare constant loads fall back to the widest same-family
// runtime kind, same as any freshly-deserialized chunk.
func (s *Serializer) Read(r io.Reader) (*Chunk, *types.Registry, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, fmt.Errorf("bytecode: reading magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return nil, nil, fmt.Errorf("bytecode: bad magic %q, want %q", magic, Magic)
	}
	var version, chunkCount uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, nil, err
	}
	if version != Version {
		return nil, nil, fmt.Errorf("bytecode: unsupported version %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &chunkCount); err != nil {
		return nil, nil, err
	}
	if chunkCount != 1 {
		return nil, nil, fmt.Errorf("bytecode: expected exactly 1 chunk, got %d", chunkCount)
	}
	return s.readChunk(r)
}

func (s *Serializer) readChunk(r io.Reader) (*Chunk, *types.Registry, error) {
	chunk := NewChunk("")

	constants, err := s.readConstants(r)
	if err != nil {
		return nil, nil, err
	}
	chunk.Constants = constants

	functions, err := s.readFunctions(r)
	if err != nil {
		return nil, nil, err
	}
	chunk.Functions = functions

	code, err := s.readCode(r)
	if err != nil {
		return nil, nil, err
	}
	chunk.Code = code

	lines, err := s.readLineTable(r)
	if err != nil {
		return nil, nil, err
	}
	chunk.lines = lines
	if len(lines) > 0 {
		chunk.lastLine = lines[len(lines)-1].Line
	}

	registry, err := s.readTypeRegistry(r)
	if err != nil {
		return nil, nil, err
	}
	return chunk, registry, nil
}

func (s *Serializer) readConstants(r io.Reader) ([]Constant, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]Constant, count)
	for i := range out {
		var kind uint8
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return nil, err
		}
		c := Constant{Kind: ConstKind(kind)}
		switch c.Kind {
		case ConstInt:
			if err := binary.Read(r, binary.LittleEndian, &c.Int); err != nil {
				return nil, err
			}
		case ConstFloat:
			if err := binary.Read(r, binary.LittleEndian, &c.Float); err != nil {
				return nil, err
			}
		case ConstString:
			str, err := readString(r)
			if err != nil {
				return nil, err
			}
			c.String = str
		case ConstBool:
			var b uint8
			if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
				return nil, err
			}
			c.Bool = b != 0
		default:
			return nil, fmt.Errorf("bytecode: unknown constant kind %d", kind)
		}
		out[i] = c
	}
	return out, nil
}

func (s *Serializer) readFunctions(r io.Reader) ([]FunctionEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]FunctionEntry, count)
	for i := range out {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var paramCount, resultType, localCount uint16
		var paramCount8 uint8
		if err := binary.Read(r, binary.LittleEndian, &paramCount8); err != nil {
			return nil, err
		}
		paramCount = uint16(paramCount8)
		if err := binary.Read(r, binary.LittleEndian, &resultType); err != nil {
			return nil, err
		}
		var entryOffset uint32
		if err := binary.Read(r, binary.LittleEndian, &entryOffset); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &localCount); err != nil {
			return nil, err
		}
		out[i] = FunctionEntry{
			Name:        name,
			ParamCount:  int(paramCount),
			ResultType:  types.ID(resultType),
			EntryOffset: int(entryOffset),
			LocalCount:  int(localCount),
		}
	}
	return out, nil
}

func (s *Serializer) readCode(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	code := make([]byte, length)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (s *Serializer) readLineTable(r io.Reader) ([]lineEntry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]lineEntry, count)
	for i := range out {
		var offset, line uint32
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &line); err != nil {
			return nil, err
		}
		out[i] = lineEntry{Offset: int(offset), Line: int(line)}
	}
	return out, nil
}

func (s *Serializer) readTypeRegistry(r io.Reader) (*types.Registry, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	registry := types.NewRegistry()
	for i := uint32(0); i < count; i++ {
		var id uint16
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		var fieldCount uint8
		if err := binary.Read(r, binary.LittleEndian, &fieldCount); err != nil {
			return nil, err
		}
		fields := make([]types.Field, fieldCount)
		for j := range fields {
			fieldName, err := readString(r)
			if err != nil {
				return nil, err
			}
			var fieldType uint16
			if err := binary.Read(r, binary.LittleEndian, &fieldType); err != nil {
				return nil, err
			}
			fields[j] = types.Field{Name: fieldName, Type: types.ID(fieldType)}
		}
		registry.RegisterStruct(name, fields)
		_ = id // struct IDs are reassigned in registration order on reload, per RegisterStruct's contract
	}
	return registry, nil
}

func writeString(w io.Writer, str string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(str))); err != nil {
		return err
	}
	_, err := io.WriteString(w, str)
	return err
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
