package bytecode

import (
	"fmt"

	"github.com/slanglang/slang/internal/types"
)

// ValueKind tags a runtime Value (spec.md §3 "Runtime value").
type ValueKind byte

const (
	KindUnit ValueKind = iota
	KindBool
	KindI32
	KindI64
	KindU32
	KindU64
	KindF32
	KindF64
	KindString
	KindStruct
	KindFunction
)

func (k ValueKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// StructValue is a struct instance: its registry type plus ordered,
// value-semantic field values (spec.md §3, "Struct{type_id, fields}").
type StructValue struct {
	TypeID types.ID
	Fields []Value
}

// Value is Slang's tagged-union runtime value. Numeric kinds are kept
// distinct (rather than collapsed to one "number" tag) because
// arithmetic opcodes are typed per kind (spec.md §4.4) and the VM never
// needs to branch on a runtime numeric tag during an arithmetic op.
type Value struct {
	Kind ValueKind

	boolVal   bool
	intVal    int64 // I32/I64/U32/U64, sign/width carried by Kind
	floatVal  float64
	stringVal string
	structVal *StructValue
	funcVal   int32 // function table index
}

// UnitValue is the sole value of type unit.
var UnitValue = Value{Kind: KindUnit}

func BoolValue(b bool) Value { return Value{Kind: KindBool, boolVal: b} }
func I32Value(v int32) Value { return Value{Kind: KindI32, intVal: int64(v)} }
func I64Value(v int64) Value { return Value{Kind: KindI64, intVal: v} }
func U32Value(v uint32) Value { return Value{Kind: KindU32, intVal: int64(v)} }
func U64Value(v uint64) Value { return Value{Kind: KindU64, intVal: int64(v)} }
func F32Value(v float32) Value { return Value{Kind: KindF32, floatVal: float64(v)} }
func F64Value(v float64) Value { return Value{Kind: KindF64, floatVal: v} }
func StringValue(s string) Value { return Value{Kind: KindString, stringVal: s} }
func StructInstanceValue(sv *StructValue) Value { return Value{Kind: KindStruct, structVal: sv} }
func FunctionValue(index int32) Value { return Value{Kind: KindFunction, funcVal: index} }

func (v Value) Bool() bool            { return v.boolVal }
func (v Value) Int() int64            { return v.intVal }
func (v Value) Uint() uint64          { return uint64(v.intVal) }
func (v Value) Float() float64        { return v.floatVal }
func (v Value) Str() string           { return v.stringVal }
func (v Value) Struct() *StructValue  { return v.structVal }
func (v Value) FuncIndex() int32      { return v.funcVal }

// Display renders v the way print_value does: type-directed, no quotes
// around strings, following Go's default float formatting.
func (v Value) Display(reg *types.Registry) string {
	switch v.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return fmt.Sprintf("%t", v.boolVal)
	case KindI32, KindI64:
		return fmt.Sprintf("%d", v.intVal)
	case KindU32:
		return fmt.Sprintf("%d", uint32(v.intVal))
	case KindU64:
		return fmt.Sprintf("%d", uint64(v.intVal))
	case KindF32:
		return fmt.Sprintf("%g", float32(v.floatVal))
	case KindF64:
		return fmt.Sprintf("%g", v.floatVal)
	case KindString:
		return v.stringVal
	case KindStruct:
		return displayStruct(v.structVal, reg)
	case KindFunction:
		return fmt.Sprintf("<function #%d>", v.funcVal)
	default:
		return "<?>"
	}
}

func displayStruct(sv *StructValue, reg *types.Registry) string {
	name := "struct"
	var fieldNames []string
	if reg != nil {
		if t := reg.Lookup(sv.TypeID); t != nil {
			name = t.Name
			for _, f := range t.Fields {
				fieldNames = append(fieldNames, f.Name)
			}
		}
	}
	out := name + " { "
	for i, f := range sv.Fields {
		if i > 0 {
			out += ", "
		}
		if i < len(fieldNames) {
			out += fieldNames[i] + ": "
		}
		out += f.Display(reg)
	}
	return out + " }"
}
