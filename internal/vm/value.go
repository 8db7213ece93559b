package vm

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is the stack-allocated tagged union: Nil, Bool, Number(float64),
// or a reference to a heap Object. Numbers and bools live directly in the
// struct so pushing/popping them never touches the heap.
type Value struct {
	Type ValueType
	Num  float64
	Obj  Object
}

func NilVal() Value            { return Value{Type: ValNil} }
func BoolVal(b bool) Value     { return Value{Type: ValBool, Num: boolToFloat(b)} }
func NumberVal(n float64) Value { return Value{Type: ValNumber, Num: n} }
func ObjVal(o Object) Value    { return Value{Type: ValObj, Obj: o} }

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObj() bool    { return v.Type == ValObj }

func (v Value) AsBool() bool      { return v.Num != 0 }
func (v Value) AsNumber() float64 { return v.Num }

func (v Value) IsString() bool { return v.Type == ValObj && v.Obj.objType() == ObjString }
func (v Value) AsString() *ObjStringVal {
	return v.Obj.(*ObjStringVal)
}

func (v Value) objTypeOrNone() (ObjType, bool) {
	if v.Type != ValObj {
		return 0, false
	}
	return v.Obj.objType(), true
}

func (v Value) isObjType(t ObjType) bool {
	ot, ok := v.objTypeOrNone()
	return ok && ot == t
}

func (v Value) IsClosure() bool     { return v.isObjType(ObjClosure) }
func (v Value) IsClass() bool       { return v.isObjType(ObjClass) }
func (v Value) IsInstance() bool    { return v.isObjType(ObjInstance) }
func (v Value) IsBoundMethod() bool { return v.isObjType(ObjBoundMethod) }
func (v Value) IsNative() bool      { return v.isObjType(ObjNative) }
func (v Value) IsList() bool        { return v.isObjType(ObjList) }
func (v Value) IsRange() bool       { return v.isObjType(ObjRange) }

// Falsey reports language truthiness: nil and false are falsey, everything
// else (including 0 and "") is truthy.
func (v Value) Falsey() bool {
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Num == 0
	default:
		return false
	}
}

// Equal is content equality for Nil/Bool/Number and identity equality for
// Obj (strings compare equal by identity because they are interned).
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool, ValNumber:
		return v.Num == other.Num
	case ValObj:
		return v.Obj == other.Obj
	default:
		return false
	}
}

// String renders the value the way `print` does. Doubles that are exact
// integers print without a fractional part; others use the shortest
// round-trip representation.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.Num)
	case ValObj:
		return v.Obj.String()
	default:
		return "?"
	}
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeName reports the runtime type name used in error messages.
func (v Value) TypeName() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValNumber:
		return "number"
	case ValObj:
		switch v.Obj.objType() {
		case ObjString:
			return "string"
		case ObjFunction, ObjClosure, ObjNative, ObjBoundMethod:
			return "function"
		case ObjClass:
			return "class"
		case ObjInstance:
			return "instance"
		case ObjList:
			return "list"
		case ObjRange:
			return "range"
		default:
			return "object"
		}
	default:
		return fmt.Sprintf("value(%d)", v.Type)
	}
}
