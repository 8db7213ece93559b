// Package vm implements the bytecode compiler and stack-based virtual
// machine for glox.
package vm

// Opcode is a single VM instruction.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpConstantLong

	OpNil
	OpTrue
	OpFalse

	OpPop

	OpGetLocal
	OpGetLocalLong
	OpSetLocal
	OpSetLocalLong

	OpGetGlobal
	OpGetGlobalLong
	OpDefineGlobal
	OpDefineGlobalLong
	OpSetGlobal
	OpSetGlobalLong

	OpGetUpvalue
	OpSetUpvalue

	OpGetProperty
	OpGetPropertyLong
	OpSetProperty
	OpSetPropertyLong

	OpEqual
	OpGreater
	OpLess
	OpMatch

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpNegate
	OpIncrement
	OpNot

	OpBuildRange
	OpBuildList
	OpIndexSubscr
	OpStoreSubscr

	OpPrint

	OpJump
	OpJumpIfFalse
	OpLoop

	OpCall
	OpInvoke
	OpInvokeLong

	OpClosure
	OpClosureLong
	OpCloseUpvalue

	OpReturn

	OpClass
	OpClassLong
	OpMethod
	OpMethodLong
)

var opcodeNames = map[Opcode]string{
	OpConstant:         "CONSTANT",
	OpConstantLong:     "CONSTANT_LONG",
	OpNil:              "NIL",
	OpTrue:             "TRUE",
	OpFalse:            "FALSE",
	OpPop:              "POP",
	OpGetLocal:         "GET_LOCAL",
	OpGetLocalLong:     "GET_LOCAL_LONG",
	OpSetLocal:         "SET_LOCAL",
	OpSetLocalLong:     "SET_LOCAL_LONG",
	OpGetGlobal:        "GET_GLOBAL",
	OpGetGlobalLong:    "GET_GLOBAL_LONG",
	OpDefineGlobal:     "DEFINE_GLOBAL",
	OpDefineGlobalLong: "DEFINE_GLOBAL_LONG",
	OpSetGlobal:        "SET_GLOBAL",
	OpSetGlobalLong:    "SET_GLOBAL_LONG",
	OpGetUpvalue:       "GET_UPVALUE",
	OpSetUpvalue:       "SET_UPVALUE",
	OpGetProperty:      "GET_PROPERTY",
	OpGetPropertyLong:  "GET_PROPERTY_LONG",
	OpSetProperty:      "SET_PROPERTY",
	OpSetPropertyLong:  "SET_PROPERTY_LONG",
	OpEqual:            "EQUAL",
	OpGreater:          "GREATER",
	OpLess:             "LESS",
	OpMatch:            "MATCH",
	OpAdd:              "ADD",
	OpSubtract:         "SUBTRACT",
	OpMultiply:         "MULTIPLY",
	OpDivide:           "DIVIDE",
	OpModulo:           "MODULO",
	OpNegate:           "NEGATE",
	OpIncrement:        "INCREMENT",
	OpNot:              "NOT",
	OpBuildRange:       "BUILD_RANGE",
	OpBuildList:        "BUILD_LIST",
	OpIndexSubscr:      "INDEX_SUBSCR",
	OpStoreSubscr:      "STORE_SUBSCR",
	OpPrint:            "PRINT",
	OpJump:             "JUMP",
	OpJumpIfFalse:      "JUMP_IF_FALSE",
	OpLoop:             "LOOP",
	OpCall:             "CALL",
	OpInvoke:           "INVOKE",
	OpInvokeLong:       "INVOKE_LONG",
	OpClosure:          "CLOSURE",
	OpClosureLong:      "CLOSURE_LONG",
	OpCloseUpvalue:     "CLOSE_UPVALUE",
	OpReturn:           "RETURN",
	OpClass:            "CLASS",
	OpClassLong:        "CLASS_LONG",
	OpMethod:           "METHOD",
	OpMethodLong:       "METHOD_LONG",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "UNKNOWN"
}
