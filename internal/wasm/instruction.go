package wasm

// Opcode identifies a lowered instruction. The set is closed: the compiler
// maps every decoded opcode onto exactly one of these, and the interpreter
// dispatches exhaustively, reporting a NotImplemented trap for the opcodes
// that decode but have no execution semantics yet (floats, blocks and
// branches, memory.size/grow).
type Opcode uint8

const (
	OpEnd Opcode = iota
	OpNop
	OpDrop
	OpCall

	OpLocalGet
	OpLocalSet
	OpLocalTee

	OpConstI32
	OpConstI64

	OpEqzI32
	OpEqI32
	OpNeI32
	OpLtSI32
	OpLtUI32
	OpGtSI32
	OpGtUI32
	OpLeSI32
	OpLeUI32
	OpGeSI32
	OpGeUI32

	OpEqzI64
	OpEqI64
	OpNeI64
	OpLtSI64
	OpLtUI64
	OpGtSI64
	OpGtUI64
	OpLeSI64
	OpLeUI64
	OpGeSI64
	OpGeUI64

	OpClzI32
	OpCtzI32
	OpPopcntI32
	OpAddI32
	OpSubI32
	OpMulI32
	OpDivSI32
	OpDivUI32
	OpRemSI32
	OpRemUI32
	OpAndI32
	OpOrI32
	OpXorI32
	OpShlI32
	OpShrSI32
	OpShrUI32
	OpRotlI32
	OpRotrI32

	OpClzI64
	OpCtzI64
	OpPopcntI64
	OpAddI64
	OpSubI64
	OpMulI64
	OpDivSI64
	OpDivUI64
	OpRemSI64
	OpRemUI64
	OpAndI64
	OpOrI64
	OpXorI64
	OpShlI64
	OpShrSI64
	OpShrUI64
	OpRotlI64
	OpRotrI64

	OpExtend8SI32
	OpExtend16SI32
	OpExtend8SI64
	OpExtend16SI64
	OpExtend32SI64

	OpLoadI32
	OpLoadI64
	OpLoad8SI32
	OpLoad8UI32
	OpLoad16SI32
	OpLoad16UI32
	OpLoad8SI64
	OpLoad8UI64
	OpLoad16SI64
	OpLoad16UI64
	OpLoad32SI64
	OpLoad32UI64

	OpStoreI32
	OpStoreI64
	OpStore8I32
	OpStore16I32
	OpStore8I64
	OpStore16I64
	OpStore32I64

	// Decoded but without interpreter semantics.

	OpConstF32
	OpConstF64
	OpAddF32
	OpSubF32
	OpMulF32
	OpDivF32
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64

	OpBlock
	OpLoop
	OpBr
	OpBrIf
	OpReturn

	OpMemorySize
	OpMemoryGrow
)

var opcodeNames = map[Opcode]string{
	OpEnd:  "end",
	OpNop:  "nop",
	OpDrop: "drop",
	OpCall: "call",

	OpLocalGet: "local.get",
	OpLocalSet: "local.set",
	OpLocalTee: "local.tee",

	OpConstI32: "i32.const",
	OpConstI64: "i64.const",

	OpEqzI32: "i32.eqz",
	OpEqI32:  "i32.eq",
	OpNeI32:  "i32.ne",
	OpLtSI32: "i32.lt_s",
	OpLtUI32: "i32.lt_u",
	OpGtSI32: "i32.gt_s",
	OpGtUI32: "i32.gt_u",
	OpLeSI32: "i32.le_s",
	OpLeUI32: "i32.le_u",
	OpGeSI32: "i32.ge_s",
	OpGeUI32: "i32.ge_u",

	OpEqzI64: "i64.eqz",
	OpEqI64:  "i64.eq",
	OpNeI64:  "i64.ne",
	OpLtSI64: "i64.lt_s",
	OpLtUI64: "i64.lt_u",
	OpGtSI64: "i64.gt_s",
	OpGtUI64: "i64.gt_u",
	OpLeSI64: "i64.le_s",
	OpLeUI64: "i64.le_u",
	OpGeSI64: "i64.ge_s",
	OpGeUI64: "i64.ge_u",

	OpClzI32:    "i32.clz",
	OpCtzI32:    "i32.ctz",
	OpPopcntI32: "i32.popcnt",
	OpAddI32:    "i32.add",
	OpSubI32:    "i32.sub",
	OpMulI32:    "i32.mul",
	OpDivSI32:   "i32.div_s",
	OpDivUI32:   "i32.div_u",
	OpRemSI32:   "i32.rem_s",
	OpRemUI32:   "i32.rem_u",
	OpAndI32:    "i32.and",
	OpOrI32:     "i32.or",
	OpXorI32:    "i32.xor",
	OpShlI32:    "i32.shl",
	OpShrSI32:   "i32.shr_s",
	OpShrUI32:   "i32.shr_u",
	OpRotlI32:   "i32.rotl",
	OpRotrI32:   "i32.rotr",

	OpClzI64:    "i64.clz",
	OpCtzI64:    "i64.ctz",
	OpPopcntI64: "i64.popcnt",
	OpAddI64:    "i64.add",
	OpSubI64:    "i64.sub",
	OpMulI64:    "i64.mul",
	OpDivSI64:   "i64.div_s",
	OpDivUI64:   "i64.div_u",
	OpRemSI64:   "i64.rem_s",
	OpRemUI64:   "i64.rem_u",
	OpAndI64:    "i64.and",
	OpOrI64:     "i64.or",
	OpXorI64:    "i64.xor",
	OpShlI64:    "i64.shl",
	OpShrSI64:   "i64.shr_s",
	OpShrUI64:   "i64.shr_u",
	OpRotlI64:   "i64.rotl",
	OpRotrI64:   "i64.rotr",

	OpExtend8SI32:  "i32.extend8_s",
	OpExtend16SI32: "i32.extend16_s",
	OpExtend8SI64:  "i64.extend8_s",
	OpExtend16SI64: "i64.extend16_s",
	OpExtend32SI64: "i64.extend32_s",

	OpLoadI32:    "i32.load",
	OpLoadI64:    "i64.load",
	OpLoad8SI32:  "i32.load8_s",
	OpLoad8UI32:  "i32.load8_u",
	OpLoad16SI32: "i32.load16_s",
	OpLoad16UI32: "i32.load16_u",
	OpLoad8SI64:  "i64.load8_s",
	OpLoad8UI64:  "i64.load8_u",
	OpLoad16SI64: "i64.load16_s",
	OpLoad16UI64: "i64.load16_u",
	OpLoad32SI64: "i64.load32_s",
	OpLoad32UI64: "i64.load32_u",

	OpStoreI32:   "i32.store",
	OpStoreI64:   "i64.store",
	OpStore8I32:  "i32.store8",
	OpStore16I32: "i32.store16",
	OpStore8I64:  "i64.store8",
	OpStore16I64: "i64.store16",
	OpStore32I64: "i64.store32",

	OpConstF32: "f32.const",
	OpConstF64: "f64.const",
	OpAddF32:   "f32.add",
	OpSubF32:   "f32.sub",
	OpMulF32:   "f32.mul",
	OpDivF32:   "f32.div",
	OpAddF64:   "f64.add",
	OpSubF64:   "f64.sub",
	OpMulF64:   "f64.mul",
	OpDivF64:   "f64.div",

	OpBlock:  "block",
	OpLoop:   "loop",
	OpBr:     "br",
	OpBrIf:   "br_if",
	OpReturn: "return",

	OpMemorySize: "memory.size",
	OpMemoryGrow: "memory.grow",
}

// String implements fmt.Stringer, returning the text-format mnemonic.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Instruction is one lowered instruction. Operand fields are meaningful per
// opcode: Const for constants (float bit patterns included), Index for
// local, function and label indices, Offset and Flags for memory access.
type Instruction struct {
	Op     Opcode
	Const  int64
	Index  uint32
	Offset uint32
	Flags  uint32
}

// String implements fmt.Stringer.
func (i Instruction) String() string {
	return i.Op.String()
}
