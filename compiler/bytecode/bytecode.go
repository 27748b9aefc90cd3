package bytecode

type (
	// Addr indexes one slot of a function's register file.
	Addr uint8

	// ConstIdx indexes a function's constant pool.
	ConstIdx uint16

	// Off is a relative jump delta measured in instructions
	// from the jump instruction itself.
	Off int32

	BinOp uint8
	UnOp  uint8

	// Instr is one vm operation. The set of variants is closed,
	// the vm switches over it exhaustively.
	Instr interface {
		instr()
	}

	// Const loads the constant pool entry Idx into Dst.
	Const struct {
		Dst Addr
		Idx ConstIdx
	}

	// Copy copies the value in Src into Dst.
	Copy struct {
		Dst Addr
		Src Addr
	}

	// Bin computes Dst = L <Op> R.
	Bin struct {
		Op   BinOp
		Dst  Addr
		L, R Addr
	}

	// Un computes Dst = <Op> Src.
	Un struct {
		Op  UnOp
		Dst Addr
		Src Addr
	}

	// MkTup materializes a tuple from the inclusive register range
	// [Start, End] into Dst.
	MkTup struct {
		Dst   Addr
		Start Addr
		End   Addr
	}

	// Index loads element Idx of the tuple in Tup into Dst.
	Index struct {
		Dst Addr
		Tup Addr
		Idx Addr
	}

	// Call invokes the function in Fn with N arguments in registers
	// Start..Start+N-1, leaving the result in Dst.
	// Start carries no meaning when N is zero.
	Call struct {
		Dst   Addr
		Fn    Addr
		Start Addr
		N     uint8
	}

	// Jump continues execution Off instructions away from itself.
	Jump struct {
		Off Off
	}

	// JumpUnless falls through when the value in Cond is true
	// and jumps Off instructions otherwise.
	JumpUnless struct {
		Cond Addr
		Off  Off
	}

	// Return leaves the function with the value in Src.
	Return struct {
		Src Addr
	}

	// Func is a compiled function: everything a loader needs to run it.
	Func struct {
		Code    []Instr
		NumRegs int
		Consts  []Value
	}
)

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	And
	Orr
	Xor
	Gt
	Lt
	Geq
	Leq
	Eq
	Neq
)

const (
	Negate UnOp = iota
	Not
)

func (Const) instr()      {}
func (Copy) instr()       {}
func (Bin) instr()        {}
func (Un) instr()         {}
func (MkTup) instr()      {}
func (Index) instr()      {}
func (Call) instr()       {}
func (Jump) instr()       {}
func (JumpUnless) instr() {}
func (Return) instr()     {}

func (op BinOp) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Rem:
		return "rem"
	case And:
		return "and"
	case Orr:
		return "orr"
	case Xor:
		return "xor"
	case Gt:
		return "gt"
	case Lt:
		return "lt"
	case Geq:
		return "geq"
	case Leq:
		return "leq"
	case Eq:
		return "eq"
	case Neq:
		return "neq"
	default:
		return "binop?"
	}
}

func (op UnOp) String() string {
	switch op {
	case Negate:
		return "neg"
	case Not:
		return "not"
	default:
		return "unop?"
	}
}
