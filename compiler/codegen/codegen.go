package codegen

import (
	"fmt"
	"math"

	"tlog.app/go/errors"
	"tlog.app/go/loc"

	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

type (
	// Func is the compilation context of a single function.
	//
	// One context is created per function, mutated as the function's
	// statements are lowered and discarded once the caller has read the
	// instruction sequence, the register file size and the constant pool.
	//
	// Temporary registers are a stack: they are released in strict
	// reverse order of allocation. Registers of declared variables sit
	// below all temporaries and live until the end of the function.
	Func[N comparable] struct {
		vars   map[N]bytecode.Addr
		consts []bytecode.Value

		freeReg bytecode.Addr
		maxReg  int

		// allocation sites of live temporaries, top of stack last
		tmps []loc.PC

		loops []loopFrame
	}

	// loopFrame collects placeholder jumps emitted by break and continue
	// inside the innermost enclosing loop, as indices into the code
	// slice being composed. They resolve once the loop's full length
	// is known.
	loopFrame struct {
		breaks    []int
		continues []int
	}

	// patchMark remembers per-frame patch counts so that indices
	// recorded while lowering a subtree can be shifted when that
	// subtree's code is concatenated into its parent.
	patchMark []struct {
		b, c int
	}
)

// MaxFuncLen bounds a function's instruction count so that every
// relative jump offset fits its operand width.
const MaxFuncLen = 1 << 20

const maxConsts = math.MaxUint16 + 1

var (
	// ErrInternal is a compiler bug: some invariant the lowering logic
	// was supposed to maintain did not hold.
	ErrInternal = errors.New("internal compiler fault")

	// ErrMalformed is input that upstream validation was supposed to
	// reject.
	ErrMalformed = errors.New("malformed input")
)

func New[N comparable]() *Func[N] {
	return &Func[N]{
		vars: make(map[N]bytecode.Addr),
	}
}

// NumRegs is the register file size the compiled function requires.
func (f *Func[N]) NumRegs() int { return f.maxReg }

// Consts is the function's deduplicated constant pool.
func (f *Func[N]) Consts() []bytecode.Value { return f.consts }

func (f *Func[N]) alloc() bytecode.Addr {
	reg := f.freeReg
	f.freeReg++

	if int(f.freeReg) > f.maxReg {
		f.maxReg = int(f.freeReg)
	}

	return reg
}

func (f *Func[N]) pushTmp() bytecode.Addr {
	f.tmps = append(f.tmps, loc.Caller(1))

	return f.alloc()
}

// popTmp releases a temporary register. Releasing the home register of
// a declared variable is a no-op. Releasing any temporary but the most
// recently allocated one is a bug in the lowering logic and panics.
func (f *Func[N]) popTmp(addr bytecode.Addr) {
	if int(addr) < len(f.vars) {
		return
	}

	if f.freeReg != addr+1 {
		top := "none"
		if len(f.tmps) != 0 {
			top = fmt.Sprintf("r%d (allocated at %v)", f.freeReg-1, f.tmps[len(f.tmps)-1])
		}

		panic(fmt.Sprintf("out of order register release: r%d, top is %v", addr, top))
	}

	f.freeReg = addr
	f.tmps = f.tmps[:len(f.tmps)-1]
}

// declare assigns the next register to name permanently.
// Declared variables always end up in the lowest registers: statement
// lowering releases all its temporaries before the next statement runs,
// so no temporary can be live here.
func (f *Func[N]) declare(name N) (bytecode.Addr, error) {
	if len(f.tmps) != 0 {
		panic(fmt.Sprintf("declare with %d live temporaries", len(f.tmps)))
	}

	if _, ok := f.vars[name]; ok {
		return 0, errors.Wrap(ErrMalformed, "redeclared variable: %v", name)
	}

	reg := f.alloc()
	f.vars[name] = reg

	return reg, nil
}

// getConst returns the pool index of val, appending it on first use.
// Equal values share an index, an index never changes once handed out.
func (f *Func[N]) getConst(val bytecode.Value) (bytecode.ConstIdx, error) {
	for i, k := range f.consts {
		if k.Equal(val) {
			return bytecode.ConstIdx(i), nil
		}
	}

	if len(f.consts) == maxConsts {
		return 0, errors.Wrap(ErrInternal, "constant pool overflow")
	}

	f.consts = append(f.consts, val)

	return bytecode.ConstIdx(len(f.consts) - 1), nil
}

func (f *Func[N]) mark() patchMark {
	m := make(patchMark, len(f.loops))

	for i := range f.loops {
		m[i].b = len(f.loops[i].breaks)
		m[i].c = len(f.loops[i].continues)
	}

	return m
}

// shift moves every patch index recorded since m by base instructions.
// Called wherever a lowered subtree's code is appended into its parent
// at offset base.
func (f *Func[N]) shift(m patchMark, base int) {
	for i := range m {
		l := &f.loops[i]

		for j := m[i].b; j < len(l.breaks); j++ {
			l.breaks[j] += base
		}

		for j := m[i].c; j < len(l.continues); j++ {
			l.continues[j] += base
		}
	}
}
