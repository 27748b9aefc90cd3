package format

import (
	"fmt"

	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

// Func appends a disassembly listing of fn to b: a header, one
// instruction per line with its absolute index, and the constant pool.
// Jump operands carry the resolved absolute target.
func Func(b []byte, fn *bytecode.Func) []byte {
	b = fmt.Appendf(b, "func(regs %d)\n", fn.NumRegs)

	b = Instrs(b, fn.Code)

	if len(fn.Consts) != 0 {
		b = append(b, "consts\n"...)
	}

	for i, v := range fn.Consts {
		b = fmt.Appendf(b, "%4c%-3d  %v\n", 'c', i, v)
	}

	for _, v := range fn.Consts {
		sub, ok := v.(*bytecode.Func)
		if !ok {
			continue
		}

		b = append(b, '\n')
		b = Func(b, sub)
	}

	return b
}

// Instrs appends one line per instruction.
func Instrs(b []byte, code []bytecode.Instr) []byte {
	for i, x := range code {
		b = Instr(b, i, x)
		b = append(b, '\n')
	}

	return b
}

// Instr appends instruction x sitting at absolute index i.
func Instr(b []byte, i int, x bytecode.Instr) []byte {
	b = fmt.Appendf(b, "%4d  ", i)

	switch x := x.(type) {
	case bytecode.Const:
		b = fmt.Appendf(b, "const       r%d <- c%d", x.Dst, x.Idx)
	case bytecode.Copy:
		b = fmt.Appendf(b, "copy        r%d <- r%d", x.Dst, x.Src)
	case bytecode.Bin:
		b = fmt.Appendf(b, "%-11v r%d <- r%d, r%d", x.Op, x.Dst, x.L, x.R)
	case bytecode.Un:
		b = fmt.Appendf(b, "%-11v r%d <- r%d", x.Op, x.Dst, x.Src)
	case bytecode.MkTup:
		b = fmt.Appendf(b, "mktup       r%d <- r%d..r%d", x.Dst, x.Start, x.End)
	case bytecode.Index:
		b = fmt.Appendf(b, "index       r%d <- r%d[r%d]", x.Dst, x.Tup, x.Idx)
	case bytecode.Call:
		b = fmt.Appendf(b, "call        r%d <- r%d(r%d x%d)", x.Dst, x.Fn, x.Start, x.N)
	case bytecode.Jump:
		b = fmt.Appendf(b, "jump        %+d  -> %d", x.Off, i+int(x.Off))
	case bytecode.JumpUnless:
		b = fmt.Appendf(b, "jump.unless r%d %+d  -> %d", x.Cond, x.Off, i+int(x.Off))
	case bytecode.Return:
		b = fmt.Appendf(b, "return      r%d", x.Src)
	default:
		panic(x)
	}

	return b
}
