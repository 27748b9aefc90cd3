package codegen

import (
	"context"
	"math"

	"tlog.app/go/errors"

	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

// CompileExpr lowers one expression. Executing the returned code leaves
// the expression's value in the returned register. Every temporary used
// along the way has been released again except that result register, so
// the allocator cursor ends exactly one above where it started.
//
// A variable reference is the one variant that allocates nothing: it
// returns the variable's home register and no code.
func (f *Func[N]) CompileExpr(ctx context.Context, x ast.Expr[N]) (bytecode.Addr, []bytecode.Instr, error) {
	switch x := x.(type) {
	case ast.Lit[N]:
		reg := f.pushTmp()

		idx, err := f.getConst(x.Val)
		if err != nil {
			return 0, nil, errors.Wrap(err, "literal")
		}

		return reg, []bytecode.Instr{bytecode.Const{Dst: reg, Idx: idx}}, nil
	case ast.Var[N]:
		reg, ok := f.vars[x.Name]
		if !ok {
			return 0, nil, errors.Wrap(ErrMalformed, "undefined variable: %v", x.Name)
		}

		return reg, nil, nil
	case ast.Un[N]:
		// reserve the result first so it can't collide with the operand
		reg := f.pushTmp()

		src, code, err := f.CompileExpr(ctx, x.Arg)
		if err != nil {
			return 0, nil, errors.Wrap(err, "operand")
		}

		code = append(code, bytecode.Un{Op: unop(x.Op), Dst: reg, Src: src})

		f.popTmp(src)

		return reg, code, nil
	case ast.Bin[N]:
		// the result is reserved before either operand is lowered,
		// its address is fixed and disjoint from both operands
		reg := f.pushTmp()

		l, code, err := f.CompileExpr(ctx, x.L)
		if err != nil {
			return 0, nil, errors.Wrap(err, "left operand")
		}

		r, right, err := f.CompileExpr(ctx, x.R)
		if err != nil {
			return 0, nil, errors.Wrap(err, "right operand")
		}

		code = append(code, right...)
		code = append(code, bytecode.Bin{Op: binop(x.Op), Dst: reg, L: l, R: r})

		f.popTmp(r)
		f.popTmp(l)

		return reg, code, nil
	case ast.Call[N]:
		if len(x.Args) > math.MaxUint8 {
			return 0, nil, errors.Wrap(ErrMalformed, "too many arguments: %d", len(x.Args))
		}

		reg := f.pushTmp()

		fn, code, err := f.CompileExpr(ctx, x.Fn)
		if err != nil {
			return 0, nil, errors.Wrap(err, "callee")
		}

		// stack discipline puts the arguments into consecutive
		// registers: nothing is released between them
		var start bytecode.Addr
		args := make([]bytecode.Addr, len(x.Args))

		for i, a := range x.Args {
			dst, ac, err := f.CompileExpr(ctx, a)
			if err != nil {
				return 0, nil, errors.Wrap(err, "argument %d", i)
			}

			if i == 0 {
				start = dst
			}

			args[i] = dst
			code = append(code, ac...)
		}

		code = append(code, bytecode.Call{Dst: reg, Fn: fn, Start: start, N: uint8(len(args))})

		for i := len(args) - 1; i >= 0; i-- {
			f.popTmp(args[i])
		}

		f.popTmp(fn)

		return reg, code, nil
	case ast.Index[N]:
		reg := f.pushTmp()

		tup, code, err := f.CompileExpr(ctx, x.Tup)
		if err != nil {
			return 0, nil, errors.Wrap(err, "tuple")
		}

		idx, ic, err := f.CompileExpr(ctx, x.Idx)
		if err != nil {
			return 0, nil, errors.Wrap(err, "index")
		}

		code = append(code, ic...)
		code = append(code, bytecode.Index{Dst: reg, Tup: tup, Idx: idx})

		f.popTmp(idx)
		f.popTmp(tup)

		return reg, code, nil
	case ast.Mktup[N]:
		// an empty tuple has no starting register, reject it
		if len(x.Parts) == 0 {
			return 0, nil, errors.Wrap(ErrMalformed, "tuple of zero elements")
		}

		if len(x.Parts) > math.MaxUint8 {
			return 0, nil, errors.Wrap(ErrMalformed, "tuple too long: %d", len(x.Parts))
		}

		reg := f.pushTmp()

		// no release between the parts, so they land in a contiguous
		// run of registers starting at the first part's register
		var code []bytecode.Instr
		parts := make([]bytecode.Addr, len(x.Parts))

		for i, part := range x.Parts {
			dst, pc, err := f.CompileExpr(ctx, part)
			if err != nil {
				return 0, nil, errors.Wrap(err, "element %d", i)
			}

			parts[i] = dst
			code = append(code, pc...)
		}

		start := parts[0]
		// the range is inclusive: parts in registers 2, 3, 4 mean
		// start 2 and end 2 + 3 - 1 = 4
		end := start + bytecode.Addr(len(parts)) - 1

		// highest register first, release order is the reverse of
		// allocation order
		for i := len(parts) - 1; i >= 0; i-- {
			f.popTmp(parts[i])
		}

		code = append(code, bytecode.MkTup{Dst: reg, Start: start, End: end})

		return reg, code, nil
	default:
		panic(x)
	}
}

func unop(op ast.Unop) bytecode.UnOp {
	switch op {
	case ast.Negate:
		return bytecode.Negate
	case ast.Not:
		return bytecode.Not
	default:
		panic(op)
	}
}

func binop(op ast.Binop) bytecode.BinOp {
	switch op {
	case ast.Add:
		return bytecode.Add
	case ast.Sub:
		return bytecode.Sub
	case ast.Mul:
		return bytecode.Mul
	case ast.Div:
		return bytecode.Div
	case ast.Rem:
		return bytecode.Rem
	case ast.And:
		return bytecode.And
	case ast.Orr:
		return bytecode.Orr
	case ast.Xor:
		return bytecode.Xor
	case ast.Gt:
		return bytecode.Gt
	case ast.Lt:
		return bytecode.Lt
	case ast.Geq:
		return bytecode.Geq
	case ast.Leq:
		return bytecode.Leq
	case ast.Eq:
		return bytecode.Eq
	case ast.Neq:
		return bytecode.Neq
	default:
		panic(op)
	}
}
