package codegen

import (
	"context"

	"tlog.app/go/errors"

	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

// CompileStmt lowers one statement. All temporaries it allocates are
// released again before it returns, so the allocator cursor is back at
// its pre-call value (declarations excepted: they claim a permanent
// register).
func (f *Func[N]) CompileStmt(ctx context.Context, s ast.Stmt[N]) ([]bytecode.Instr, error) {
	switch s := s.(type) {
	case ast.Declare[N]:
		_, err := f.declare(s.Name)
		if err != nil {
			return nil, errors.Wrap(err, "declare")
		}

		return nil, nil
	case ast.RawExpr[N]:
		reg, code, err := f.CompileExpr(ctx, s.X)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}

		f.popTmp(reg)

		return code, nil
	case ast.Assign[N]:
		dst, ok := f.vars[s.Name]
		if !ok {
			return nil, errors.Wrap(ErrMalformed, "assign to undefined variable: %v", s.Name)
		}

		reg, code, err := f.CompileExpr(ctx, s.X)
		if err != nil {
			return nil, errors.Wrap(err, "assign %v", s.Name)
		}

		code = append(code, bytecode.Copy{Dst: dst, Src: reg})

		f.popTmp(reg)

		return code, nil
	case ast.If[N]:
		return f.compileIf(ctx, s)
	case ast.While[N]:
		return f.compileWhile(ctx, s)
	case ast.Continue[N]:
		if len(f.loops) == 0 {
			return nil, errors.Wrap(ErrMalformed, "continue outside of a loop")
		}

		l := &f.loops[len(f.loops)-1]
		l.continues = append(l.continues, 0)

		return []bytecode.Instr{bytecode.Jump{}}, nil
	case ast.Break[N]:
		if len(f.loops) == 0 {
			return nil, errors.Wrap(ErrMalformed, "break outside of a loop")
		}

		l := &f.loops[len(f.loops)-1]
		l.breaks = append(l.breaks, 0)

		return []bytecode.Instr{bytecode.Jump{}}, nil
	case ast.Return[N]:
		reg, code, err := f.CompileExpr(ctx, s.X)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		code = append(code, bytecode.Return{Src: reg})

		f.popTmp(reg)

		return code, nil
	case ast.Defn[N]:
		return f.compileDefn(ctx, s)
	default:
		panic(s)
	}
}

// Compile lowers a block of statements into one instruction sequence.
func (f *Func[N]) Compile(ctx context.Context, block []ast.Stmt[N]) ([]bytecode.Instr, error) {
	var code []bytecode.Instr

	for i, s := range block {
		m := f.mark()

		next, err := f.CompileStmt(ctx, s)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}

		f.shift(m, len(code))
		code = append(code, next...)

		if len(code) > MaxFuncLen {
			return nil, errors.Wrap(ErrInternal, "block over %d instructions", MaxFuncLen)
		}
	}

	return code, nil
}

// compileIf stitches [cond][jump.unless][then][jump][else].
// Both blocks have to be fully lowered before either offset is known.
// Offsets point at the first instruction past the skipped region:
// jump.unless skips the then block and the jump after it, the jump
// skips the else block.
func (f *Func[N]) compileIf(ctx context.Context, s ast.If[N]) ([]bytecode.Instr, error) {
	cond, code, err := f.CompileExpr(ctx, s.Cond)
	if err != nil {
		return nil, errors.Wrap(err, "cond")
	}

	f.popTmp(cond)

	m := f.mark()

	then, err := f.Compile(ctx, s.Then)
	if err != nil {
		return nil, errors.Wrap(err, "then block")
	}

	// the then block lands right after the cond code and the jump.unless
	f.shift(m, len(code)+1)

	m = f.mark()

	els, err := f.Compile(ctx, s.Else)
	if err != nil {
		return nil, errors.Wrap(err, "else block")
	}

	f.shift(m, len(code)+1+len(then)+1)

	code = append(code, bytecode.JumpUnless{Cond: cond, Off: bytecode.Off(len(then) + 2)})
	code = append(code, then...)
	code = append(code, bytecode.Jump{Off: bytecode.Off(len(els) + 1)})
	code = append(code, els...)

	return code, nil
}

// compileWhile stitches [cond][jump.unless past][body][jump back].
// The condition is re-evaluated on every iteration. Breaks and
// continues inside the body were emitted as placeholder jumps into the
// innermost frame and resolve here, once the body's length is known:
// continue to instruction 0 (the condition), break to one past the
// backward jump.
func (f *Func[N]) compileWhile(ctx context.Context, s ast.While[N]) ([]bytecode.Instr, error) {
	cond, code, err := f.CompileExpr(ctx, s.Cond)
	if err != nil {
		return nil, errors.Wrap(err, "cond")
	}

	f.popTmp(cond)

	f.loops = append(f.loops, loopFrame{})

	body, err := f.Compile(ctx, s.Body)

	fr := f.loops[len(f.loops)-1]
	f.loops = f.loops[:len(f.loops)-1]

	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	c, b := len(code), len(body)

	for _, p := range fr.continues {
		body[p] = bytecode.Jump{Off: bytecode.Off(-(c + 1 + p))}
	}

	for _, p := range fr.breaks {
		body[p] = bytecode.Jump{Off: bytecode.Off(b + 1 - p)}
	}

	code = append(code, bytecode.JumpUnless{Cond: cond, Off: bytecode.Off(b + 2)})
	code = append(code, body...)
	code = append(code, bytecode.Jump{Off: bytecode.Off(-(c + 1 + b))})

	return code, nil
}

// compileDefn lowers the nested body in a fresh context of its own:
// registers, constants and variable handles of the two functions are
// unrelated. The parameters claim the nested function's lowest
// registers in order. The finished function lands in the enclosing
// pool and a single constant load binds it to its name.
func (f *Func[N]) compileDefn(ctx context.Context, s ast.Defn[N]) ([]bytecode.Instr, error) {
	sub := New[N]()

	for _, p := range s.Params {
		_, err := sub.declare(p)
		if err != nil {
			return nil, errors.Wrap(err, "param")
		}
	}

	body, err := sub.Compile(ctx, s.Body)
	if err != nil {
		return nil, errors.Wrap(err, "nested function")
	}

	fn := &bytecode.Func{
		Code:    body,
		NumRegs: sub.NumRegs(),
		Consts:  sub.Consts(),
	}

	idx, err := f.getConst(fn)
	if err != nil {
		return nil, errors.Wrap(err, "nested function")
	}

	reg, err := f.declare(s.Name)
	if err != nil {
		return nil, errors.Wrap(err, "declare %v", s.Name)
	}

	return []bytecode.Instr{bytecode.Const{Dst: reg, Idx: idx}}, nil
}
