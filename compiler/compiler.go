package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
	"github.com/a2aaron/soda-pop/compiler/codegen"
	"github.com/a2aaron/soda-pop/compiler/resolve"
)

// Compile resolves a function body over surface names and lowers it to
// bytecode.
func Compile(ctx context.Context, block []ast.Stmt[string]) (fn *bytecode.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile func", "stmts", len(block))
	defer tr.Finish("err", &err)

	resolved, err := resolve.Block(ctx, block)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}

	return CompileResolved(ctx, resolved)
}

// CompileResolved lowers a function body whose variable references an
// upstream pass already turned into unique handles.
func CompileResolved[N comparable](ctx context.Context, block []ast.Stmt[N]) (fn *bytecode.Func, err error) {
	tr := tlog.SpanFromContext(ctx)

	f := codegen.New[N]()

	code, err := f.Compile(ctx, block)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	fn = &bytecode.Func{
		Code:    code,
		NumRegs: f.NumRegs(),
		Consts:  f.Consts(),
	}

	if tr.If("dump_code") {
		for i, x := range fn.Code {
			tr.Printw("code", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}

		for i, v := range fn.Consts {
			tr.Printw("const", "i", i, "typ", tlog.NextAsType, v, "val", v)
		}
	}

	tr.V("compile").Printw("compiled func", "code", len(fn.Code), "regs", fn.NumRegs, "consts", len(fn.Consts))

	return fn, nil
}
