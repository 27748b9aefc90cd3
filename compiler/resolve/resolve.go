package resolve

import (
	"context"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/a2aaron/soda-pop/compiler/ast"
)

type (
	// Name is an opaque variable handle: unique per declared variable,
	// only ever compared and used as a map key downstream.
	Name struct {
		id int
	}

	state struct {
		next int

		// innermost scope last, one stack per function
		scopes []map[string]Name
	}
)

var ErrResolve = errors.New("name resolution")

// Block turns a tree over surface names into the same tree over unique
// handles. It is the pass the code generator assumes has already run:
// every variable reference downstream resolves by handle equality
// alone.
//
// Scoping is lexical: if and while bodies open a nested scope, an inner
// declaration shadows an outer one under a fresh handle. A nested
// function body sees only its own parameters and declarations, closing
// over enclosing variables is not supported.
func Block(ctx context.Context, block []ast.Stmt[string]) ([]ast.Stmt[Name], error) {
	s := &state{}

	s.push()

	out, err := s.block(block)
	if err != nil {
		return nil, err
	}

	tlog.SpanFromContext(ctx).V("resolve").Printw("resolved block", "stmts", len(block), "names", s.next)

	return out, nil
}

func (n Name) String() string { return "v" + strconv.Itoa(n.id) }

func (s *state) push() {
	s.scopes = append(s.scopes, map[string]Name{})
}

func (s *state) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *state) declare(name string) (Name, error) {
	sc := s.scopes[len(s.scopes)-1]

	if _, ok := sc[name]; ok {
		return Name{}, errors.Wrap(ErrResolve, "redeclared in the same scope: %v", name)
	}

	n := Name{id: s.next}
	s.next++

	sc[name] = n

	return n, nil
}

func (s *state) lookup(name string) (Name, error) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if n, ok := s.scopes[i][name]; ok {
			return n, nil
		}
	}

	return Name{}, errors.Wrap(ErrResolve, "undeclared: %v", name)
}

func (s *state) block(block []ast.Stmt[string]) ([]ast.Stmt[Name], error) {
	out := make([]ast.Stmt[Name], len(block))

	for i, st := range block {
		r, err := s.stmt(st)
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}

		out[i] = r
	}

	return out, nil
}

func (s *state) nested(block []ast.Stmt[string]) ([]ast.Stmt[Name], error) {
	s.push()
	defer s.pop()

	return s.block(block)
}

func (s *state) stmt(st ast.Stmt[string]) (ast.Stmt[Name], error) {
	switch st := st.(type) {
	case ast.Declare[string]:
		n, err := s.declare(st.Name)
		if err != nil {
			return nil, err
		}

		return ast.Declare[Name]{Name: n}, nil
	case ast.RawExpr[string]:
		x, err := s.expr(st.X)
		if err != nil {
			return nil, err
		}

		return ast.RawExpr[Name]{X: x}, nil
	case ast.Assign[string]:
		n, err := s.lookup(st.Name)
		if err != nil {
			return nil, errors.Wrap(err, "assign")
		}

		x, err := s.expr(st.X)
		if err != nil {
			return nil, errors.Wrap(err, "assign %v", st.Name)
		}

		return ast.Assign[Name]{Name: n, X: x}, nil
	case ast.If[string]:
		cond, err := s.expr(st.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		then, err := s.nested(st.Then)
		if err != nil {
			return nil, errors.Wrap(err, "then block")
		}

		els, err := s.nested(st.Else)
		if err != nil {
			return nil, errors.Wrap(err, "else block")
		}

		return ast.If[Name]{Cond: cond, Then: then, Else: els}, nil
	case ast.While[string]:
		cond, err := s.expr(st.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		body, err := s.nested(st.Body)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		return ast.While[Name]{Cond: cond, Body: body}, nil
	case ast.Continue[string]:
		return ast.Continue[Name]{}, nil
	case ast.Break[string]:
		return ast.Break[Name]{}, nil
	case ast.Return[string]:
		x, err := s.expr(st.X)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		return ast.Return[Name]{X: x}, nil
	case ast.Defn[string]:
		n, err := s.declare(st.Name)
		if err != nil {
			return nil, err
		}

		// fresh scope stack: the body can't see enclosing variables
		sub := &state{next: s.next}
		sub.push()

		params := make([]Name, len(st.Params))

		for i, p := range st.Params {
			params[i], err = sub.declare(p)
			if err != nil {
				return nil, errors.Wrap(err, "param")
			}
		}

		body, err := sub.block(st.Body)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", st.Name)
		}

		s.next = sub.next

		return ast.Defn[Name]{Name: n, Params: params, Body: body}, nil
	default:
		panic(st)
	}
}

func (s *state) expr(x ast.Expr[string]) (ast.Expr[Name], error) {
	switch x := x.(type) {
	case ast.Lit[string]:
		return ast.Lit[Name]{Val: x.Val}, nil
	case ast.Var[string]:
		n, err := s.lookup(x.Name)
		if err != nil {
			return nil, err
		}

		return ast.Var[Name]{Name: n}, nil
	case ast.Un[string]:
		arg, err := s.expr(x.Arg)
		if err != nil {
			return nil, err
		}

		return ast.Un[Name]{Op: x.Op, Arg: arg}, nil
	case ast.Bin[string]:
		l, err := s.expr(x.L)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		r, err := s.expr(x.R)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		return ast.Bin[Name]{Op: x.Op, L: l, R: r}, nil
	case ast.Call[string]:
		fn, err := s.expr(x.Fn)
		if err != nil {
			return nil, errors.Wrap(err, "callee")
		}

		args := make([]ast.Expr[Name], len(x.Args))

		for i, a := range x.Args {
			args[i], err = s.expr(a)
			if err != nil {
				return nil, errors.Wrap(err, "argument %d", i)
			}
		}

		return ast.Call[Name]{Fn: fn, Args: args}, nil
	case ast.Index[string]:
		tup, err := s.expr(x.Tup)
		if err != nil {
			return nil, errors.Wrap(err, "tuple")
		}

		idx, err := s.expr(x.Idx)
		if err != nil {
			return nil, errors.Wrap(err, "index")
		}

		return ast.Index[Name]{Tup: tup, Idx: idx}, nil
	case ast.Mktup[string]:
		parts := make([]ast.Expr[Name], len(x.Parts))

		var err error

		for i, p := range x.Parts {
			parts[i], err = s.expr(p)
			if err != nil {
				return nil, errors.Wrap(err, "element %d", i)
			}
		}

		return ast.Mktup[Name]{Parts: parts}, nil
	default:
		panic(x)
	}
}
