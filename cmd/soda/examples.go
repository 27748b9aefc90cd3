package main

import (
	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

type (
	expr = ast.Expr[string]
	stmt = ast.Stmt[string]
)

// examples are trees a front end would normally produce.
// There is none in this repository, so the demos are built by hand.
var examples = map[string][]stmt{
	// x := 2 + 3
	"arith": {
		ast.Declare[string]{Name: "x"},
		ast.Assign[string]{Name: "x", X: bin(ast.Add, lit(2), lit(3))},
	},

	// abs := n; if n < 0 { abs = -n }
	"abs": {
		ast.Declare[string]{Name: "n"},
		ast.Assign[string]{Name: "n", X: lit(-7)},
		ast.Declare[string]{Name: "abs"},
		ast.Assign[string]{Name: "abs", X: v("n")},
		ast.If[string]{
			Cond: bin(ast.Lt, v("n"), lit(0)),
			Then: []stmt{
				ast.Assign[string]{Name: "abs", X: ast.Un[string]{Op: ast.Negate, Arg: v("n")}},
			},
		},
	},

	// sum of 1..10, skipping 5, stopping past 8
	"sum": {
		ast.Declare[string]{Name: "i"},
		ast.Assign[string]{Name: "i", X: lit(0)},
		ast.Declare[string]{Name: "sum"},
		ast.Assign[string]{Name: "sum", X: lit(0)},
		ast.While[string]{
			Cond: bin(ast.Leq, v("i"), lit(10)),
			Body: []stmt{
				ast.Assign[string]{Name: "i", X: bin(ast.Add, v("i"), lit(1))},
				ast.If[string]{
					Cond: bin(ast.Eq, v("i"), lit(5)),
					Then: []stmt{ast.Continue[string]{}},
				},
				ast.If[string]{
					Cond: bin(ast.Gt, v("i"), lit(8)),
					Then: []stmt{ast.Break[string]{}},
				},
				ast.Assign[string]{Name: "sum", X: bin(ast.Add, v("sum"), v("i"))},
			},
		},
		ast.Return[string]{X: v("sum")},
	},

	// p := (1, 2, 3); return p[1]
	"pair": {
		ast.Declare[string]{Name: "p"},
		ast.Assign[string]{Name: "p", X: ast.Mktup[string]{Parts: []expr{lit(1), lit(2), lit(3)}}},
		ast.Return[string]{X: ast.Index[string]{Tup: v("p"), Idx: lit(1)}},
	},

	// func add(a, b) { return a + b }; return add(2, 40)
	"apply": {
		ast.Defn[string]{
			Name:   "add",
			Params: []string{"a", "b"},
			Body: []stmt{
				ast.Return[string]{X: bin(ast.Add, v("a"), v("b"))},
			},
		},
		ast.Return[string]{X: ast.Call[string]{Fn: v("add"), Args: []expr{lit(2), lit(40)}}},
	},
}

func lit(v int64) expr { return ast.Lit[string]{Val: bytecode.Int(v)} }

func v(name string) expr { return ast.Var[string]{Name: name} }

func bin(op ast.Binop, l, r expr) expr { return ast.Bin[string]{Op: op, L: l, R: r} }
