package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

type (
	expr = ast.Expr[string]
	stmt = ast.Stmt[string]
)

func lit(v int64) expr { return ast.Lit[string]{Val: bytecode.Int(v)} }

func TestUniqueHandles(t *testing.T) {
	ctx := context.Background()

	out, err := Block(ctx, []stmt{
		ast.Declare[string]{Name: "x"},
		ast.Declare[string]{Name: "y"},
		ast.Assign[string]{Name: "x", X: ast.Var[string]{Name: "y"}},
	})
	require.NoError(t, err)

	x := out[0].(ast.Declare[Name]).Name
	y := out[1].(ast.Declare[Name]).Name

	assert.NotEqual(t, x, y)

	as := out[2].(ast.Assign[Name])
	assert.Equal(t, x, as.Name)
	assert.Equal(t, y, as.X.(ast.Var[Name]).Name)
}

func TestShadowing(t *testing.T) {
	ctx := context.Background()

	out, err := Block(ctx, []stmt{
		ast.Declare[string]{Name: "x"},
		ast.If[string]{
			Cond: lit(1),
			Then: []stmt{
				ast.Declare[string]{Name: "x"},
				ast.Assign[string]{Name: "x", X: lit(2)},
			},
		},
		ast.Assign[string]{Name: "x", X: lit(3)},
	})
	require.NoError(t, err)

	outer := out[0].(ast.Declare[Name]).Name
	then := out[1].(ast.If[Name]).Then
	inner := then[0].(ast.Declare[Name]).Name

	assert.NotEqual(t, outer, inner, "inner declaration shadows under a fresh handle")
	assert.Equal(t, inner, then[1].(ast.Assign[Name]).Name)
	assert.Equal(t, outer, out[2].(ast.Assign[Name]).Name)
}

func TestUseBeforeDeclare(t *testing.T) {
	ctx := context.Background()

	_, err := Block(ctx, []stmt{
		ast.Assign[string]{Name: "x", X: lit(1)},
	})
	require.ErrorIs(t, err, ErrResolve)

	_, err = Block(ctx, []stmt{
		ast.RawExpr[string]{X: ast.Var[string]{Name: "x"}},
		ast.Declare[string]{Name: "x"},
	})
	require.ErrorIs(t, err, ErrResolve)
}

func TestRedeclare(t *testing.T) {
	ctx := context.Background()

	_, err := Block(ctx, []stmt{
		ast.Declare[string]{Name: "x"},
		ast.Declare[string]{Name: "x"},
	})
	require.ErrorIs(t, err, ErrResolve)
}

func TestScopeExit(t *testing.T) {
	ctx := context.Background()

	_, err := Block(ctx, []stmt{
		ast.If[string]{
			Cond: lit(1),
			Then: []stmt{ast.Declare[string]{Name: "x"}},
		},
		ast.Assign[string]{Name: "x", X: lit(2)},
	})
	require.ErrorIs(t, err, ErrResolve, "block-local name is not visible after the block")
}

func TestDefnParams(t *testing.T) {
	ctx := context.Background()

	out, err := Block(ctx, []stmt{
		ast.Defn[string]{
			Name:   "add",
			Params: []string{"a", "b"},
			Body: []stmt{
				ast.Return[string]{X: ast.Bin[string]{
					Op: ast.Add,
					L:  ast.Var[string]{Name: "a"},
					R:  ast.Var[string]{Name: "b"},
				}},
			},
		},
	})
	require.NoError(t, err)

	d := out[0].(ast.Defn[Name])
	ret := d.Body[0].(ast.Return[Name]).X.(ast.Bin[Name])

	assert.Equal(t, d.Params[0], ret.L.(ast.Var[Name]).Name)
	assert.Equal(t, d.Params[1], ret.R.(ast.Var[Name]).Name)
}

func TestNoClosures(t *testing.T) {
	ctx := context.Background()

	_, err := Block(ctx, []stmt{
		ast.Declare[string]{Name: "x"},
		ast.Defn[string]{
			Name: "f",
			Body: []stmt{
				ast.Return[string]{X: ast.Var[string]{Name: "x"}},
			},
		},
	})
	require.ErrorIs(t, err, ErrResolve, "a nested function can't see enclosing variables")
}
