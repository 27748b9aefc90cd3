package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2aaron/soda-pop/compiler/ast"
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	fn, err := Compile(ctx, nil)
	if err != nil {
		t.Errorf("compile func: %v", err)
	}

	t.Logf("result: %+v", fn)
}

func TestCompile(t *testing.T) {
	ctx := context.Background()

	fn, err := Compile(ctx, []ast.Stmt[string]{
		ast.Declare[string]{Name: "x"},
		ast.Assign[string]{Name: "x", X: ast.Bin[string]{
			Op: ast.Add,
			L:  ast.Lit[string]{Val: bytecode.Int(2)},
			R:  ast.Lit[string]{Val: bytecode.Int(3)},
		}},
	})
	require.NoError(t, err)

	want := []bytecode.Instr{
		bytecode.Const{Dst: 2, Idx: 0},
		bytecode.Const{Dst: 3, Idx: 1},
		bytecode.Bin{Op: bytecode.Add, Dst: 1, L: 2, R: 3},
		bytecode.Copy{Dst: 0, Src: 1},
	}

	assert.Equal(t, want, fn.Code)
	assert.Equal(t, 4, fn.NumRegs)
	assert.Equal(t, []bytecode.Value{bytecode.Int(2), bytecode.Int(3)}, fn.Consts)
}

func TestCompileResolveError(t *testing.T) {
	ctx := context.Background()

	_, err := Compile(ctx, []ast.Stmt[string]{
		ast.Assign[string]{Name: "x", X: ast.Lit[string]{Val: bytecode.Int(1)}},
	})
	require.Error(t, err)
}

func TestCompileLoop(t *testing.T) {
	ctx := context.Background()

	fn, err := Compile(ctx, []ast.Stmt[string]{
		ast.Declare[string]{Name: "i"},
		ast.Assign[string]{Name: "i", X: ast.Lit[string]{Val: bytecode.Int(0)}},
		ast.While[string]{
			Cond: ast.Bin[string]{
				Op: ast.Lt,
				L:  ast.Var[string]{Name: "i"},
				R:  ast.Lit[string]{Val: bytecode.Int(10)},
			},
			Body: []ast.Stmt[string]{
				ast.Assign[string]{Name: "i", X: ast.Bin[string]{
					Op: ast.Add,
					L:  ast.Var[string]{Name: "i"},
					R:  ast.Lit[string]{Val: bytecode.Int(1)},
				}},
			},
		},
	})
	require.NoError(t, err)

	assert.Len(t, fn.Code, 9)
	assert.Equal(t, 3, fn.NumRegs)
	assert.Len(t, fn.Consts, 3)
}
