package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

func TestFunc(t *testing.T) {
	fn := &bytecode.Func{
		Code: []bytecode.Instr{
			bytecode.Const{Dst: 2, Idx: 0},
			bytecode.Const{Dst: 3, Idx: 1},
			bytecode.Bin{Op: bytecode.Add, Dst: 1, L: 2, R: 3},
			bytecode.Copy{Dst: 0, Src: 1},
		},
		NumRegs: 4,
		Consts:  []bytecode.Value{bytecode.Int(2), bytecode.Int(3)},
	}

	b := Func(nil, fn)

	t.Logf("listing:\n%s", b)

	s := string(b)

	assert.Contains(t, s, "func(regs 4)")
	assert.Contains(t, s, "const       r2 <- c0")
	assert.Contains(t, s, "add         r1 <- r2, r3")
	assert.Contains(t, s, "copy        r0 <- r1")
}

func TestJumpTargets(t *testing.T) {
	code := []bytecode.Instr{
		bytecode.JumpUnless{Cond: 1, Off: 3},
		bytecode.Jump{Off: -1},
		bytecode.Return{Src: 0},
	}

	s := string(Instrs(nil, code))

	t.Logf("listing:\n%s", s)

	assert.Contains(t, s, "jump.unless r1 +3  -> 3")
	assert.Contains(t, s, "jump        -1  -> 0")
}
