package bytecode

import "fmt"

type (
	// Value is a runtime value as the vm represents it.
	// The compiler only ever compares values, it compares with Equal,
	// never with identity.
	Value interface {
		Equal(Value) bool
	}

	Int  int64
	Bool bool
	Str  string
)

func (v Int) Equal(w Value) bool {
	x, ok := w.(Int)
	return ok && x == v
}

func (v Bool) Equal(w Value) bool {
	x, ok := w.(Bool)
	return ok && x == v
}

func (v Str) Equal(w Value) bool {
	x, ok := w.(Str)
	return ok && x == v
}

// Equal on functions is identity. Two separately compiled functions are
// never the same value even if their code coincides.
func (f *Func) Equal(w Value) bool {
	x, ok := w.(*Func)
	return ok && x == f
}

func (f *Func) String() string {
	return fmt.Sprintf("func(regs %d, code %d)", f.NumRegs, len(f.Code))
}
