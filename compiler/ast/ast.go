package ast

import (
	"github.com/a2aaron/soda-pop/compiler/bytecode"
)

type (
	// Expr is an expression over variable handles of type N.
	// The handle type is whatever an upstream resolution pass emits,
	// the tree only compares handles and looks them up.
	//
	// The set of variants is closed. Lowering switches over it
	// exhaustively and panics on anything else.
	Expr[N comparable] interface {
		expr() N
	}

	// Stmt is a statement over variable handles of type N.
	Stmt[N comparable] interface {
		stmt() N
	}

	Unop  uint8
	Binop uint8

	// Lit is a literal value.
	Lit[N comparable] struct {
		Val bytecode.Value
	}

	// Var references a declared variable.
	Var[N comparable] struct {
		Name N
	}

	Un[N comparable] struct {
		Op  Unop
		Arg Expr[N]
	}

	Bin[N comparable] struct {
		Op   Binop
		L, R Expr[N]
	}

	Call[N comparable] struct {
		Fn   Expr[N]
		Args []Expr[N]
	}

	// Index reads one element of a tuple.
	Index[N comparable] struct {
		Tup Expr[N]
		Idx Expr[N]
	}

	// Mktup constructs a tuple from its parts.
	Mktup[N comparable] struct {
		Parts []Expr[N]
	}

	// Declare introduces a variable. Its value is undefined until the
	// first assignment.
	Declare[N comparable] struct {
		Name N
	}

	// RawExpr evaluates an expression for its side effects and discards
	// the result.
	RawExpr[N comparable] struct {
		X Expr[N]
	}

	Assign[N comparable] struct {
		Name N
		X    Expr[N]
	}

	If[N comparable] struct {
		Cond Expr[N]
		Then []Stmt[N]
		Else []Stmt[N]
	}

	While[N comparable] struct {
		Cond Expr[N]
		Body []Stmt[N]
	}

	Continue[N comparable] struct{}

	Break[N comparable] struct{}

	Return[N comparable] struct {
		X Expr[N]
	}

	// Defn defines a nested function and binds it to Name.
	Defn[N comparable] struct {
		Name   N
		Params []N
		Body   []Stmt[N]
	}
)

const (
	Negate Unop = iota
	Not
)

const (
	Add Binop = iota
	Sub
	Mul
	Div
	Rem
	And
	Orr
	Xor
	Gt
	Lt
	Geq
	Leq
	Eq
	Neq
)

func (Lit[N]) expr() (n N)   { return }
func (Var[N]) expr() (n N)   { return }
func (Un[N]) expr() (n N)    { return }
func (Bin[N]) expr() (n N)   { return }
func (Call[N]) expr() (n N)  { return }
func (Index[N]) expr() (n N) { return }
func (Mktup[N]) expr() (n N) { return }

func (Declare[N]) stmt() (n N)  { return }
func (RawExpr[N]) stmt() (n N)  { return }
func (Assign[N]) stmt() (n N)   { return }
func (If[N]) stmt() (n N)       { return }
func (While[N]) stmt() (n N)    { return }
func (Continue[N]) stmt() (n N) { return }
func (Break[N]) stmt() (n N)    { return }
func (Return[N]) stmt() (n N)   { return }
func (Defn[N]) stmt() (n N)     { return }

func (op Unop) String() string {
	switch op {
	case Negate:
		return "-"
	case Not:
		return "!"
	default:
		return "unop?"
	}
}

func (op Binop) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Rem:
		return "%"
	case And:
		return "&"
	case Orr:
		return "|"
	case Xor:
		return "^"
	case Gt:
		return ">"
	case Lt:
		return "<"
	case Geq:
		return ">="
	case Leq:
		return "<="
	case Eq:
		return "=="
	case Neq:
		return "!="
	default:
		return "binop?"
	}
}
