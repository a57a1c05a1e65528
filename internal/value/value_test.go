package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	e := BinExpr{Op: Plus, L: IntLit{1}, R: IntLit{2}}
	v, err := Eval(e)
	require.NoError(t, err)
	assert.Equal(t, IntLit{3}, v)
}

func TestEvalTupleIndex(t *testing.T) {
	tup := TupleExpr{Elems: []Expr{IntLit{10}, BoolLit{true}}}
	v, err := Eval(IndexExpr{I: 1, E: tup})
	require.NoError(t, err)
	assert.Equal(t, BoolLit{true}, v)
}

func TestEvalApplication(t *testing.T) {
	abs := AbsExpr{Param: "x", Body: BinExpr{Op: Times, L: Var{"x"}, R: IntLit{2}}}
	v, err := Eval(AppExpr{Fn: abs, Arg: IntLit{21}})
	require.NoError(t, err)
	assert.Equal(t, IntLit{42}, v)
}

func TestEvalIfExpr(t *testing.T) {
	e := IfExpr{Cond: BoolLit{false}, Then: IntLit{1}, Else: IntLit{2}}
	v, err := Eval(e)
	require.NoError(t, err)
	assert.Equal(t, IntLit{2}, v)
}

func TestEvalIllTypedFails(t *testing.T) {
	_, err := Eval(BinExpr{Op: Plus, L: IntLit{1}, R: BoolLit{true}})
	assert.Error(t, err)

	_, err = Eval(IndexExpr{I: 0, E: IntLit{5}})
	assert.Error(t, err)

	_, err = Eval(AppExpr{Fn: IntLit{1}, Arg: IntLit{2}})
	assert.Error(t, err)

	_, err = Eval(IfExpr{Cond: IntLit{1}, Then: IntLit{1}, Else: IntLit{2}})
	assert.Error(t, err)
}

// Property E from spec.md §8: substitutions commute when the names are
// distinct and non-capturing.
func TestSubstituteCommutes(t *testing.T) {
	body := BinExpr{Op: Plus, L: Var{"x"}, R: Var{"y"}}
	v1, v2 := IntLit{1}, IntLit{2}

	left := Substitute(Substitute(body, "x", v1), "y", v2)
	right := Substitute(Substitute(body, "y", v2), "x", v1)
	assert.Equal(t, left, right)
}
