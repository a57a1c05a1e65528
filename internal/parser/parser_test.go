package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spim/internal/ast"
	"spim/internal/symgen"
	"spim/internal/value"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, err := ParseWithGenerator(source, symgen.New())
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseUnaryReaction(t *testing.T) {
	prog := mustParse(t, `new a@1.0 run (!a;end | ?a;end)`)
	require.Len(t, prog.Decls, 2)

	ch, ok := prog.Decls[0].(ast.NewChannel)
	require.True(t, ok)
	assert.Equal(t, "a", ch.Name)
	assert.InDelta(t, 1.0, ch.Rate, 1e-9)

	run, ok := prog.Decls[1].(ast.Run)
	require.True(t, ok)
	par, ok := run.Body.(ast.Parallel)
	require.True(t, ok)

	left, ok := par.Left.(ast.Summation)
	require.True(t, ok)
	require.Len(t, left.Alts, 1)
	assert.Equal(t, ast.Output, left.Alts[0].Act.Kind)
	assert.Equal(t, "a", left.Alts[0].Act.Channel)

	right, ok := par.Right.(ast.Summation)
	require.True(t, ok)
	assert.Equal(t, ast.Input, right.Alts[0].Act.Kind)
}

func TestParseDefAndInstance(t *testing.T) {
	prog := mustParse(t, `
new a@2.0
let S() = !a;S()
let T() = ?a;T()
run (10 of S() | 10 of T())
`)
	require.Len(t, prog.Decls, 4)

	sDef, ok := prog.Decls[1].(ast.Def)
	require.True(t, ok)
	assert.Equal(t, "S", sDef.Name)
	assert.Empty(t, sDef.Formals)

	run := prog.Decls[3].(ast.Run)
	par := run.Body.(ast.Parallel)
	rep, ok := par.Left.(ast.Repetition)
	require.True(t, ok)
	assert.Equal(t, 10, rep.K)
	inst, ok := rep.Body.(ast.Instance)
	require.True(t, ok)
	assert.Equal(t, "S", inst.Name)
}

func TestParseChoice(t *testing.T) {
	prog := mustParse(t, `new a@1.0 new b@1.0 run (do ?a;end or ?b;end | !a;end)`)
	run := prog.Decls[len(prog.Decls)-1].(ast.Run)
	par := run.Body.(ast.Parallel)
	choice, ok := par.Left.(ast.Summation)
	require.True(t, ok)
	require.Len(t, choice.Alts, 2)
	assert.Equal(t, "a", choice.Alts[0].Act.Channel)
	assert.Equal(t, "b", choice.Alts[1].Act.Channel)
}

func TestParseReplicationAndScopedRestriction(t *testing.T) {
	prog := mustParse(t, `run (let new c@1.0 in (replicate !c;end | ?c;end))`)
	run := prog.Decls[0].(ast.Run)
	restr, ok := run.Body.(ast.Restriction)
	require.True(t, ok)
	assert.Equal(t, "c", restr.Chan)

	par := restr.Body.(ast.Parallel)
	repl, ok := par.Left.(ast.Replication)
	require.True(t, ok)
	assert.Equal(t, ast.Output, repl.Act.Kind)
}

func TestParseValInWithTuplePatternDesugars(t *testing.T) {
	prog := mustParse(t, `new a@1.0 run (val (x, y) = (1, 2) in !a;end)`)
	run := prog.Decls[1].(ast.Run)

	// The tuple pattern desugars to a LetVal around a fresh binder, wrapping
	// nested LetVals for each indexed projection (ast.BindPattern).
	outer, ok := run.Body.(ast.LetVal)
	require.True(t, ok)
	assert.Equal(t, value.TupleExpr{Elems: []value.Expr{value.IntLit{I: 1}, value.IntLit{I: 2}}}, outer.Expr)

	inner, ok := outer.Body.(ast.LetVal)
	require.True(t, ok)
	assert.Equal(t, "x", inner.Var)
}

func TestParseInstanceWithExprArgs(t *testing.T) {
	prog := mustParse(t, `let P(n) = end run P(1 + 2 * 3)`)
	def := prog.Decls[0].(ast.Def)
	assert.Equal(t, "P", def.Name)
	require.Len(t, def.Formals, 1)
	_, isName := def.Formals[0].(ast.NamePattern)
	assert.True(t, isName)

	run := prog.Decls[1].(ast.Run)
	inst := run.Body.(ast.Instance)
	require.Len(t, inst.Args, 1)
	bin, ok := inst.Args[0].(value.BinExpr)
	require.True(t, ok)
	assert.Equal(t, value.Plus, bin.Op)
}

func TestParseRejectsEmptyProgram(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestParseRejectsMalformedAction(t *testing.T) {
	_, err := Parse(`new a@1.0 run (!a end)`)
	assert.Error(t, err, "a missing ';' after the action's channel name must fail")
}

func TestScannerTokensForCoreSymbols(t *testing.T) {
	toks := NewScanner(`new a@1.0 ?b; !c; do or end`).ScanTokens()
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, NEW)
	assert.Contains(t, types, AT)
	assert.Contains(t, types, QUESTION)
	assert.Contains(t, types, BANG)
	assert.Contains(t, types, DO)
	assert.Contains(t, types, OR)
	assert.Contains(t, types, END)
	assert.Equal(t, EOF, types[len(types)-1])
}
