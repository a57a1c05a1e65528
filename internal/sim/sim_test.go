package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spim/internal/ast"
)

func out(c string, cont ast.Process) ast.Summation {
	return ast.Summation{Alts: []ast.Alt{{Act: ast.Act{Kind: ast.Output, Channel: c}, Cont: cont}}}
}

func in(c string, cont ast.Process) ast.Summation {
	return ast.Summation{Alts: []ast.Alt{{Act: ast.Act{Kind: ast.Input, Channel: c}, Cont: cont}}}
}

// Scenario 1 (spec.md §8): new a@1.0 run (!a;end | ?a;end)
func TestUnaryReaction(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 1.0},
		ast.Run{Body: ast.Parallel{Left: out("a", ast.Termination{}), Right: in("a", ast.Termination{})}},
	}}

	s := New(1)
	require.NoError(t, s.Load(prog))

	rec, ok := s.Store().Channel("a")
	require.True(t, ok)
	assert.Equal(t, 1, rec.InCount)
	assert.Equal(t, 1, rec.OutCount)
	assert.Equal(t, 1, rec.Ax)

	res, err := s.Step()
	require.NoError(t, err)
	assert.False(t, res.Deadlocked)
	assert.Equal(t, "a", res.Channel)
	assert.Greater(t, s.Clock, 0.0)
	assert.Empty(t, s.term.Sums)

	res2, err := s.Step()
	require.NoError(t, err)
	assert.True(t, res2.Deadlocked)
}

// Scenario 2 (spec.md §8): mass-action dimerisation.
func TestMassActionDimerisation(t *testing.T) {
	sDef := ast.Def{Name: "S", Body: out("a", ast.Instance{Name: "S"})}
	tDef := ast.Def{Name: "T", Body: in("a", ast.Instance{Name: "T"})}
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 2.0},
		sDef, tDef,
		ast.Run{Body: ast.Parallel{
			Left:  ast.Repetition{K: 10, Body: ast.Instance{Name: "S"}},
			Right: ast.Repetition{K: 10, Body: ast.Instance{Name: "T"}},
		}},
	}}

	s := New(2)
	require.NoError(t, s.Load(prog))

	rec, ok := s.Store().Channel("a")
	require.True(t, ok)
	assert.Equal(t, 10, rec.InCount)
	assert.Equal(t, 10, rec.OutCount)
	assert.Equal(t, 100, rec.Ax)
	assert.Equal(t, 10, s.Store().InstanceCount("S"))
	assert.Equal(t, 10, s.Store().InstanceCount("T"))

	for i := 0; i < 5; i++ {
		res, err := s.Step()
		require.NoError(t, err)
		require.False(t, res.Deadlocked)

		rec, _ = s.Store().Channel("a")
		assert.Equal(t, 10, rec.InCount)
		assert.Equal(t, 10, rec.OutCount)
		assert.Equal(t, 100, rec.Ax)
		assert.Equal(t, 10, s.Store().InstanceCount("S"))
		assert.Equal(t, 10, s.Store().InstanceCount("T"))
	}
}

// Scenario 3 (spec.md §8): choice.
func TestChoice(t *testing.T) {
	choice := ast.Summation{Alts: []ast.Alt{
		{Act: ast.Act{Kind: ast.Input, Channel: "a"}, Cont: ast.Termination{}},
		{Act: ast.Act{Kind: ast.Input, Channel: "b"}, Cont: ast.Termination{}},
	}}
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 1.0},
		ast.NewChannel{Name: "b", Rate: 1.0},
		ast.Run{Body: ast.Parallel{Left: choice, Right: out("a", ast.Termination{})}},
	}}

	s := New(3)
	require.NoError(t, s.Load(prog))

	recA, _ := s.Store().Channel("a")
	recB, _ := s.Store().Channel("b")
	assert.Equal(t, 1, recA.Ax)
	assert.Equal(t, 0, recB.Ax, "b has no matching output, so ax(b) = 0")

	res, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, "a", res.Channel, "only a has ax > 0")

	recA, _ = s.Store().Channel("a")
	recB, _ = s.Store().Channel("b")
	assert.Equal(t, 0, recA.InCount)
	assert.Equal(t, 0, recA.OutCount)
	assert.Equal(t, 0, recB.InCount, "the choice cell's b guard is gone too")
	assert.Empty(t, s.term.Sums)
}

// Scenario 4 (spec.md §8): instance accounting.
func TestInstanceAccounting(t *testing.T) {
	pDef := ast.Def{Name: "P", Body: in("a", ast.Termination{})}
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 1.0},
		pDef,
		ast.Run{Body: ast.Parallel{Left: ast.Instance{Name: "P"}, Right: out("a", ast.Termination{})}},
	}}

	s := New(4)
	require.NoError(t, s.Load(prog))
	assert.Equal(t, 1, s.Store().InstanceCount("P"))

	_, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Store().InstanceCount("P"))
	assert.Empty(t, s.term.Sums)
}

// Scenario 5 (spec.md §8): replication.
func TestReplication(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 1.0},
		ast.Run{Body: ast.Parallel{
			Left:  ast.Replication{Act: ast.Act{Kind: ast.Output, Channel: "a"}, Body: ast.Termination{}},
			Right: in("a", ast.Termination{}),
		}},
	}}

	s := New(5)
	require.NoError(t, s.Load(prog))

	res, err := s.Step()
	require.NoError(t, err)
	require.False(t, res.Deadlocked)

	rec, _ := s.Store().Channel("a")
	assert.Equal(t, 0, rec.InCount)
	assert.Equal(t, 1, rec.OutCount, "the replication reinjects itself")
	assert.Equal(t, 0, rec.Ax)

	res2, err := s.Step()
	require.NoError(t, err)
	assert.True(t, res2.Deadlocked)
}

// Scenario 6 (spec.md §8): scoped channel freshening.
func TestScopedChannelFreshening(t *testing.T) {
	scoped := func() ast.Process {
		return ast.Restriction{Chan: "c", Rate: 1.0, Body: ast.Parallel{
			Left:  out("c", ast.Termination{}),
			Right: in("c", ast.Termination{}),
		}}
	}
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.Run{Body: ast.Parallel{Left: scoped(), Right: scoped()}},
	}}

	s := New(6)
	require.NoError(t, s.Load(prog))

	names := s.Store().ChannelNames()
	require.Len(t, names, 2, "each restriction must freshen to a distinct channel")
	assert.NotEqual(t, names[0], names[1])

	vec := s.activityVector()
	var total float64
	for _, a := range vec {
		total += a.Propensity
	}
	assert.InDelta(t, 2.0, total, 1e-9)
}

// Property D (spec.md §8): deadlock never mutates counts or the clock.
func TestDeadlockDoesNotMutateState(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Declaration{
		ast.NewChannel{Name: "a", Rate: 1.0},
		ast.Run{Body: out("a", ast.Termination{})},
	}}

	s := New(7)
	require.NoError(t, s.Load(prog))

	clockBefore := s.Clock
	res, err := s.Step()
	require.NoError(t, err)
	assert.True(t, res.Deadlocked)
	assert.Equal(t, clockBefore, s.Clock)
}
