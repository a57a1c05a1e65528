// Package machine implements the flattened machine-term representation and
// the construct() compilation function of spec.md §3/§4.4. Grounded on
// _examples/original_source/src/machineterm.rs (the TopRestriction/SummList
// shape) and src/sim.rs's construct (extended to cover LetVal, n-ary
// Instance unfolding via ast.Replace, and Repetition/Replication, none of
// which the prototype's construct handles).
package machine

import (
	"fmt"

	"spim/internal/ast"
	"spim/internal/store"
	"spim/internal/symgen"
	"spim/internal/value"
)

// Restriction is one link of the TopRestriction prefix chain.
type Restriction struct {
	Chan string
	Rate float64
}

// Summ is a flattened choice cell: a nonempty list of guarded continuations,
// optionally tagged with the instance name that produced it (spec.md §3).
// When a tagged cell is consumed, that instance's live count is
// decremented.
type Summ struct {
	Origin    string
	HasOrigin bool
	Alts      []ast.Alt
}

// Acts extracts the guard list from a cell's alternatives, for store
// activity accounting.
func (s *Summ) Acts() []ast.Act {
	acts := make([]ast.Act, len(s.Alts))
	for i, a := range s.Alts {
		acts[i] = a.Act
	}
	return acts
}

// Term is the machine term: a (possibly empty) TopRestriction prefix
// wrapping a flat SummList (spec.md §3). The prefix is kept as an ordered
// slice rather than a nested TopRestriction(_, _, TopRestriction(...))
// chain — the two are semantically identical, and a slice avoids a
// needless recursive type for what construct() only ever prepends to or
// walks linearly.
type Term struct {
	Restrictions []Restriction
	Sums         []*Summ
}

// NewEmpty returns the empty machine term (spec.md §8 boundary: the empty
// program compiles to an empty sum list).
func NewEmpty() *Term {
	return &Term{}
}

// Construct compiles proc onto the front of term, threading symgen for
// fresh restriction names and st for definition lookup and activity
// accounting. It is the sole entry point other packages should call;
// construct's origin parameter carries the "this call is unfolding instance X" context
// needed to resolve which eventual summ cell gets tagged with an Instance's
// origin (spec.md §9, open question 4 / SPEC_FULL.md §4 item 4).
func Construct(term *Term, proc ast.Process, sg *symgen.Generator, st *store.Store) (*Term, error) {
	origin := new(string)
	return construct(term, proc, sg, st, origin)
}

// construct implements spec.md §4.4's case analysis. origin, when non-empty,
// names the instance currently being unfolded; the first Summation reached
// while it is non-empty consumes it (tags its cell, then clears origin) so
// deeper sibling summations created later in the same unfold stay anonymous.
func construct(term *Term, proc ast.Process, sg *symgen.Generator, st *store.Store, origin *string) (*Term, error) {
	switch p := proc.(type) {
	case ast.Restriction:
		fresh := sg.Next()
		st.AddChannel(fresh, p.Rate)
		body := ast.SubstituteChannel(p.Body, p.Chan, fresh)
		newTerm, err := construct(term, body, sg, st, origin)
		if err != nil {
			return nil, err
		}
		newTerm.Restrictions = append([]Restriction{{Chan: fresh, Rate: p.Rate}}, newTerm.Restrictions...)
		return newTerm, nil

	case ast.LetVal:
		v, err := value.Eval(p.Expr)
		if err != nil {
			return nil, err
		}
		body := ast.SubstituteValue(p.Body, p.Var, v)
		return construct(term, body, sg, st, origin)

	case ast.Parallel:
		// Right first, then left — the leftmost process ends up at the head
		// of the sum list (spec.md §4.4).
		t1, err := construct(term, p.Right, sg, st, origin)
		if err != nil {
			return nil, err
		}
		return construct(t1, p.Left, sg, st, origin)

	case ast.Summation:
		if len(p.Alts) == 0 {
			return nil, fmt.Errorf("construct: empty summation (spec.md invariant: every summ cell has a nonempty action list)")
		}
		cell := &Summ{Alts: p.Alts}
		if origin != nil && *origin != "" {
			cell.HasOrigin = true
			cell.Origin = *origin
			*origin = ""
		}
		st.AddCounts(cell.Acts())
		term.Sums = append([]*Summ{cell}, term.Sums...)
		return term, nil

	case ast.Instance:
		def, ok := st.Def(p.Name)
		if !ok {
			return nil, fmt.Errorf("construct: no definition for instance %q", p.Name)
		}
		if len(def.Formals) != len(p.Args) {
			return nil, fmt.Errorf("construct: instance %q arity %d does not match definition arity %d", p.Name, len(p.Args), len(def.Formals))
		}
		st.IncInstance(p.Name)

		body := def.Body
		for i, formal := range def.Formals {
			v, err := value.Eval(p.Args[i])
			if err != nil {
				return nil, err
			}
			substs, err := ast.Replace(formal, v)
			if err != nil {
				return nil, err
			}
			body = ast.ApplySubsts(body, substs)
		}

		// The discriminating rule (spec.md §4.4): only when the unfolded
		// body is immediately a Summation do we tag its cell directly here.
		// Otherwise thread the origin down so whichever summ cell the
		// recursive construct eventually produces first gets tagged
		// (SPEC_FULL.md §4 item 4), instead of leaving the increment
		// permanently undischarged.
		if sum, isSum := body.(ast.Summation); isSum {
			if len(sum.Alts) == 0 {
				return nil, fmt.Errorf("construct: empty summation (spec.md invariant: every summ cell has a nonempty action list)")
			}
			cell := &Summ{Alts: sum.Alts, HasOrigin: true, Origin: p.Name}
			st.AddCounts(cell.Acts())
			term.Sums = append([]*Summ{cell}, term.Sums...)
			return term, nil
		}
		pending := p.Name
		return construct(term, body, sg, st, &pending)

	case ast.Repetition:
		cur := term
		for i := 0; i < p.K; i++ {
			var err error
			cur, err = construct(cur, p.Body, sg, st, origin)
			if err != nil {
				return nil, err
			}
		}
		return cur, nil

	case ast.Replication:
		reinjected := ast.Summation{Alts: []ast.Alt{{
			Act:  p.Act,
			Cont: ast.Parallel{Left: p.Body, Right: p},
		}}}
		return construct(term, reinjected, sg, st, origin)

	case ast.Termination:
		return term, nil

	default:
		return nil, fmt.Errorf("construct: unhandled process node %T", proc)
	}
}

// Seek scans the sum list in cell order, and within a cell in action order,
// returning the (cellIndex, altIndex) of the k-th alternative whose action
// is of the given kind on chanName (spec.md §4.7). k is 0-based.
func Seek(sums []*Summ, kind ast.ActKind, chanName string, k int) (cellIndex, altIndex int, err error) {
	seen := 0
	for ci, cell := range sums {
		for ai, alt := range cell.Alts {
			if alt.Act.Kind == kind && alt.Act.Channel == chanName {
				if seen == k {
					return ci, ai, nil
				}
				seen++
			}
		}
	}
	return 0, 0, fmt.Errorf("seek: no %d-th match for channel %q (invariant violation: store/term disagree)", k, chanName)
}

// RemoveCell deletes the cell at index ci from sums, subtracts its activity
// contribution from st, and decrements its origin's instance count if
// tagged. Returns the removed cell (so its continuations can be fired) and
// the shortened slice.
func RemoveCell(sums []*Summ, ci int, st *store.Store) (*Summ, []*Summ) {
	cell := sums[ci]
	st.RemoveCounts(cell.Acts())
	if cell.HasOrigin {
		st.DecInstance(cell.Origin)
	}
	out := make([]*Summ, 0, len(sums)-1)
	out = append(out, sums[:ci]...)
	out = append(out, sums[ci+1:]...)
	return cell, out
}
