// Package sim is the simulator: it owns the machine term, the store, the
// RNG and the clock, and implements construct/reduce/Gillespie-draw
// end to end (spec.md §2 item 6, §4.6, §4.7). Grounded on
// _examples/original_source/src/sim.rs's Simulator struct, whose reduce()
// only handles the TopRestriction-peeling half and panics on SummList —
// the SummList half (Gillespie draw, seek, fire, reconstruct) is this
// package's main addition.
package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"spim/internal/ast"
	"spim/internal/machine"
	"spim/internal/store"
	"spim/internal/symgen"
)

// Simulator holds the single-threaded mutable state described in spec.md
// §5: the current machine term, the store, the RNG, the clock, and the
// symbol generator.
type Simulator struct {
	Clock   float64
	Steps   int
	term    *machine.Term
	st      *store.Store
	sg      *symgen.Generator
	rng     *rand.Rand
}

// New returns a simulator seeded deterministically from seed (spec.md §5:
// "reproducibility is a function of (source, seed, channel ordering)").
func New(seed uint64) *Simulator {
	return &Simulator{
		term: machine.NewEmpty(),
		st:   store.New(),
		sg:   symgen.New(),
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Store exposes the simulator's store, read-only from the caller's point of
// view (used by the CLI driver to print trace rows and by tests to check
// invariants).
func (s *Simulator) Store() *store.Store { return s.st }

// Load compiles a program's declarations into the simulator's initial
// machine term, in declaration order (spec.md §6). Top-level `val`
// declarations are a user error (spec.md §7.1, §9 open question 1): they
// are parsed but reserved for future use, not silently executed.
func (s *Simulator) Load(prog *ast.Program) error {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case ast.NewChannel:
			s.st.AddChannel(decl.Name, decl.Rate)
		case ast.ValDecl:
			return fmt.Errorf("top-level val declarations are reserved for future use (%s)", decl)
		case ast.Def:
			s.st.AddDef(decl.Name, decl.Formals, decl.Body)
		case ast.Run:
			term, err := machine.Construct(s.term, decl.Body, s.sg, s.st)
			if err != nil {
				return err
			}
			s.term = term
		default:
			return fmt.Errorf("sim.Load: unhandled declaration %T", d)
		}
	}
	return nil
}

// StepResult reports the outcome of one Step call.
type StepResult struct {
	Deadlocked bool
	Channel    string
	Tau        float64
}

// Step peels any leading restriction prefix (registering channels — a
// no-op when already registered, per spec.md §4.7's idempotency note),
// then performs one Gillespie-driven reduction on the sum list: draw a
// channel and elapsed time, seek and remove one input and one output
// guard on that channel, fire their continuations back into the term, and
// advance the clock.
func (s *Simulator) Step() (StepResult, error) {
	for _, r := range s.term.Restrictions {
		s.st.AddChannel(r.Chan, r.Rate)
	}
	s.term.Restrictions = nil

	vec := s.activityVector()
	// rng.Float64 draws from [0, 1); spec.md §4.6 requires n1 strictly
	// positive (tau = -ln(n1)/a0 would blow up to +Inf at n1 == 0), so
	// reflect it to (0, 1].
	channel, tau, deadlocked := gillespieDraw(vec, 1-s.rng.Float64(), s.rng.Float64())
	if deadlocked {
		return StepResult{Deadlocked: true}, nil
	}

	rec, ok := s.st.Channel(channel)
	if !ok {
		return StepResult{}, fmt.Errorf("sim.Step: Gillespie selected unregistered channel %q", channel)
	}

	// ax(channel) > 0 only promises some input/output pairing exists on
	// this channel, not that every input occurrence has one: a mixed cell
	// (both ?c and !c guards) can itself be the channel's unique remaining
	// output source, and drawing that cell's input would remove the only
	// matching output with it. Restrict the draw to inputs whose own cell
	// isn't the sole output source, so the subsequent output seek can never
	// come up empty.
	candidates := s.validInputCandidates(channel, rec.OutCount)
	if len(candidates) == 0 {
		return StepResult{}, fmt.Errorf("sim.Step: no selectable input for channel %q leaves a matching output (invariant violation)", channel)
	}
	pick := candidates[s.rng.IntN(len(candidates))]
	cellIn, sums := machine.RemoveCell(s.term.Sums, pick.cellIndex, s.st)
	s.term.Sums = sums
	pIn := cellIn.Alts[pick.altIndex].Cont

	// validInputCandidates already guaranteed a matching output survives the
	// input cell's removal; re-check here as a cheap invariant guard rather
	// than trusting it silently.
	rec, ok = s.st.Channel(channel)
	if !ok || rec.OutCount == 0 {
		return StepResult{}, fmt.Errorf("sim.Step: invariant violation, no matching output for channel %q after input removed", channel)
	}
	iOut := s.rng.IntN(rec.OutCount)
	ciOut, aiOut, err := machine.Seek(s.term.Sums, ast.Output, channel, iOut)
	if err != nil {
		return StepResult{}, err
	}
	cellOut, sums := machine.RemoveCell(s.term.Sums, ciOut, s.st)
	s.term.Sums = sums
	pOut := cellOut.Alts[aiOut].Cont

	term, err := machine.Construct(s.term, pIn, s.sg, s.st)
	if err != nil {
		return StepResult{}, err
	}
	term, err = machine.Construct(term, pOut, s.sg, s.st)
	if err != nil {
		return StepResult{}, err
	}
	s.term = term

	s.Clock += tau
	s.Steps++
	return StepResult{Channel: channel, Tau: tau}, nil
}

// seekCandidate is one input occurrence eligible for the input half of a
// Gillespie draw: the alt at Alts[altIndex] within Sums[cellIndex].
type seekCandidate struct {
	cellIndex int
	altIndex  int
}

// validInputCandidates lists every Input alt on channel whose cell, if
// removed, would not take the channel's last remaining Output alt with it
// (totalOut is the channel's current OutCount). A cell with both ?channel
// and !channel guards is a legitimate output source right up until it is
// the only one left; excluding it only when it actually is keeps every
// channel with ax(channel) > 0 selectable (spec.md §4.7).
func (s *Simulator) validInputCandidates(channel string, totalOut int) []seekCandidate {
	var out []seekCandidate
	for ci, cell := range s.term.Sums {
		outputsInCell := 0
		for _, alt := range cell.Alts {
			if alt.Act.Kind == ast.Output && alt.Act.Channel == channel {
				outputsInCell++
			}
		}
		if totalOut-outputsInCell <= 0 {
			continue
		}
		for ai, alt := range cell.Alts {
			if alt.Act.Kind == ast.Input && alt.Act.Channel == channel {
				out = append(out, seekCandidate{cellIndex: ci, altIndex: ai})
			}
		}
	}
	return out
}

// activity is one channel's contribution to the propensity vector.
type activity struct {
	Channel    string
	Propensity float64
}

// activityVector computes A = [(c, ax(c)*rate(c)) for c with ax(c) > 0] in
// lexicographic channel order (spec.md §4.6 step 1).
func (s *Simulator) activityVector() []activity {
	names := s.st.ChannelNames()
	sort.Strings(names)
	var vec []activity
	for _, name := range names {
		rec, _ := s.st.Channel(name)
		if rec.Ax > 0 {
			vec = append(vec, activity{Channel: name, Propensity: float64(rec.Ax) * rec.Rate})
		}
	}
	return vec
}

// gillespieDraw implements spec.md §4.6 steps 2-4 given two independent
// uniform draws: n1 in (0, 1] (see caller) and n2 in [0, 1). a0 == 0
// signals deadlock: no further events.
func gillespieDraw(vec []activity, n1, n2 float64) (channel string, tau float64, deadlocked bool) {
	var a0 float64
	for _, a := range vec {
		a0 += a.Propensity
	}
	if a0 == 0 {
		return "", 0, true
	}

	tau = (1.0 / a0) * math.Log(1.0/n1)

	target := a0 * n2
	var prefix float64
	for _, a := range vec {
		prefix += a.Propensity
		if prefix >= target {
			return a.Channel, tau, false
		}
	}
	// Floating-point rounding can leave the last prefix sum a hair under
	// target; fall back to the final channel rather than treat it as a
	// seek failure.
	return vec[len(vec)-1].Channel, tau, false
}
