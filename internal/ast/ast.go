// Package ast is the compiled-AST layer of spec.md §3: Act, Process,
// Pattern, Declaration and Program, plus channel- and value-substitution
// over them. It is grounded on _examples/original_source/src/ast.rs (the
// Substitutable trait and the Act/Process shape) and syntax.rs (Pattern),
// extended with LetVal/value substitution per spec.md §4.3, which the Rust
// prototype never implemented.
package ast

import (
	"fmt"
	"strings"

	"spim/internal/value"
)

// Position is a 1-based source location, in the style of
// kanso-lang-kanso/internal/parser/types.go.
type Position struct {
	Line   int
	Column int
}

// Pattern is the left-hand side of a binding or a formal parameter.
type Pattern interface {
	patternNode()
	String() string
}

type Wildcard struct{}
type NamePattern struct{ Name string }
type TuplePattern struct{ Elems []Pattern }

func (Wildcard) patternNode()     {}
func (NamePattern) patternNode()  {}
func (TuplePattern) patternNode() {}

func (Wildcard) String() string    { return "_" }
func (p NamePattern) String() string { return p.Name }
func (p TuplePattern) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ActKind distinguishes an input guard from an output guard.
type ActKind int

const (
	Input ActKind = iota
	Output
)

// Act is an input or output prefix on a channel. Actions carry no payload
// in the core reduction machine; value passing happens via LetVal
// substitution at construct time (spec.md §3).
type Act struct {
	Kind    ActKind
	Channel string
}

func (a Act) String() string {
	if a.Kind == Input {
		return "?" + a.Channel + ";"
	}
	return "!" + a.Channel + ";"
}

// SubstituteChannel rewrites every Input(src)/Output(src) guard to dest.
// Restriction is the binder for the channel domain; the recursive
// package-level SubstituteChannel stops descending past a Restriction that
// shadows src.
func (a Act) SubstituteChannel(src, dest string) Act {
	if a.Channel == src {
		return Act{Kind: a.Kind, Channel: dest}
	}
	return a
}

// Alt is one guarded alternative of a Summation/Choice.
type Alt struct {
	Act  Act
	Cont Process
}

// Process is the compiled-AST process former (spec.md §3). Exactly one of
// the constructors below is ever live per node; Go lacks sum types, so we
// follow kanso-lang-kanso/internal/ast's convention of one struct type per
// alternative implementing a common marker interface.
type Process interface {
	processNode()
	String() string
}

type Restriction struct {
	Chan string
	Rate float64
	Body Process
}

type LetVal struct {
	Var  string
	Expr value.Expr
	Body Process
}

type Parallel struct{ Left, Right Process }

type Summation struct{ Alts []Alt }

type Instance struct {
	Name string
	Args []value.Expr
}

type Repetition struct {
	K    int
	Body Process
}

type Replication struct {
	Act  Act
	Body Process
}

type Termination struct{}

func (Restriction) processNode() {}
func (LetVal) processNode()      {}
func (Parallel) processNode()    {}
func (Summation) processNode()   {}
func (Instance) processNode()    {}
func (Repetition) processNode()  {}
func (Replication) processNode() {}
func (Termination) processNode() {}

func (p Restriction) String() string {
	return fmt.Sprintf("new %s@%g in %s", p.Chan, p.Rate, p.Body)
}
func (p LetVal) String() string {
	return fmt.Sprintf("val %s = %s in %s", p.Var, p.Expr, p.Body)
}
func (p Parallel) String() string { return fmt.Sprintf("(%s | %s)", p.Left, p.Right) }
func (p Summation) String() string {
	parts := make([]string, len(p.Alts))
	for i, a := range p.Alts {
		parts[i] = a.Act.String() + " " + a.Cont.String()
	}
	return strings.Join(parts, " or ")
}
func (p Instance) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}
func (p Repetition) String() string  { return fmt.Sprintf("%d of %s", p.K, p.Body) }
func (p Replication) String() string { return fmt.Sprintf("replicate %s %s", p.Act, p.Body) }
func (Termination) String() string   { return "end" }

// SubstituteChannel rewrites every Input(src)/Output(src) guard reachable
// through p to dest, stopping at any Restriction that shadows src.
func SubstituteChannel(p Process, src, dest string) Process {
	switch n := p.(type) {
	case Restriction:
		if n.Chan == src {
			return n
		}
		return Restriction{Chan: n.Chan, Rate: n.Rate, Body: SubstituteChannel(n.Body, src, dest)}
	case LetVal:
		return LetVal{Var: n.Var, Expr: n.Expr, Body: SubstituteChannel(n.Body, src, dest)}
	case Parallel:
		return Parallel{Left: SubstituteChannel(n.Left, src, dest), Right: SubstituteChannel(n.Right, src, dest)}
	case Summation:
		alts := make([]Alt, len(n.Alts))
		for i, a := range n.Alts {
			alts[i] = Alt{Act: a.Act.SubstituteChannel(src, dest), Cont: SubstituteChannel(a.Cont, src, dest)}
		}
		return Summation{Alts: alts}
	case Instance:
		return n
	case Repetition:
		return Repetition{K: n.K, Body: SubstituteChannel(n.Body, src, dest)}
	case Replication:
		return Replication{Act: n.Act.SubstituteChannel(src, dest), Body: SubstituteChannel(n.Body, src, dest)}
	case Termination:
		return n
	default:
		panic(fmt.Sprintf("ast.SubstituteChannel: unhandled node %T", p))
	}
}

// SubstituteValue passes a value substitution into LetVal, Instance
// arguments, and through every structural node. The channel of a
// Restriction, a Replication or an Act is never rewritten, only their
// bodies: channels cannot be bound by `let val` (spec.md §9 open
// question 2 — channel names are distinct from value variables).
func SubstituteValue(p Process, src string, dest value.Expr) Process {
	switch n := p.(type) {
	case Restriction:
		return Restriction{Chan: n.Chan, Rate: n.Rate, Body: SubstituteValue(n.Body, src, dest)}
	case LetVal:
		newExpr := value.Substitute(n.Expr, src, dest)
		if n.Var == src {
			// src is shadowed from here on; don't rewrite the body.
			return LetVal{Var: n.Var, Expr: newExpr, Body: n.Body}
		}
		return LetVal{Var: n.Var, Expr: newExpr, Body: SubstituteValue(n.Body, src, dest)}
	case Parallel:
		return Parallel{Left: SubstituteValue(n.Left, src, dest), Right: SubstituteValue(n.Right, src, dest)}
	case Summation:
		alts := make([]Alt, len(n.Alts))
		for i, a := range n.Alts {
			alts[i] = Alt{Act: a.Act, Cont: SubstituteValue(a.Cont, src, dest)}
		}
		return Summation{Alts: alts}
	case Instance:
		args := make([]value.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = value.Substitute(a, src, dest)
		}
		return Instance{Name: n.Name, Args: args}
	case Repetition:
		return Repetition{K: n.K, Body: SubstituteValue(n.Body, src, dest)}
	case Replication:
		return Replication{Act: n.Act, Body: SubstituteValue(n.Body, src, dest)}
	case Termination:
		return n
	default:
		panic(fmt.Sprintf("ast.SubstituteValue: unhandled node %T", p))
	}
}

// Subst is one elementary (name, value) binding produced by Replace.
type Subst struct {
	Name  string
	Value value.Expr
}

// Replace destructures a formal pattern against an already-evaluated value,
// producing the sequence of elementary substitutions spec.md §4.3
// describes: Wildcard is the identity, Name binds the whole value, and
// Tuple is zipped recursively against a Tuple value (a length mismatch is
// fatal, since it can only arise from malformed input escaping the parser).
func Replace(pat Pattern, val value.Expr) ([]Subst, error) {
	switch p := pat.(type) {
	case Wildcard:
		return nil, nil
	case NamePattern:
		return []Subst{{Name: p.Name, Value: val}}, nil
	case TuplePattern:
		tup, ok := val.(value.TupleExpr)
		if !ok {
			return nil, fmt.Errorf("pattern %s destructured against non-tuple value %s", pat, val)
		}
		if len(tup.Elems) != len(p.Elems) {
			return nil, fmt.Errorf("pattern %s arity %d does not match value arity %d", pat, len(p.Elems), len(tup.Elems))
		}
		var out []Subst
		for i, sub := range p.Elems {
			ss, err := Replace(sub, tup.Elems[i])
			if err != nil {
				return nil, err
			}
			out = append(out, ss...)
		}
		return out, nil
	default:
		panic(fmt.Sprintf("ast.Replace: unhandled pattern %T", pat))
	}
}

// ApplySubsts threads a list of elementary substitutions through body, in
// order.
func ApplySubsts(body Process, substs []Subst) Process {
	for _, s := range substs {
		body = SubstituteValue(body, s.Name, s.Value)
	}
	return body
}

// BindPattern desugars the surface form `val pattern = expr in rest` into a
// chain of single-variable LetVals around a fresh tuple binder, exactly as
// spec.md §3 describes: "destructuring is compiled into a chain of indexed
// let vals around a fresh tuple binder." freshName must already be unique
// (the parser draws it from internal/symgen). Unlike Replace, this does not
// need an evaluated value: index projections are generated structurally and
// evaluated later, when construct() reaches each LetVal.
func BindPattern(pat Pattern, freshName string, rest Process) Process {
	return bindPatternAt(pat, value.Var{Name: freshName}, rest)
}

func bindPatternAt(pat Pattern, source value.Expr, rest Process) Process {
	switch p := pat.(type) {
	case Wildcard:
		return rest
	case NamePattern:
		return LetVal{Var: p.Name, Expr: source, Body: rest}
	case TuplePattern:
		body := rest
		for i := len(p.Elems) - 1; i >= 0; i-- {
			proj := value.IndexExpr{I: int64(i), E: source}
			body = bindPatternAt(p.Elems[i], proj, body)
		}
		return body
	default:
		panic(fmt.Sprintf("ast.BindPattern: unhandled pattern %T", pat))
	}
}

// Declaration is a top-level program element (spec.md §6 `declaration`).
type Declaration interface {
	declNode()
	String() string
}

type NewChannel struct {
	Name string
	Rate float64
}

// ValDecl is a top-level `val pattern = expr` — parsed, but per spec.md
// §7.1/§9 (open question 1) rejected as a user error rather than silently
// executed: resolved to be reserved for future use.
type ValDecl struct {
	Pattern Pattern
	Expr    value.Expr
}

type Def struct {
	Name    string
	Formals []Pattern
	Body    Process
}

type Run struct{ Body Process }

func (NewChannel) declNode() {}
func (ValDecl) declNode()    {}
func (Def) declNode()        {}
func (Run) declNode()        {}

func (d NewChannel) String() string { return fmt.Sprintf("new %s@%g", d.Name, d.Rate) }
func (d ValDecl) String() string    { return fmt.Sprintf("val %s = %s", d.Pattern, d.Expr) }
func (d Def) String() string {
	parts := make([]string, len(d.Formals))
	for i, f := range d.Formals {
		parts[i] = f.String()
	}
	return fmt.Sprintf("let %s(%s) = %s", d.Name, strings.Join(parts, ", "), d.Body)
}
func (d Run) String() string { return fmt.Sprintf("run %s", d.Body) }

// Program is an ordered sequence of top-level declarations.
type Program struct {
	Decls []Declaration
}
