// Package symgen is the process-wide fresh-symbol source (spec.md §4.1),
// grounded on _examples/original_source/src/symgen.rs's
// `lazy_static! Mutex<SymbolGenerator>`. Names are decimal counters, unique
// within a run; Reset supports deterministic tests.
//
// The mutex is github.com/sasha-s/go-deadlock rather than sync.Mutex: this
// is the one piece of genuinely shared mutable state spec.md §5/§9 calls
// out for explicit synchronisation, and go-deadlock is a drop-in
// replacement that turns a silent double-lock into a loud diagnostic.
package symgen

import (
	"strconv"

	"github.com/sasha-s/go-deadlock"
)

// Generator yields globally unique decimal names on demand.
type Generator struct {
	mu      deadlock.Mutex
	counter uint64
}

// New returns a fresh, zeroed Generator.
func New() *Generator {
	return &Generator{}
}

// Next returns the next unused name.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.counter
	g.counter++
	return strconv.FormatUint(n, 10)
}

// Reset rewinds the counter to zero, for deterministic tests.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Default is the package-wide generator used when callers don't need an
// isolated one. Tests that need determinism should construct their own
// Generator instead of relying on Default's shared state.
var Default = New()

// Next draws from Default.
func Next() string { return Default.Next() }

// Reset rewinds Default to zero.
func Reset() { Default.Reset() }
