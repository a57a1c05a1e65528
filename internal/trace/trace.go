// Package trace writes the CSV time-series trace spec.md §6 describes:
// one header row of definition names in lexicographic order, one data row
// per completed step. Grounded on spec.md §6's trace-format paragraph;
// the CSV shape mirrors sentra-language-sentra/internal/reporting's use of
// encoding/csv for structured tabular output.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"spim/internal/store"
)

// Writer emits trace rows for a fixed, lexicographically sorted set of
// instance (definition) names.
type Writer struct {
	w       *csv.Writer
	names   []string
	runID   uuid.UUID
	wrote   int
}

// New creates a Writer over out, stamping a fresh run ID as a leading
// comment line (spec.md §5's reproducibility note ties a trace to
// (source, seed, channel ordering); the run ID lets a CSV file be matched
// back to a specific invocation without re-deriving it from the seed).
func New(out io.Writer, names []string) (*Writer, error) {
	id := uuid.New()
	if _, err := fmt.Fprintf(out, "# run %s\n", id); err != nil {
		return nil, err
	}

	w := csv.NewWriter(out)
	header := make([]string, 0, len(names)+1)
	header = append(header, "Time")
	header = append(header, names...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("trace: writing header: %w", err)
	}
	return &Writer{w: w, names: names, runID: id}, nil
}

// RunID returns the UUID stamped at the top of the trace.
func (w *Writer) RunID() uuid.UUID { return w.runID }

// WriteRow appends one row: the current clock value, followed by each
// tracked name's instance count in header order. Row 0 is the initial
// state after load (spec.md §6: "Row 0 is the initial state after load").
func (w *Writer) WriteRow(clock float64, st *store.Store) error {
	row := make([]string, 0, len(w.names)+1)
	row = append(row, strconv.FormatFloat(clock, 'g', -1, 64))
	for _, name := range w.names {
		row = append(row, strconv.Itoa(st.InstanceCount(name)))
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("trace: writing row %d: %w", w.wrote, err)
	}
	w.wrote++
	return nil
}

// Flush flushes any buffered CSV output; callers must check its error after
// the writer is done being used, since csv.Writer buffers internally.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// RowsWritten reports how many data rows (excluding the header) have been
// written so far.
func (w *Writer) RowsWritten() int { return w.wrote }
