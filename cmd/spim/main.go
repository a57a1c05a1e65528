// Command spim reads a spi-calculus source file, runs it to deadlock or a
// step bound, and writes a CSV trace. Grounded on
// kanso-lang-kanso/cmd/kanso-cli/main.go's read-parse-report shape.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"spim/internal/ast"
	"spim/internal/config"
	"spim/internal/errors"
	"spim/internal/parser"
	"spim/internal/sim"
	"spim/internal/trace"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: spim [-o out.csv] [-seed N] [-steps N] [-config file.yaml] <source.spim>")
		os.Exit(1)
	}

	source, err := os.ReadFile(cfg.SourcePath)
	if err != nil {
		log.Fatalf("spim: reading %s: %v", cfg.SourcePath, err)
	}

	prog, err := parser.Parse(string(source))
	if err != nil {
		reportAndExit(cfg.SourcePath, string(source), err)
	}

	s := sim.New(cfg.Seed)
	if err := s.Load(prog); err != nil {
		log.Fatalf("spim: loading %s: %v", cfg.SourcePath, err)
	}

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		log.Fatalf("spim: creating %s: %v", cfg.OutputPath, err)
	}
	defer out.Close()

	names := s.Store().InstanceNames()
	tw, err := trace.New(out, names)
	if err != nil {
		log.Fatalf("spim: writing trace header: %v", err)
	}
	if err := tw.WriteRow(s.Clock, s.Store()); err != nil {
		log.Fatalf("spim: writing initial trace row: %v", err)
	}

	stepsRun := 0
	for stepsRun < cfg.Steps {
		result, err := s.Step()
		if err != nil {
			log.Fatalf("spim: step %d: %v", stepsRun, err)
		}
		if result.Deadlocked {
			break
		}
		if err := tw.WriteRow(s.Clock, s.Store()); err != nil {
			log.Fatalf("spim: writing trace row %d: %v", stepsRun, err)
		}
		stepsRun++
	}

	if err := tw.Flush(); err != nil {
		log.Fatalf("spim: flushing trace: %v", err)
	}

	color.Green("ran %d step(s), clock=%g, trace written to %s (run %s)", stepsRun, s.Clock, cfg.OutputPath, tw.RunID())
}

func reportAndExit(filename, source string, err error) {
	pe, ok := err.(parser.ParseError)
	if !ok {
		fmt.Fprintf(os.Stderr, "spim: %v\n", err)
		os.Exit(1)
	}
	reporter := errors.NewErrorReporter(filename, source)
	fmt.Fprint(os.Stderr, reporter.FormatError(errors.CompilerError{
		Level:    errors.Error,
		Message:  pe.Message,
		Position: ast.Position{Line: pe.Position.Line, Column: pe.Position.Column},
	}))
	os.Exit(1)
}
