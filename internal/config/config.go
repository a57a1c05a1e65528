// Package config parses the CLI driver's flags and an optional YAML
// side-file for settings not worth a flag of their own. Grounded on
// kanso-lang-kanso/cmd/kanso-cli/main.go's flat argument handling,
// generalised from raw os.Args indexing to a flag.FlagSet (no cobra/
// urfave/cli dependency appears anywhere in the retrieval pack).
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the resolved set of options for one simulation run.
type Config struct {
	// SourcePath is the spi-calculus source file to load.
	SourcePath string
	// OutputPath is the CSV trace destination ("-o").
	OutputPath string
	// Seed deterministically seeds the Gillespie RNG (spec.md §5: "the RNG
	// seed is implementation-defined unless explicitly exposed" — this CLI
	// exposes it).
	Seed uint64
	// Steps bounds how many completed reductions the driver performs
	// before stopping, even if the system has not deadlocked.
	Steps int
	// ConfigPath, if set, names a YAML file supplying Seed/Steps defaults
	// that flags can still override.
	ConfigPath string
}

// fileDefaults is the shape of the optional YAML side-config.
type fileDefaults struct {
	Seed  *uint64 `yaml:"seed"`
	Steps *int    `yaml:"steps"`
}

// Parse parses args (normally os.Args[1:]) into a Config. It reads
// -config's YAML file, if given, before applying explicit flags, so a flag
// on the command line always wins over the file default.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("spim", flag.ContinueOnError)
	output := fs.String("o", "trace.csv", "output CSV trace path")
	seed := fs.Uint64("seed", 1, "RNG seed for the Gillespie draw")
	steps := fs.Int("steps", 1000, "maximum number of reduction steps to run")
	configPath := fs.String("config", "", "optional YAML file of seed/steps defaults")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 1 {
		return Config{}, fmt.Errorf("expected exactly one source file argument, got %d", fs.NArg())
	}

	cfg := Config{
		SourcePath: fs.Arg(0),
		OutputPath: *output,
		Seed:       *seed,
		Steps:      *steps,
		ConfigPath: *configPath,
	}

	if cfg.ConfigPath == "" {
		return cfg, nil
	}

	defaults, err := loadFileDefaults(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	seedFlagSet, stepsFlagSet := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			seedFlagSet = true
		case "steps":
			stepsFlagSet = true
		}
	})
	if defaults.Seed != nil && !seedFlagSet {
		cfg.Seed = *defaults.Seed
	}
	if defaults.Steps != nil && !stepsFlagSet {
		cfg.Steps = *defaults.Steps
	}
	return cfg, nil
}

func loadFileDefaults(path string) (fileDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileDefaults{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fd fileDefaults
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return fileDefaults{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return fd, nil
}
