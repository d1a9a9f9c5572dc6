package main

import (
	"time"

	"github.com/spf13/cobra"

	"speclock/internal/config"
	"speclock/internal/smt"
)

var (
	ConfigFile    string
	Backend       string
	Logic         string
	Z3Path        string
	Parallelism   int
	Timeout       time.Duration
	ConstantsFile string
	Format        string
	Verbose       bool
	NoStatic      bool
)

func init() {
	defaults := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ConfigFile, "config", "", "yaml config file")
	flags.StringVar(&Backend, "backend", defaults.Backend, "solver backend: yices, z3 or none")
	flags.StringVar(&Logic, "logic", smt.DefaultLogic, "yices logic")
	flags.StringVar(&Z3Path, "z3", "", "z3 executable, looked up on PATH when empty")
	flags.IntVarP(&Parallelism, "parallelism", "j", defaults.Parallelism, "contract checks run in parallel")
	flags.DurationVar(&Timeout, "timeout", defaults.Timeout, "timeout of a single contract check")
	flags.StringVar(&ConstantsFile, "constants", "", "yaml file of named constants")
	flags.StringVarP(&Format, "format", "f", defaults.Format, "output format: text or json")
	flags.BoolVarP(&Verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&NoStatic, "no-static", false, "send every contract to the solver")
}

// loadConfig reads --config and applies the flags given on the command line
// over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = Backend
	}
	if flags.Changed("logic") {
		cfg.Logic = Logic
	}
	if flags.Changed("z3") {
		cfg.Z3Path = Z3Path
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = Parallelism
	}
	if flags.Changed("timeout") {
		cfg.Timeout = Timeout
	}
	if flags.Changed("constants") {
		cfg.ConstantsFile = ConstantsFile
	}
	if flags.Changed("format") {
		cfg.Format = Format
	}
	if flags.Changed("verbose") {
		cfg.Verbose = Verbose
	}
	if flags.Changed("no-static") {
		cfg.Static = !NoStatic
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyLogLevel()
	return cfg, nil
}
