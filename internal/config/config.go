// Package config 读取运行配置: 默认值, YAML 文件, 命令行参数依次覆盖
package config

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"speclock/internal/smt"
	"speclock/internal/translator"
)

type Config struct {
	// Backend is yices, z3 or none.
	Backend string `yaml:"backend"`
	// Logic is the yices logic.
	Logic  string `yaml:"logic"`
	Z3Path string `yaml:"z3_path"`
	// Parallelism bounds the number of contract checks in flight.
	Parallelism int `yaml:"parallelism"`
	// Timeout bounds each contract check.
	Timeout time.Duration `yaml:"timeout"`
	// ConstantsFile adds or overrides named constants.
	ConstantsFile string `yaml:"constants_file"`
	// Static enables the syntactic checker in front of the solver.
	Static  bool   `yaml:"static"`
	Format  string `yaml:"format"`
	Verbose bool   `yaml:"verbose"`
}

func Default() *Config {
	return &Config{
		Backend:     smt.KindYices,
		Logic:       smt.DefaultLogic,
		Parallelism: runtime.NumCPU(),
		Timeout:     10 * time.Second,
		Static:      true,
		Format:      "text",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case smt.KindYices, smt.KindZ3, smt.KindNone:
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}
	if c.Parallelism < 1 {
		return errors.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// Constants returns the default constants merged with ConstantsFile.
func (c *Config) Constants() (translator.Constants, error) {
	constants := translator.DefaultConstants()
	if c.ConstantsFile == "" {
		return constants, nil
	}
	extra, err := translator.LoadConstants(c.ConstantsFile)
	if err != nil {
		return nil, err
	}
	return constants.Merge(extra), nil
}

// OpenBackend opens the configured solver backend.
func (c *Config) OpenBackend() (smt.Backend, error) {
	backend, err := smt.Open(c.Backend, smt.Options{Logic: c.Logic, Z3Path: c.Z3Path})
	if err != nil {
		return nil, err
	}
	if backend.Name() != c.Backend {
		log.Warnf("solver backend %s unavailable, contracts needing a solver will report errors", c.Backend)
	}
	return backend, nil
}

func (c *Config) ApplyLogLevel() {
	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
