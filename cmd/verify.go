package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"speclock/internal/bundle"
	"speclock/internal/config"
	"speclock/internal/contract"
	"speclock/internal/report"
	"speclock/internal/speclock"
	"speclock/internal/translator"
	"speclock/internal/verifier"
)

var verifyCommand = &cobra.Command{
	Use:   "verify <bundle.yaml>...",
	Short: "verify function contracts",
	Long:  ``,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := verifyExec(cmd, args); err != nil {
			log.Errorf("verify: %v", err)
			os.Exit(1)
		}
	},
}

func verifyExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fns, constants, err := loadBundles(cfg, args)
	if err != nil {
		return err
	}

	backend, err := cfg.OpenBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := []verifier.Option{verifier.WithConstants(constants)}
	if !cfg.Static {
		opts = append(opts, verifier.WithoutStaticCheck())
	}
	runner := speclock.NewRunner(verifier.New(backend, opts...), cfg.Parallelism, cfg.Timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	startTime := time.Now()
	log.Infof("verifying %d functions with %s", len(fns), backend.Name())
	results := runner.Run(ctx, fns)
	log.Infof("verify time used: %.3fs", time.Since(startTime).Seconds())

	if err := report.Write(os.Stdout, cfg.Format, results); err != nil {
		return err
	}
	if failed := report.Summarize(results).Statuses[speclock.Failed]; failed > 0 {
		return fmt.Errorf("%d functions failed verification", failed)
	}
	return nil
}

// loadBundles reads every bundle and merges their constants over the
// configured ones.
func loadBundles(cfg *config.Config, paths []string) ([]*contract.Function, translator.Constants, error) {
	constants, err := cfg.Constants()
	if err != nil {
		return nil, nil, err
	}
	var (
		fns  []*contract.Function
		seen = make(map[string]string)
	)
	for _, path := range paths {
		b, err := bundle.Load(path)
		if err != nil {
			return nil, nil, err
		}
		for _, fn := range b.Functions {
			if prev, ok := seen[fn.Name]; ok {
				return nil, nil, errors.Errorf("function %s declared in %s and %s", fn.Name, prev, path)
			}
			seen[fn.Name] = path
		}
		fns = append(fns, b.Functions...)
		constants = constants.Merge(b.Constants)
	}
	return fns, constants, nil
}
