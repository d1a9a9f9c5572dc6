package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"speclock/internal/report"
)

var checkCommand = &cobra.Command{
	Use:   "check <bundle.yaml>...",
	Short: "classify contracts with the static checker only",
	Long:  ``,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkExec(cmd, args); err != nil {
			log.Errorf("check: %v", err)
			os.Exit(1)
		}
	},
}

func checkExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fns, constants, err := loadBundles(cfg, args)
	if err != nil {
		return err
	}
	return report.WriteClassifications(os.Stdout, cfg.Format, report.Classify(fns, constants))
}
