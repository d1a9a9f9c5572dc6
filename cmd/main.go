package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "speclock",
	Short: "speclock, contract verifier for requires/ensures specifications",
	Long:  "",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(verifyCommand)
	rootCmd.AddCommand(checkCommand)
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
