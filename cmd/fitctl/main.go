package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "fitctl",
		Short:         "fitctl - training progression and nutrition tracking from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level, logs go to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(recommendCmd(opts))
	rootCmd.AddCommand(sessionCmd(opts))
	rootCmd.AddCommand(mealCmd(opts))
	rootCmd.AddCommand(dayCmd(opts))
	rootCmd.AddCommand(foodCmd(opts))
	rootCmd.AddCommand(lookupCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))

	return rootCmd
}
