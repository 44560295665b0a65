package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notepid/twilight_qwk/internal/config"
	"github.com/notepid/twilight_qwk/internal/logger"
)

var version = "dev"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "qwk",
	Short: "Read QWK offline mail packets",
	Long: `Decode QWK packets and rebuild their conversation threads.

Commands:
  dump <packet>                Print conferences and threads
  serve                        Run the HTTP API
  script <file.lua> <packet>   Run a Lua report over a packet`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		// stdout carries command output
		return logger.InitWriter(cfg.Logging, os.Stderr)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qwk %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
