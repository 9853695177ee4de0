package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	noColor    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "linkedingest",
	Short: "Turn a public profile into a normalized plain-text bundle",
	Long: `linkedingest fetches a public profile through an authenticated upstream
session, serializes all upstream traffic behind a single admission slot with
randomized pacing, and serves the result as a plain-text bundle over HTTP
and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the linkedingest version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the config file")

	rootCmd.AddCommand(serveCmd, fetchCmd, queueCmd, historyCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
