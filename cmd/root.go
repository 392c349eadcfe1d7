/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Persistent flags shared by every subcommand
var (
	logLevel string
	logFile  string
	debug    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gnlookup",
	Short: "Gracenote album metadata lookups",
	Long: `gnlookup queries the Gracenote Web API for album metadata.

It registers a user ID for your Gracenote client ID once and stores it,
then searches albums by artist, album and track title, fetches albums by
Gracenote ID or disc table of contents, and can write the results into
MP3 tags.

Credentials are read from ~/.config/gnlookup/config.yaml or from the
GNLOOKUP_GRACENOTE_CLIENT_ID and GNLOOKUP_GRACENOTE_CLIENT_TAG
environment variables.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every Gracenote request (overrides config)")
}
