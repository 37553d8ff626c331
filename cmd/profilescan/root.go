// Package main provides the entry point for the profilescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for profilescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profilescan",
		Short: "OSINT exposure assessment for online identities",
		Long: `profilescan collects public profile data for a subject across platforms,
fuses it into a unified profile, and reports on correlation risks,
tracking exposure, and leaked sensitive data.

Provide one or more platform handles and profilescan builds an
intelligence graph, scores the subject's exposure, and identifies
which tracking entities likely hold data on them.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
