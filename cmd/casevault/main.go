/*
Package main is the entry point for the casevault CLI.

casevault ingests raw support case text, strips PII into an encrypted
local vault, and serves redacted case context to AI tools over MCP.

Usage:
  casevault [command]

Available Commands:
  add         Ingest a support case from a file, stdin, or the clipboard
  get         Retrieve a stored case (redacted by default)
  search      Search stored cases by free text
  list        List all stored cases
  stats       Show aggregate statistics for the case vault
  export      Export all cases as a redacted context bundle
  serve       Run the MCP server (stdio transport)
  help        Help about any command

Examples:
  # Ingest a ticket and search it back
  casevault add ticket.txt
  casevault search "heartbeat missing"

  # Run as MCP server for an AI client
  casevault serve
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"casevault/internal/cli"
	"casevault/internal/engine"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes beyond the generic failure, so scripts can branch on them.
const (
	exitNotFound = 2
	exitDenied   = 3
)

func main() {
	env := cli.NewEnv()

	rootCmd := &cobra.Command{
		Use:   "casevault",
		Short: "Local support case vault with PII redaction and MCP export",
		Long: `casevault stores support cases locally with PII stripped into an
encrypted vault, so case context can be handed to AI tools without
leaking customer identifiers.

Ingested text is parsed for case ids, symptoms, error patterns and tags;
emails, IPs, hostnames, paths, GUIDs and secrets are replaced with
stable tokens before anything touches disk. The originals live in an
encrypted vault and only come back through an explicit, policy-gated
rehydration request.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&env.DataDir, "data-dir", "", "Data directory (default ~/.casevault)")
	rootCmd.PersistentFlags().BoolVar(&env.Memory, "memory", false, "Use an ephemeral in-memory store")
	rootCmd.PersistentFlags().StringVar(&env.Profile, "profile", "", "Policy profile: strict or trusted (default from config)")

	rootCmd.AddCommand(cli.NewAddCmd(env))
	rootCmd.AddCommand(cli.NewGetCmd(env))
	rootCmd.AddCommand(cli.NewSearchCmd(env))
	rootCmd.AddCommand(cli.NewListCmd(env))
	rootCmd.AddCommand(cli.NewStatsCmd(env))
	rootCmd.AddCommand(cli.NewExportCmd(env))
	rootCmd.AddCommand(cli.NewServeCmd(env))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch {
		case errors.Is(err, cli.ErrNotFound):
			os.Exit(exitNotFound)
		case errors.Is(err, engine.ErrRehydrationDenied):
			os.Exit(exitDenied)
		default:
			os.Exit(1)
		}
	}
}
