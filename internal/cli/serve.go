package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"casevault/internal/mcp"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the casevault MCP server using stdio transport.

The server exposes three tools to AI clients:
  • search_cases     - rank cases against a query, return redacted context
  • get_case_context - fetch redacted context for specific case ids
  • add_case         - ingest raw case text (redacted before storage)

Full rehydration is never exposed over MCP regardless of profile.`,
		Example: `  # Run directly
  casevault serve

  # Add to Claude Code
  claude mcp add casevault -- casevault serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(env)
		},
	}

	return cmd
}

// runServe runs the server until stdin closes or a shutdown signal
// arrives. Storage is flushed by the deferred cleanup in both paths.
func runServe(env *Env) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	server := mcp.NewServer(eng, cfg.SearchLimit)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(os.Stdin, os.Stdout)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down", sig)
		return nil
	case err := <-errChan:
		return err
	}
}
