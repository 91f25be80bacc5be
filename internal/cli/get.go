package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ErrNotFound reports a case id with no stored record. The entry point
// maps it to its own exit code so scripts can tell "no such case" apart
// from a policy denial.
var ErrNotFound = errors.New("case not found")

// NewGetCmd creates the 'get' command for retrieving a single case.
func NewGetCmd(env *Env) *cobra.Command {
	var (
		asContext bool
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "get <case-id>",
		Short: "Retrieve a stored case (redacted by default)",
		Long: `Print a stored case as JSON.

By default the redacted record is printed. --context projects the case
into the compact form exported to AI tools. --full rehydrates the
original content from the vault, which the active policy profile may
refuse.`,
		Example: `  casevault get ICM-588573816
  casevault get ICM-588573816 --context
  casevault get ICM-588573816 --full --profile trusted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asContext && full {
				return fmt.Errorf("--context and --full are mutually exclusive")
			}
			return runGet(env, args[0], asContext, full)
		},
	}

	cmd.Flags().BoolVar(&asContext, "context", false, "Print the AI context projection instead of the full record")
	cmd.Flags().BoolVar(&full, "full", false, "Rehydrate original content from the vault (policy permitting)")

	return cmd
}

func runGet(env *Env, id string, asContext, full bool) error {
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	var payload interface{}
	switch {
	case full:
		c, err := eng.GetCaseFull(id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		payload = c
	case asContext:
		ctx, err := eng.GetCaseContext(id)
		if err != nil {
			return err
		}
		if ctx == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		payload = ctx
	default:
		c, err := eng.GetCase(id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		payload = c
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
