package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewListCmd creates the 'list' command for listing stored cases.
func NewListCmd(env *Env) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all stored cases",
		Example: `  casevault list
  casevault ls --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(env, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runList(env *Env, jsonOutput bool) error {
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	cases := eng.Cases()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cases)
	}

	if len(cases) == 0 {
		fmt.Println("No cases stored.")
		fmt.Println("Run 'casevault add <file>' to ingest one.")
		return nil
	}

	fmt.Printf("Stored cases (%d):\n\n", len(cases))
	for _, c := range cases {
		fmt.Printf("  %s  [%s]  %s\n", c.CaseID, c.Priority, c.CreatedAt.Format("2006-01-02"))
		fmt.Printf("    %s\n", c.Summary)
	}
	return nil
}
