package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAddCmd creates the 'add' command for ingesting a support case.
//
// Input comes from a file argument, stdin, or the clipboard. The raw
// text never reaches disk: it is parsed and redacted in memory and only
// the redacted record (plus the encrypted vault entry) is persisted.
func NewAddCmd(env *Env) *cobra.Command {
	var (
		fromStdin     bool
		fromClipboard bool
		caseID        string
	)

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Ingest a support case from a file, stdin, or the clipboard",
		Long: `Ingest raw support case text into the vault.

The text is parsed for a case id, summary, symptoms, environment details,
error patterns and tags. PII (emails, IPs, hostnames, paths, GUIDs,
secrets) is replaced with stable tokens before anything is written to
disk; the originals go into the encrypted vault keyed by case id.`,
		Example: `  casevault add ticket.txt
  cat ticket.txt | casevault add --stdin
  casevault add --clipboard
  casevault add ticket.txt --case-id ICM-588573816`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCaseInput(args, fromStdin, fromClipboard)
			if err != nil {
				return err
			}
			return runAdd(env, content, caseID)
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read case text from stdin")
	cmd.Flags().BoolVar(&fromClipboard, "clipboard", false, "Read case text from the system clipboard")
	cmd.Flags().StringVar(&caseID, "case-id", "", "Explicit case id (wins over any id detected in the text)")

	return cmd
}

func runAdd(env *Env, content, explicitID string) error {
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := eng.AddCase(content, explicitID)
	if err != nil {
		return fmt.Errorf("failed to add case: %w", err)
	}

	c, _ := eng.GetCase(id)
	fmt.Printf("✓ Added case %s\n", id)
	if c != nil {
		fmt.Printf("  Summary:  %s\n", c.Summary)
		if len(c.Tags) > 0 {
			fmt.Printf("  Tags:     %s\n", strings.Join(c.Tags, ", "))
		}
		fmt.Printf("  Priority: %s\n", c.Priority)
		fmt.Printf("  Words:    %d\n", c.WordCount)
	}
	return nil
}
