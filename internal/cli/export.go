package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the 'export' command for dumping the redacted
// case table.
func NewExportCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all cases as a redacted context bundle",
		Long: `Write the context export envelope for every stored case as JSON,
to stdout or to a file. The output is always redacted; the vault never
leaves the data directory.`,
		Example: `  casevault export
  casevault export cases-context.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			return runExport(env, target)
		},
	}

	return cmd
}

func runExport(env *Env, target string) error {
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	cases := eng.Cases()
	ids := make([]string, len(cases))
	for i, c := range cases {
		ids[i] = c.CaseID
	}
	export := eng.ExportContext(ids)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	data = append(data, '\n')

	if target == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Printf("✓ Exported %d case(s) to %s\n", export.Count, target)
	return nil
}
