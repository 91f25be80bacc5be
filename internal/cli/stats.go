package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the 'stats' command for aggregate vault statistics.
func NewStatsCmd(env *Env) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics for the case vault",
		Example: `  casevault stats
  casevault stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(env, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runStats(env *Env, jsonOutput bool) error {
	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	stats := eng.Stats()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Cases:        %d\n", stats.TotalCases)
	fmt.Printf("With vault:   %d\n", stats.CasesWithVault)
	fmt.Printf("Storage:      %d bytes\n", stats.StorageBytes)
	fmt.Printf("Profile:      %s\n", stats.Profile)

	if len(stats.PriorityCounts) > 0 {
		fmt.Println("\nBy priority:")
		for _, p := range []string{"critical", "high", "medium", "low"} {
			if n, ok := stats.PriorityCounts[p]; ok {
				fmt.Printf("  %-9s %d\n", p, n)
			}
		}
	}

	if len(stats.TopTags) > 0 {
		fmt.Println("\nTop tags:")
		for _, tc := range stats.TopTags {
			fmt.Printf("  %-14s %d\n", tc.Name, tc.Count)
		}
	}
	return nil
}
