package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command for ranking cases against a
// free-text query.
func NewSearchCmd(env *Env) *cobra.Command {
	var (
		limit     int
		asContext bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored cases by free text",
		Long: `Rank stored cases against a query.

Matches are weighted by field: summary hits outrank error patterns,
which outrank symptoms, tags and body text. Results print as a compact
list; --context emits the JSON export envelope instead, ready to paste
into an AI tool.`,
		Example: `  casevault search "heartbeat missing"
  casevault search syslog --limit 10
  casevault search "agent offline" --context`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(env, strings.Join(args, " "), limit, asContext)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (default from config, 5)")
	cmd.Flags().BoolVar(&asContext, "context", false, "Emit the context export envelope as JSON")

	return cmd
}

func runSearch(env *Env, query string, limit int, asContext bool) error {
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	eng, cleanup, err := env.BuildEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	results := eng.Search(query, limit)

	if asContext {
		ids := make([]string, len(results))
		for i, r := range results {
			ids[i] = r.CaseID
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(eng.ExportContext(ids))
	}

	if len(results) == 0 {
		fmt.Println("No matching cases.")
		return nil
	}

	fmt.Printf("Found %d case(s):\n\n", len(results))
	for _, r := range results {
		fmt.Printf("  %s  (score %d)\n", r.CaseID, r.Score)
		fmt.Printf("    %s\n", r.Summary)
		fmt.Printf("    Matched: %s", strings.Join(r.MatchedFields, ", "))
		if len(r.Tags) > 0 {
			fmt.Printf("  Tags: %s", strings.Join(r.Tags, ", "))
		}
		fmt.Println()
		fmt.Println()
	}
	return nil
}
