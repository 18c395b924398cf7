package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zlatanpham/exploro-sub001/cmd/unitconv/output"
	"github.com/zlatanpham/exploro-sub001/internal/infra"

	"github.com/spf13/cobra"
)

var (
	// Legacy flags
	legacyTable string
)

// legacyCmd groups one-off data migrations
var legacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Migrate legacy ingredient data",
}

var legacyNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Resolve free-text ingredient units onto catalog units",
	Long: `Resolve free-text ingredient units onto catalog units. The table file is a
JSON object from legacy strings to unit symbols; strings already equal to a
symbol need no entry.

Examples:
  unitconv legacy normalize --table units.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLegacyNormalize(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(legacyCmd)
	legacyCmd.AddCommand(legacyNormalizeCmd)
	legacyNormalizeCmd.Flags().StringVar(&legacyTable, "table", "", "JSON file mapping legacy strings to unit symbols")
}

func runLegacyNormalize(ctx context.Context) error {
	table := map[string]string{}
	if legacyTable != "" {
		raw, err := os.ReadFile(legacyTable)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &table); err != nil {
			return fmt.Errorf("parse %s: %w", legacyTable, err)
		}
	}

	return withApp(func(a *app) error {
		return infra.WithScriptLock(ctx, a.rdb, "unitconv:legacy-normalize", cfg.ScriptLockTTL, func(ctx context.Context) error {
			report, err := a.legacy.NormalizeIngredients(ctx, table)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(report)
			}
			output.Section("Legacy unit normalisation")
			for _, r := range report.Rows {
				if r.Reason != "" {
					fmt.Printf("  %s %s (%q): %s\n", output.StatusIcon(r.Status), r.Name, r.LegacyUnit, r.Reason)
					continue
				}
				fmt.Printf("  %s %s (%q)\n", output.StatusIcon(r.Status), r.Name, r.LegacyUnit)
			}
			output.Info("%d scanned, %d updated, %d unresolved, %d failed",
				report.Scanned, report.Updated, report.Unresolved, report.Failed)
			return nil
		})
	})
}
