package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/zlatanpham/exploro-sub001/cmd/unitconv/output"
	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/importer"
	"github.com/zlatanpham/exploro-sub001/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// Mapping flags
	mappingIngredient string
)

// mappingCmd groups ingredient unit mapping commands
var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage ingredient count unit mappings",
	Long: `Manage per-ingredient mappings from count units to mass or volume.

Subcommands:
  set     - Create or overwrite a mapping
  delete  - Remove a mapping
  list    - List mappings
  import  - Bulk import mappings from an xlsx file`,
}

var mappingSetCmd = &cobra.Command{
	Use:   "set <ingredient-id> <count-unit> <quantity> <measurable-unit>",
	Short: "Create or overwrite a mapping",
	Long: `Create or overwrite a mapping. Re-running with the same ingredient and count
unit replaces the existing row.

Examples:
  unitconv mapping set <uuid> quả 60 g       # 1 quả = 60 g`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMappingSet(cmd.Context(), args)
	},
}

var mappingDeleteCmd = &cobra.Command{
	Use:   "delete <ingredient-id> <count-unit>",
	Short: "Remove a mapping",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMappingDelete(cmd.Context(), args)
	},
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mappings",
	Long: `List mappings, optionally for one ingredient.

Examples:
  unitconv mapping list
  unitconv mapping list --ingredient <uuid> --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMappingList(cmd.Context())
	},
}

var mappingImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Bulk import mappings from an xlsx file",
	Long: `Bulk import mappings. The first sheet must have the columns
ingredient_id, count_unit, measurable_unit and quantity. Every row is applied
independently; failures are reported per row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMappingImport(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(mappingCmd)
	mappingCmd.AddCommand(mappingSetCmd, mappingDeleteCmd, mappingListCmd, mappingImportCmd)

	mappingListCmd.Flags().StringVar(&mappingIngredient, "ingredient", "", "Only list mappings of this ingredient")
}

func runMappingSet(ctx context.Context, args []string) error {
	ingredientID, err := parseID("ingredient", args[0])
	if err != nil {
		return err
	}
	qty, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[2])
	}

	return withApp(func(a *app) error {
		countID, err := a.resolveUnit(ctx, args[1])
		if err != nil {
			return err
		}
		measurableID, err := a.resolveUnit(ctx, args[3])
		if err != nil {
			return err
		}
		resp, err := a.mappings.Set(ctx, dto.SetMappingRequest{
			IngredientID:     ingredientID,
			CountUnitID:      countID,
			MeasurableUnitID: measurableID,
			Quantity:         qty,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(resp)
		}
		output.Success("1 %s of %s = %s %s", resp.CountUnitSymbol, resp.IngredientName, resp.Quantity, resp.MeasurableUnitSymbol)
		return nil
	})
}

func runMappingDelete(ctx context.Context, args []string) error {
	ingredientID, err := parseID("ingredient", args[0])
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		countID, err := a.resolveUnit(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.mappings.Delete(ctx, ingredientID, countID); err != nil {
			return err
		}
		if !jsonOutput {
			output.Success("Mapping removed")
		}
		return nil
	})
}

func runMappingList(ctx context.Context) error {
	return withApp(func(a *app) error {
		var (
			list []dto.MappingResponse
			err  error
		)
		if mappingIngredient != "" {
			var id uuid.UUID
			if id, err = parseID("ingredient", mappingIngredient); err != nil {
				return err
			}
			list, err = a.mappings.ListByIngredient(ctx, id)
		} else {
			list, err = a.mappings.ListAll(ctx)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return output.JSON(list)
		}
		if len(list) == 0 {
			output.Info("No mappings found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INGREDIENT\tCOUNT UNIT\tQUANTITY\tUNIT")
		for _, m := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.IngredientName, m.CountUnitSymbol, m.Quantity, m.MeasurableUnitSymbol)
		}
		return w.Flush()
	})
}

type importReport struct {
	Rejected []importer.RowError     `json:"rejected"`
	Result   dto.BulkMappingResponse `json:"result"`
}

func runMappingImport(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := importer.ReadMappingRows(f)
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		return infra.WithScriptLock(ctx, a.rdb, "unitconv:mapping-import", cfg.ScriptLockTTL, func(ctx context.Context) error {
			reqs, rejected, err := importer.Resolve(ctx, a.units, rows)
			if err != nil {
				return err
			}
			res := a.mappings.BulkSet(ctx, reqs)

			if jsonOutput {
				return output.JSON(importReport{Rejected: rejected, Result: res})
			}
			output.Section("Mapping import")
			for _, r := range rejected {
				fmt.Printf("  %s %s\n", output.StatusIcon(dto.BulkItemFailed), r.Error())
			}
			for _, it := range res.Errors() {
				fmt.Printf("  %s item %d: %s\n", output.StatusIcon(it.Status), it.Index, it.Error)
			}
			output.Info("%d saved, %d failed, %d rejected", res.Successful, res.Failed, len(rejected))
			return nil
		})
	})
}
