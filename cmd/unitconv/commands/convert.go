package commands

import (
	"fmt"

	"github.com/zlatanpham/exploro-sub001/cmd/unitconv/output"
	"github.com/zlatanpham/exploro-sub001/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// Convert flags
	convertDensity    string
	convertIngredient string
)

// convertCmd converts a quantity between two units
var convertCmd = &cobra.Command{
	Use:   "convert <quantity> <from-unit> <to-unit>",
	Short: "Convert a quantity between units",
	Long: `Convert a quantity between units. Units are given by symbol or id.

Examples:
  unitconv convert 100 g kg                          # same category
  unitconv convert 15 g ml --density 0.94            # mass <-> volume
  unitconv convert 2 quả g --ingredient <uuid>       # count unit via mapping`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertDensity, "density", "", "Density in g/ml for mass <-> volume")
	convertCmd.Flags().StringVar(&convertIngredient, "ingredient", "", "Ingredient id; uses its mappings and density")
}

func runConvert(cmd *cobra.Command, args []string) error {
	qty, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[0])
	}
	if convertDensity != "" && convertIngredient != "" {
		return fmt.Errorf("--density and --ingredient are mutually exclusive")
	}

	ctx := cmd.Context()
	return withApp(func(a *app) error {
		from, err := a.resolveUnit(ctx, args[1])
		if err != nil {
			return err
		}
		to, err := a.resolveUnit(ctx, args[2])
		if err != nil {
			return err
		}

		var res *dto.ConversionResult
		switch {
		case convertIngredient != "":
			ingredientID, err := parseID("ingredient", convertIngredient)
			if err != nil {
				return err
			}
			res, err = a.conversion.ConvertForIngredient(ctx, qty, from, to, ingredientID)
			if err != nil {
				return err
			}
		case convertDensity != "":
			density, err := decimal.NewFromString(convertDensity)
			if err != nil {
				return fmt.Errorf("invalid density %q", convertDensity)
			}
			res, err = a.conversion.ConvertWithDensity(ctx, qty, from, to, &density)
			if err != nil {
				return err
			}
		default:
			res, err = a.conversion.Convert(ctx, qty, from, to)
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			return output.JSON(res)
		}
		if !res.Success {
			output.Error("%s: %s", res.Kind, res.Error)
			return fmt.Errorf("conversion failed")
		}
		output.Success("%s %s = %s %s", qty, args[1], res.Value(), args[2])
		if res.UsedIngredientMapping && res.MappingDetails != nil {
			output.Muted("  via ingredient mapping (quantity %s)", res.MappingDetails.MappingQuantity)
		}
		return nil
	})
}
