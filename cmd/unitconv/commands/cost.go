package commands

import (
	"fmt"

	"github.com/zlatanpham/exploro-sub001/cmd/unitconv/output"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// costCmd prices one recipe line
var costCmd = &cobra.Command{
	Use:   "cost <ingredient-id> <quantity> <unit>",
	Short: "Price a recipe line in the ingredient's own unit",
	Long: `Convert the quantity into the ingredient's unit and multiply by its current price.

Examples:
  unitconv cost <uuid> 2 quả`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ingredientID, err := parseID("ingredient", args[0])
		if err != nil {
			return err
		}
		qty, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withApp(func(a *app) error {
			unitID, err := a.resolveUnit(ctx, args[2])
			if err != nil {
				return err
			}
			resp, err := a.cost.LineCost(ctx, ingredientID, qty, unitID)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(resp)
			}
			if !resp.Success {
				output.Error("%s: %s", resp.Kind, resp.Error)
				return fmt.Errorf("cost unavailable")
			}
			output.Success("%s x %s = %s", resp.Quantity, resp.UnitPrice, resp.Cost.StringFixed(2))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(costCmd)
}
