package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/zlatanpham/exploro-sub001/cmd/unitconv/output"
	"github.com/zlatanpham/exploro-sub001/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// Units flags
	unitsCategory string

	unitAddCategory string
	unitAddSymbol   string
	unitAddNameVi   string
	unitAddNameEn   string
	unitAddFactor   string
	unitAddBase     bool
)

// unitsCmd lists the unit catalog and groups the catalog admin commands
var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List and manage the unit catalog",
	Long: `List and manage the unit catalog.

Examples:
  unitconv units                                   # all units grouped by category
  unitconv units --category <uuid>                 # one category
  unitconv units compatible g                      # units g converts to without extra data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsList(cmd.Context())
	},
}

var unitsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a unit to a category",
	Long: `Add a unit to a category.

Examples:
  unitconv units add --category <uuid> --symbol kg --name-vi kilôgam --name-en kilogram --factor 1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsAdd(cmd.Context())
	},
}

var unitsAddConversionCmd = &cobra.Command{
	Use:   "add-conversion <from-unit> <to-unit> <factor>",
	Short: "Store a curated cross-category factor and its inverse",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsAddConversion(cmd.Context(), args)
	},
}

var unitsDeleteCategoryCmd = &cobra.Command{
	Use:   "delete-category <category-id>",
	Short: "Delete an empty unit category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsDeleteCategory(cmd.Context(), args[0])
	},
}

var unitsCompatibleCmd = &cobra.Command{
	Use:   "compatible <unit>",
	Short: "List units a unit converts to without ingredient data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsCompatible(cmd.Context(), args[0])
	},
}

var unitsCanConvertCmd = &cobra.Command{
	Use:   "can-convert <from-unit> <to-unit>",
	Short: "Report whether two units convert without ingredient data",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitsCanConvert(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)
	unitsCmd.AddCommand(unitsAddCmd, unitsAddConversionCmd, unitsDeleteCategoryCmd, unitsCompatibleCmd, unitsCanConvertCmd)

	unitsCmd.Flags().StringVar(&unitsCategory, "category", "", "Only list units of this category")

	unitsAddCmd.Flags().StringVar(&unitAddCategory, "category", "", "Category id")
	unitsAddCmd.Flags().StringVar(&unitAddSymbol, "symbol", "", "Unit symbol")
	unitsAddCmd.Flags().StringVar(&unitAddNameVi, "name-vi", "", "Vietnamese name")
	unitsAddCmd.Flags().StringVar(&unitAddNameEn, "name-en", "", "English name")
	unitsAddCmd.Flags().StringVar(&unitAddFactor, "factor", "1", "Factor to the category base unit")
	unitsAddCmd.Flags().BoolVar(&unitAddBase, "base", false, "Make this the category base unit")
	_ = unitsAddCmd.MarkFlagRequired("category")
	_ = unitsAddCmd.MarkFlagRequired("symbol")
}

func runUnitsList(ctx context.Context) error {
	return withApp(func(a *app) error {
		if unitsCategory != "" {
			id, err := parseID("category", unitsCategory)
			if err != nil {
				return err
			}
			list, err := a.unitsSvc.ListByCategory(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.JSON(list)
			}
			return printUnits(list)
		}

		groups, err := a.unitsSvc.ListGrouped(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(groups)
		}
		for _, g := range groups {
			output.Section(g.Name)
			if err := printUnits(g.Units); err != nil {
				return err
			}
		}
		return nil
	})
}

func printUnits(list []dto.UnitResponse) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tFACTOR\tBASE")
	for _, u := range list {
		base := ""
		if u.IsBaseUnit {
			base = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Symbol, u.NameVi, u.FactorToBase, base)
	}
	return w.Flush()
}

func runUnitsAdd(ctx context.Context) error {
	categoryID, err := parseID("category", unitAddCategory)
	if err != nil {
		return err
	}
	factor, err := decimal.NewFromString(unitAddFactor)
	if err != nil {
		return fmt.Errorf("invalid factor %q", unitAddFactor)
	}
	nameVi, nameEn := unitAddNameVi, unitAddNameEn
	if nameVi == "" {
		nameVi = unitAddSymbol
	}
	if nameEn == "" {
		nameEn = unitAddSymbol
	}

	return withApp(func(a *app) error {
		resp, err := a.unitsSvc.CreateUnit(ctx, dto.CreateUnitRequest{
			CategoryID:   categoryID,
			Symbol:       unitAddSymbol,
			NameVi:       nameVi,
			NameEn:       nameEn,
			IsBaseUnit:   unitAddBase,
			FactorToBase: factor,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(resp)
		}
		output.Success("Unit %s created (%s)", resp.Symbol, resp.ID)
		return nil
	})
}

func runUnitsAddConversion(ctx context.Context, args []string) error {
	factor, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid factor %q", args[2])
	}
	return withApp(func(a *app) error {
		from, err := a.resolveUnit(ctx, args[0])
		if err != nil {
			return err
		}
		to, err := a.resolveUnit(ctx, args[1])
		if err != nil {
			return err
		}
		resp, err := a.unitsSvc.CreateConversion(ctx, dto.CreateConversionRequest{FromUnitID: from, ToUnitID: to, Factor: factor})
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(resp)
		}
		output.Success("%s -> %s = %s (inverse %s)", args[0], args[1], resp.Factor, resp.Inverse)
		return nil
	})
}

func runUnitsDeleteCategory(ctx context.Context, ref string) error {
	id, err := parseID("category", ref)
	if err != nil {
		return err
	}
	return withApp(func(a *app) error {
		if err := a.unitsSvc.DeleteCategory(ctx, id); err != nil {
			return err
		}
		if !jsonOutput {
			output.Success("Category deleted")
		}
		return nil
	})
}

func runUnitsCompatible(ctx context.Context, ref string) error {
	return withApp(func(a *app) error {
		id, err := a.resolveUnit(ctx, ref)
		if err != nil {
			return err
		}
		units, err := a.conversion.CompatibleUnits(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(units)
		}
		for _, u := range units {
			fmt.Printf("  %s %s\n", u.Symbol, u.NameVi)
		}
		return nil
	})
}

func runUnitsCanConvert(ctx context.Context, args []string) error {
	return withApp(func(a *app) error {
		from, err := a.resolveUnit(ctx, args[0])
		if err != nil {
			return err
		}
		to, err := a.resolveUnit(ctx, args[1])
		if err != nil {
			return err
		}
		ok, err := a.conversion.CanConvert(ctx, from, to)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(map[string]bool{"can_convert": ok})
		}
		if ok {
			output.Success("%s converts to %s", args[0], args[1])
		} else {
			output.Warning("%s does not convert to %s without ingredient data", args[0], args[1])
		}
		return nil
	})
}
