package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/2beens/fittrack/internal/nutrition"

	"github.com/spf13/cobra"
)

func foodCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Manage the food catalog",
	}

	cmd.AddCommand(foodUpsertCmd(opts))
	cmd.AddCommand(foodSearchCmd(opts))

	return cmd
}

func foodUpsertCmd(opts *globalOptions) *cobra.Command {
	var in nutrition.FoodInput

	cmd := &cobra.Command{
		Use:     "upsert <name>",
		Short:   "Add a food to the catalog, or replace the one with the same name",
		Example: `  fitctl food upsert tofu --kcal100 76 --protein100 8 --carb100 1.9 --fat100 4.8`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			in.Name = args[0]
			result, err := a.ledger.UpsertFood(cmd.Context(), in)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			action := "added"
			if result.Updated {
				action = "updated"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", action, result.Food.Name)
			return err
		}),
	}

	cmd.Flags().Float64Var(&in.Kcal100, "kcal100", 0, "kcal per 100g")
	cmd.Flags().Float64Var(&in.Protein100, "protein100", 0, "protein per 100g")
	cmd.Flags().Float64Var(&in.Carb100, "carb100", 0, "carbs per 100g")
	cmd.Flags().Float64Var(&in.Fat100, "fat100", 0, "fat per 100g")
	_ = cmd.MarkFlagRequired("kcal100")

	return cmd
}

func foodSearchCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by name, an empty query lists it",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			foods, err := a.ledger.SearchFoods(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), foods)
			}
			return printFoods(cmd.OutOrStdout(), foods)
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", nutrition.DefaultSearchLimit, "maximum results")

	return cmd
}

func printFoods(out io.Writer, foods []nutrition.Food) error {
	if len(foods) == 0 {
		_, err := fmt.Fprintln(out, "no foods found")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKCAL/100G\tPROTEIN\tCARB\tFAT")
	for _, f := range foods {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n", f.Name, f.Kcal100, f.Protein100, f.Carb100, f.Fat100)
	}
	return tw.Flush()
}
