package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/pkg"

	"github.com/spf13/cobra"
)

func mealCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meal",
		Short: "Add meals to the log or remove them",
	}

	cmd.AddCommand(mealAddCmd(opts))
	cmd.AddCommand(mealRemoveCmd(opts))

	return cmd
}

func mealAddCmd(opts *globalOptions) *cobra.Command {
	var (
		in                                   nutrition.MealInput
		kcal100, protein100, carb100, fat100 float64
	)

	cmd := &cobra.Command{
		Use:   "add <food>",
		Short: "Log a portion of a food",
		Long: `Log a portion of a food from the catalog.

When all four per 100g values (--kcal100, --protein100, --carb100, --fat100)
are given, the food does not have to be in the catalog and is not added to it.`,
		Example: `  fitctl meal add banana --grams 120
  fitctl meal add "grandma's pie" --grams 150 --kcal100 320 --protein100 4 --carb100 40 --fat100 15`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			in.Food = args[0]
			flags := cmd.Flags()
			if flags.Changed("kcal100") {
				in.Kcal100 = &kcal100
			}
			if flags.Changed("protein100") {
				in.Protein100 = &protein100
			}
			if flags.Changed("carb100") {
				in.Carb100 = &carb100
			}
			if flags.Changed("fat100") {
				in.Fat100 = &fat100
			}

			entry, err := a.ledger.AddMeal(cmd.Context(), in)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), entry)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added [%s] %s %.2fg: %.2f kcal, P %.2f, C %.2f, F %.2f\n",
				entry.ID, entry.Food, entry.QuantityG, entry.Kcal, entry.Protein, entry.Carb, entry.Fat)
			return err
		}),
	}

	cmd.Flags().Float64VarP(&in.QuantityG, "grams", "g", 0, "eaten quantity in grams")
	cmd.Flags().StringVar(&in.Date, "date", "", "day of the meal (YYYY-MM-DD), defaults to today")
	cmd.Flags().Float64Var(&kcal100, "kcal100", 0, "custom kcal per 100g")
	cmd.Flags().Float64Var(&protein100, "protein100", 0, "custom protein per 100g")
	cmd.Flags().Float64Var(&carb100, "carb100", 0, "custom carbs per 100g")
	cmd.Flags().Float64Var(&fat100, "fat100", 0, "custom fat per 100g")
	_ = cmd.MarkFlagRequired("grams")

	return cmd
}

func mealRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a meal from the log",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			removed, err := a.ledger.RemoveMeal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%w: %s", nutrition.ErrMealNotFound, args[0])
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return err
		}),
	}
}

func dayCmd(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the kcal and macro totals of a day",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			day := a.ledger.Today()
			if date != "" {
				parsed, err := pkg.ParseDate(date)
				if err != nil {
					return err
				}
				day = parsed
			}

			summary, err := a.ledger.DaySummary(cmd.Context(), day)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			return printDaySummary(cmd.OutOrStdout(), summary)
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD), defaults to today")

	return cmd
}

func printDaySummary(out io.Writer, summary *nutrition.DaySummary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", summary.Date)
	fmt.Fprintln(tw, "ID\tFOOD\tGRAMS\tKCAL\tPROTEIN\tCARB\tFAT")
	for _, m := range summary.Meals {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			m.ID, m.Food, m.QuantityG, m.Kcal, m.Protein, m.Carb, m.Fat)
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%.2f\t%.2f\t%.2f\t%.2f\n",
		summary.Kcal, summary.Protein, summary.Carb, summary.Fat)
	return tw.Flush()
}
