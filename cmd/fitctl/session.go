package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/pkg"

	"github.com/spf13/cobra"
)

func sessionCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log training sets and inspect the history of an exercise",
	}

	cmd.AddCommand(sessionLogCmd(opts))
	cmd.AddCommand(sessionAvgCmd(opts))
	cmd.AddCommand(sessionHistoryCmd(opts))

	return cmd
}

func sessionLogCmd(opts *globalOptions) *cobra.Command {
	var in progression.SessionInput

	cmd := &cobra.Command{
		Use:     "log <exercise>",
		Short:   "Log a set and get the recommendation for the next one",
		Example: `  fitctl session log squat --weight 100 --reps 10 --rpe 8`,
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			in.Exercise = args[0]
			result, err := a.advisor.LogSession(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, result)
			}

			fmt.Fprintf(out, "logged %s: %.2f kg x %d @ RPE %d on %s\n",
				result.Exercise, result.Weight, result.Reps, result.RPE, result.Date)
			fmt.Fprintf(out, "next weight: %.2f kg\n", result.NextWeight)
			if result.AvgRepsLastWeek != nil {
				fmt.Fprintf(out, "avg reps last week: %.2f\n", *result.AvgRepsLastWeek)
			}
			return nil
		}),
	}

	cmd.Flags().Float64VarP(&in.Weight, "weight", "w", 0, "weight lifted (kg)")
	cmd.Flags().IntVarP(&in.Reps, "reps", "r", 0, "reps done")
	cmd.Flags().IntVar(&in.RPE, "rpe", 0, "RPE (1-10)")
	cmd.Flags().StringVar(&in.Date, "date", "", "day of the set (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("reps")
	_ = cmd.MarkFlagRequired("rpe")

	return cmd
}

func sessionAvgCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "avg <exercise>",
		Short: "Average reps of an exercise over the last 7 days",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			avg, ok, err := a.advisor.AverageRepsLastWeek(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				resp := progression.AverageRepsResponse{Exercise: args[0]}
				if ok {
					resp.AvgRepsLastWeek = &avg
				}
				return printJSON(out, resp)
			}
			if !ok {
				_, err = fmt.Fprintln(out, "no data")
				return err
			}
			_, err = fmt.Fprintf(out, "%.2f\n", avg)
			return err
		}),
	}
}

func sessionHistoryCmd(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "history <exercise>",
		Short: "List logged sets of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			params := progression.HistoryParams{Exercise: args[0]}
			if from != "" {
				d, err := pkg.ParseDate(from)
				if err != nil {
					return err
				}
				params.From = &d
			}
			if to != "" {
				d, err := pkg.ParseDate(to)
				if err != nil {
					return err
				}
				params.To = &d
			}

			sessions, err := a.advisor.History(cmd.Context(), params)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), sessions)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tWEIGHT\tREPS\tRPE")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%s\t%.2f\t%d\t%d\n", s.Date, s.Weight, s.Reps, s.RPE)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")

	return cmd
}
