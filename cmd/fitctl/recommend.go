package main

import (
	"fmt"

	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/pkg"

	"github.com/spf13/cobra"
)

func recommendCmd(opts *globalOptions) *cobra.Command {
	var (
		weight float64
		reps   int
		rpe    int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend the weight for the next set",
		Example: `  fitctl recommend --weight 100 --reps 10 --rpe 8
  fitctl recommend --weight 60 --reps 6 --rpe 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vErr := pkg.NewValidationError()
			if weight <= 0 {
				vErr.Add("weight", "must be > 0")
			}
			if reps < 1 {
				vErr.Add("reps", "must be >= 1")
			}
			if rpe < progression.MinRPE || rpe > progression.MaxRPE {
				vErr.Add("rpe", "must be between 1 and 10")
			}
			if err := vErr.OrNil(); err != nil {
				return err
			}

			next := progression.Recommend(weight, reps, rpe)
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), progression.RecommendResponse{
					Weight:     weight,
					Reps:       reps,
					RPE:        rpe,
					NextWeight: next,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "next weight: %.2f kg\n", next)
			return err
		},
	}

	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "weight of the last set (kg)")
	cmd.Flags().IntVarP(&reps, "reps", "r", 0, "reps of the last set")
	cmd.Flags().IntVar(&rpe, "rpe", 0, "RPE of the last set (1-10)")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("reps")
	_ = cmd.MarkFlagRequired("rpe")

	return cmd
}
