package cli

import (
	"fmt"
	"strconv"
	"strings"

	service "github.com/okian/ptt/internal/app"
	"github.com/okian/ptt/internal/domain/potential"
	"github.com/okian/ptt/internal/domain/types"
	"github.com/spf13/cobra"
)

func newRatingCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "rating <score> <constant>",
		Short: "Rating of one score on one chart",
		Example: `  ptt rating 9,912,345 11.3
  ptt rating 10000000 10.4 -f json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := parseScore(args[0])
			if err != nil {
				return err
			}
			constant, err := parseFloat("constant", args[1])
			if err != nil {
				return err
			}
			rating, err := st.svc.Rating(cmd.Context(), score, constant)
			if err != nil {
				return err
			}
			return st.renderer.Rating(cmd.OutOrStdout(), types.RatingResult{
				Score:    score,
				Constant: constant,
				Grade:    potential.ScoreGrade(score),
				Rating:   rating,
			})
		},
	}
}

func newTargetCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "target <constant> <current-score> <potential>",
		Short: "Smallest score that lifts the displayed potential by 0.01",
		Long: `target searches for the smallest score above the current one on a chart
whose new rating raises the displayed potential (truncated to two decimals)
by at least 0.01. The potential argument is the precise, untruncated value.`,
		Example: `  ptt target 10.0 9800000 12.995`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			constant, err := parseFloat("constant", args[0])
			if err != nil {
				return err
			}
			score, err := parseScore(args[1])
			if err != nil {
				return err
			}
			aggregate, err := parseFloat("potential", args[2])
			if err != nil {
				return err
			}
			res, err := st.svc.Target(cmd.Context(), constant, score, aggregate)
			if err != nil {
				return err
			}
			out := types.TargetResult{
				Constant:     constant,
				CurrentScore: score,
				Aggregate:    aggregate,
				Display:      potential.DisplayRating(aggregate),
			}
			if res.Found() {
				out.Target = &types.Target{
					Score:      res.Score,
					Delta:      res.Score - score,
					Outcome:    res.Outcome.String(),
					NewDisplay: res.NewDisplay,
				}
			}
			return st.renderer.Target(cmd.OutOrStdout(), out)
		},
	}
}

func newRequiredCmd(st *state) *cobra.Command {
	var top, recent []float64
	cmd := &cobra.Command{
		Use:   "required <potential>",
		Short: "Chart constants needed per grade for the next 0.01",
		Long: `required lists, for each grade from 995W down to AA, the lowest chart
constant on which a new play at that grade lifts the displayed potential by
one step. --top and --recent take the current window ratings; only their
minimums matter.`,
		Example: `  ptt required 12.3456 --top 12.1,12.9,12.5 --recent 11.7,12.2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			aggregate, err := parseFloat("potential", args[0])
			if err != nil {
				return err
			}
			res, err := st.svc.Required(cmd.Context(), aggregate, top, recent)
			if err != nil {
				return err
			}
			return st.renderer.Required(cmd.OutOrStdout(), service.RequirementsReport(res))
		},
	}
	cmd.Flags().Float64SliceVar(&top, "top", nil, "ratings in the top window")
	cmd.Flags().Float64SliceVar(&recent, "recent", nil, "ratings in the recent window")
	return cmd
}

// parseScore accepts 9800000, 9,800,000 and 9_800_000.
func parseScore(s string) (int, error) {
	clean := strings.NewReplacer(",", "", "_", "").Replace(strings.TrimSpace(s))
	v, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: score %q", service.ErrInvalidInput, s)
	}
	return v, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", service.ErrInvalidInput, name, s)
	}
	return v, nil
}
