package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/resume-analyzer/internal/history"
)

var improveCmd = &cobra.Command{
	Use:   "improve [file]",
	Short: "Build an improvement plan for a resume",
	Long:  "Build a rubric-scored improvement plan. Without --current-score the deterministic score seeds the plan.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImprove,
}

func init() {
	rootCmd.AddCommand(improveCmd)

	addJobFlags(improveCmd)
	improveCmd.Flags().Int("current-score", 0, "current resume score used when the plan omits one")
}

func runImprove(cmd *cobra.Command, args []string) error {
	in := jobFlags(cmd, args)
	in.kind = history.KindImprovement

	if cmd.Flags().Changed("current-score") {
		score, _ := cmd.Flags().GetInt("current-score")
		in.currentScore = &score
	}

	return runJob(cmd, in)
}
