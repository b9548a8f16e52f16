package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/resume-analyzer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <profile.json|->",
	Short: "Score an extracted profile with the deterministic rubric only",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		profile, err := readProfile(args[0])
		if err != nil {
			return asAnalysisError(err)
		}
		return printResult(scoring.Score(profile))
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
