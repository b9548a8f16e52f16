package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/resume-analyzer/internal/history"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Score a resume with AI, falling back to the deterministic rubric",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addJobFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("job-description", "J", "", "target job description: text, file, http(s) URL or hh:<vacancy id>")
}

// addJobFlags registers the flags shared by analyze and improve.
func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "", "extracted profile JSON: a file, inline JSON or - for stdin")
	cmd.Flags().Bool("no-ai", false, "skip the AI collaborator and use deterministic scoring")
	cmd.Flags().Bool("save", false, "save the result to history")
}

func jobFlags(cmd *cobra.Command, args []string) jobInput {
	in := jobInput{}
	if len(args) > 0 {
		in.source = args[0]
	}
	in.profileRef, _ = cmd.Flags().GetString("profile")
	in.noAI, _ = cmd.Flags().GetBool("no-ai")
	in.save, _ = cmd.Flags().GetBool("save")
	return in
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in := jobFlags(cmd, args)
	in.kind = history.KindAnalysis
	in.jobDescription, _ = cmd.Flags().GetString("job-description")
	return runJob(cmd, in)
}
