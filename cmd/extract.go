package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/resume-analyzer/internal/history"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured fields from a PDF or DOCX resume",
	Long:  "Extract skills, experience, education, projects and contact details from a local file or an s3://bucket/key object.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("save", false, "save the extracted profile to history")
}

func runExtract(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")
	return runJob(cmd, jobInput{kind: history.KindExtraction, source: args[0], noAI: true, save: save})
}
