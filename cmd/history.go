package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/resume-analyzer/internal/history"
)

const PromptBack = "back"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved results or show one of them",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("id", "", "print the record with this id")
	historyCmd.Flags().IntP("limit", "l", history.DefaultLimit, "maximum number of records to list")
	historyCmd.Flags().BoolP("interactive", "i", false, "choose a record to print from a list")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApplication(ctx, appOptions{noAI: true, withHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if raw, _ := cmd.Flags().GetString("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid record id %q: %w", raw, err)
		}
		record, err := a.history.Get(ctx, id)
		if err != nil {
			return err
		}
		return printResult(record)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := a.history.List(ctx, limit)
	if err != nil {
		return err
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		return printResult(records)
	}

	record, err := pickRecord(records)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	return printResult(record)
}

func recordLabel(r history.Record) string {
	return fmt.Sprintf("%s %s %-11s score %3d %s",
		r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Kind, r.OverallScore, r.Source,
	)
}

// pickRecord returns nil when the user goes back without choosing.
func pickRecord(records []history.Record) (*history.Record, error) {
	if len(records) == 0 {
		return nil, history.ErrNotFound
	}

	items := make([]string, 0, len(records)+1)
	for _, r := range records {
		items = append(items, recordLabel(r))
	}

	prompt := promptui.Select{
		Label: "Choose a record and press ENTER",
		Items: append(items, PromptBack),
		Size:  10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil, nil
		}
		return nil, err
	}
	if idx >= len(records) {
		return nil, nil
	}
	return &records[idx], nil
}
