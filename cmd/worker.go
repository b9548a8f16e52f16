package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis jobs from RabbitMQ",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().IntP("workers", "w", 0, "number of consumers (overrides worker.workers)")
	viper.BindPFlag("worker.workers", workerCmd.Flags().Lookup("workers"))
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApplication(ctx, appOptions{withHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	handler := worker.NewHandler(a.service, a.jobs, a.logger)
	pool, err := worker.New(a.config.Worker, handler, a.logger)
	if err != nil {
		return err
	}

	a.logger.Info("starting the worker", zap.String("version", version), zap.String("queue", a.config.Worker.Queue))
	return pool.Run(ctx)
}
