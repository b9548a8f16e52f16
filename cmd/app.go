package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/failure"
	"github.com/spigell/resume-analyzer/internal/history"
	"github.com/spigell/resume-analyzer/internal/jobdesc"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/resume"
	"github.com/spigell/resume-analyzer/internal/secrets"
	"github.com/spigell/resume-analyzer/internal/storage"
)

type appOptions struct {
	noAI        bool
	withHistory bool
}

// application holds everything a command needs to run the pipeline.
type application struct {
	config  *Config
	logger  *zap.Logger
	service *analysis.Service
	history history.Store
	jobs    *jobdesc.Client
}

func newApplication(ctx context.Context, opts appOptions) (*application, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	if config == nil {
		config = &Config{}
	}

	log.Debug("starting the resume-analyzer", zap.String("version", version))

	objects, err := storage.New(ctx, config.Storage, log)
	if err != nil {
		return nil, err
	}

	var maxSize int64
	if config.Document != nil {
		maxSize = config.Document.MaxSize
	}
	loader := document.NewLoader(log, objects, maxSize)

	store := history.Store(history.NopStore{})
	if opts.withHistory {
		store, err = history.Open(ctx, config.History, log)
		if err != nil {
			return nil, err
		}
	}

	aiStep := analysis.NewAIStrategy(nil, "", nil)
	if !opts.noAI {
		aiStep = newAIStrategy(ctx, config.AI, log)
	}
	steps := []analysis.Strategy{aiStep, analysis.NewFallbackStrategy()}
	if opts.noAI {
		analysis.DisableByName(steps, analysis.AIStrategyName, "disabled by --no-ai")
	}

	for _, status := range analysis.Describe(steps) {
		log.Debug("analysis strategy",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return &application{
		config:  config,
		logger:  log,
		service: analysis.NewService(loader, resume.NewParser(log), steps, store, log),
		history: store,
		jobs:    jobdesc.New(log),
	}, nil
}

func (a *application) Close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("closing history store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// newAIStrategy never fails: configuration problems disable the strategy and
// are carried to the fallback as the AI error.
func newAIStrategy(ctx context.Context, cfg *AIConfig, log *zap.Logger) analysis.Strategy {
	if cfg == nil || !cfg.Enabled {
		return analysis.NewAIStrategy(nil, "", nil)
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return analysis.NewAIStrategy(nil, provider, fmt.Errorf("unsupported ai provider: %s", cfg.Provider))
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		if !errors.Is(err, failure.ErrMissingCredential) {
			err = failure.NewMissingCredential("gemini", err)
		}
		return analysis.NewAIStrategy(nil, gemini.Provider, err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, log)
	if err != nil {
		return analysis.NewAIStrategy(nil, gemini.Provider, failure.NewCollaboratorFailure("gemini", err))
	}

	analyzer := gemini.NewAnalyzer(generator, log, gcfg.MaxLogLength).WithTimeout(cfg.Timeout)
	return analysis.NewAIStrategy(analyzer, gemini.Provider, nil)
}
