package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/advisor"
	"github.com/careeroai/careero/internal/extract"
	"github.com/careeroai/careero/internal/logger"
)

type session struct {
	logger    *zap.Logger
	config    *Config
	advisor   *advisor.Advisor
	extractor *extract.Extractor
}

// setup builds everything a command needs and exits on failure.
func setup(ctx context.Context) *session {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.AI == nil {
		logger.Fatal("ai configuration is required")
	}

	logger.Info("starting careero", zap.String("version", version), zap.String("provider", config.AI.Provider))

	if logger.Core().Enabled(zap.DebugLevel) {
		// keep api keys out of the log
		redacted := *config.AI
		redacted.Gemini, redacted.OpenAI = nil, nil
		pretty, _ := json.MarshalIndent(redacted, "", "  ")
		logger.Debug(fmt.Sprintf("starting with ai config: \n %s", pretty))
	}

	adv, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the advisor",
			zap.Error(err),
			zap.String("hint", "set the provider api key in the environment, a .env file or the configuration file"),
		)
	}

	extractor, err := extract.New(ctx, extract.WithLogger(logger))
	if err != nil {
		logger.Fatal("building the document extractor", zap.Error(err))
	}

	return &session{logger: logger, config: config, advisor: adv, extractor: extractor}
}

// readDocument returns the text of a resume or job description file.
func (s *session) readDocument(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return s.extractor.ExtractText(ctx, data, filepath.Base(path))
}
