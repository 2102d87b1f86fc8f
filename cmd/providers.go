package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/advisor"
	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/ai/gemini"
	"github.com/careeroai/careero/internal/ai/openai"
	"github.com/careeroai/careero/internal/history"
	"github.com/careeroai/careero/internal/secrets"
	"github.com/careeroai/careero/internal/structured"
)

func newInvoker(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Invoker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai configuration is required")
	}

	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", "gemini":
		if cfg.Gemini == nil {
			cfg.Gemini = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set GEMINI_API_KEY or ai.gemini.api-key-file)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model,
			gemini.WithTemperature(cfg.Gemini.Temperature),
			gemini.WithResponseMIMEType("application/json"),
			gemini.WithLogger(logger),
			gemini.WithMaxLogLength(cfg.MaxLogLength),
		)
		if err != nil {
			return nil, err
		}
		return generator, nil
	case "openai":
		if cfg.OpenAI == nil {
			cfg.OpenAI = &OpenAIConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   []string{"OPENAI_API_KEY"},
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set OPENAI_API_KEY or ai.openai.api-key-file)", err)
		}

		client, err := openai.NewClient(apiKey, cfg.OpenAI.Model,
			openai.WithJSONOutput(),
			openai.WithLogger(logger),
			openai.WithMaxLogLength(cfg.MaxLogLength),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*advisor.Advisor, error) {
	invoker, err := newInvoker(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	controller := structured.NewController(invoker,
		structured.WithMaxAttempts(cfg.MaxAttempts),
		structured.WithRetryDelay(cfg.RetryDelay),
		structured.WithMaxLogLength(cfg.MaxLogLength),
		structured.WithLogger(logger),
	)

	return advisor.New(controller, invoker, history.NewStore(), advisor.WithLogger(logger)), nil
}
