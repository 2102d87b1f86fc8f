package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/logger"
	"github.com/careeroai/careero/internal/utils"
)

const (
	providerName        = "gemini"
	defaultModel        = "gemini-2.5-pro"
	defaultMaxLogLength = 200

	// Gemini content roles. The assistant is called "model".
	roleUser  = "user"
	roleModel = "model"
)

// modelsAPI is the subset of *genai.Models used by the generator.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Generator wraps the Google GenAI client and implements ai.Invoker.
type Generator struct {
	models    modelsAPI
	modelName string

	temperature  *float32
	responseMIME string
	logger       *zap.Logger
	maxLogLen    int
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemperature sets the sampling temperature for every call.
func WithTemperature(t float32) Option {
	return func(g *Generator) {
		g.temperature = genai.Ptr(t)
	}
}

// WithResponseMIMEType requests a response MIME type, e.g. application/json, for one-shot calls.
func WithResponseMIMEType(mime string) Option {
	return func(g *Generator) {
		g.responseMIME = strings.TrimSpace(mime)
	}
}

// WithLogger sets the logger used for request and response previews.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithMaxLogLength bounds the prompt and response previews written to debug logs.
func WithMaxLogLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxLogLen = n
		}
	}
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, opts...), nil
}

func newGenerator(models modelsAPI, model string, opts ...Option) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	g := &Generator{
		models:    models,
		modelName: model,
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logger.WithCommonFields(g.logger, providerName, model)

	return g
}

// Complete sends the instruction (and history, if any) and returns the whole response text.
func (g *Generator) Complete(ctx context.Context, instruction string, history []ai.Message) (string, error) {
	contents, config, err := g.request(instruction, history)
	if err != nil {
		return "", g.wrap(err)
	}
	if g.responseMIME != "" {
		config.ResponseMIMEType = g.responseMIME
	}

	g.logger.Debug("gemini generate content request",
		zap.Int("history_length", len(history)),
		zap.Int("prompt_length", utf8.RuneCountInString(instruction)),
		zap.String("prompt_preview", utils.TruncateForLog(instruction, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", g.wrap(err)
	}

	output := strings.TrimSpace(responseText(resp, "\n", true))
	if output == "" {
		return "", g.wrap(ai.ErrEmptyResponse)
	}

	g.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

// Stream sends the instruction (and history, if any) and yields response fragments as they
// arrive.
func (g *Generator) Stream(ctx context.Context, instruction string, history []ai.Message) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents, config, err := g.request(instruction, history)
		if err != nil {
			yield("", g.wrap(err))
			return
		}

		g.logger.Debug("gemini stream content request",
			zap.Int("history_length", len(history)),
			zap.Int("prompt_length", utf8.RuneCountInString(instruction)),
		)

		fragments := 0
		for resp, err := range g.models.GenerateContentStream(ctx, g.modelName, contents, config) {
			if err != nil {
				yield("", g.wrap(err))
				return
			}

			text := responseText(resp, "", false)
			if text == "" {
				continue
			}
			fragments++
			if !yield(text, nil) {
				g.logger.Debug("gemini stream stopped by consumer", zap.Int("fragments", fragments))
				return
			}
		}

		g.logger.Debug("gemini stream finished", zap.Int("fragments", fragments))
	}
}

func (g *Generator) Provider() string {
	return providerName
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

func (g *Generator) request(instruction string, history []ai.Message) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	if g == nil || g.models == nil {
		return nil, nil, errors.New("gemini generator is not initialized")
	}

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, nil, errors.New("instruction must not be empty")
	}

	config := &genai.GenerateContentConfig{Temperature: g.temperature}

	if len(history) == 0 {
		return genai.Text(instruction), config, nil
	}

	contents := toContents(history)
	if len(contents) == 0 {
		return nil, nil, errors.New("history has no conversational messages")
	}
	config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)

	return contents, config, nil
}

func (g *Generator) wrap(err error) error {
	return &ai.GenerationError{Provider: providerName, Model: g.Model(), Err: err}
}

// toContents converts canonical messages into Gemini contents. Gemini has no system turns.
func toContents(history []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case ai.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  roleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  roleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse, sep string, trim bool) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text := part.Text
			if trim {
				text = strings.TrimSpace(text)
			}
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(sep)
			}
			builder.WriteString(text)
		}
		// Only the first candidate carries the answer.
		break
	}

	return builder.String()
}
