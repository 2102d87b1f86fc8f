// Package openai implements ai.Invoker on top of the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/logger"
	"github.com/careeroai/careero/internal/utils"
)

const (
	providerName        = "openai"
	defaultMaxLogLength = 200
)

// chatAPI is the subset of *openai.Client used by the client.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

// Client implements ai.Invoker for OpenAI models.
type Client struct {
	api   chatAPI
	model string

	jsonOutput bool
	logger     *zap.Logger
	maxLogLen  int
}

// Option configures a Client.
type Option func(*Client)

// WithJSONOutput requests a JSON object response format for one-shot calls.
func WithJSONOutput() Option {
	return func(c *Client) {
		c.jsonOutput = true
	}
}

// WithLogger sets the logger used for request and response previews.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMaxLogLength bounds the prompt and response previews written to debug logs.
func WithMaxLogLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLogLen = n
		}
	}
}

// NewClient creates a Client for the given API key and model.
func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return newClient(openai.NewClient(apiKey), model, opts...), nil
}

func newClient(api chatAPI, model string, opts ...Option) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = openai.GPT4oMini
	}

	c := &Client{api: api, model: model, maxLogLen: defaultMaxLogLength}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.WithCommonFields(c.logger, providerName, model)

	return c
}

// Complete returns the whole response text of a single chat completion.
func (c *Client) Complete(ctx context.Context, instruction string, history []ai.Message) (string, error) {
	req, err := c.request(instruction, history)
	if err != nil {
		return "", c.wrap(err)
	}
	if c.jsonOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	c.logger.Debug("openai chat completion request",
		zap.Int("messages", len(req.Messages)),
		zap.String("prompt_preview", utils.TruncateForLog(instruction, c.maxLogLen)),
	)

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.wrap(err)
	}
	if len(resp.Choices) == 0 {
		return "", c.wrap(ai.ErrEmptyResponse)
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", c.wrap(ai.ErrEmptyResponse)
	}

	c.logger.Debug("openai chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

// Stream yields content deltas of a streamed chat completion.
func (c *Client) Stream(ctx context.Context, instruction string, history []ai.Message) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		req, err := c.request(instruction, history)
		if err != nil {
			yield("", c.wrap(err))
			return
		}
		req.Stream = true

		stream, err := c.api.CreateChatCompletionStream(ctx, req)
		if err != nil {
			yield("", c.wrap(err))
			return
		}
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", c.wrap(err))
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
	}
}

func (c *Client) Provider() string {
	return providerName
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) request(instruction string, history []ai.Message) (openai.ChatCompletionRequest, error) {
	if c == nil || c.api == nil {
		return openai.ChatCompletionRequest{}, errors.New("openai client is not initialized")
	}

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return openai.ChatCompletionRequest{}, errors.New("instruction must not be empty")
	}

	if len(history) == 0 {
		return openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: instruction},
			},
		}, nil
	}

	msgs := toMessages(instruction, history)
	if len(msgs) == 1 {
		return openai.ChatCompletionRequest{}, fmt.Errorf("history has no conversational messages")
	}

	return openai.ChatCompletionRequest{Model: c.model, Messages: msgs}, nil
}

func (c *Client) wrap(err error) error {
	return &ai.GenerationError{Provider: providerName, Model: c.Model(), Err: err}
}

// toMessages puts the instruction first as the system message, followed by the conversation.
func toMessages(instruction string, history []ai.Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: instruction})

	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case ai.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case ai.RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content})
		}
	}
	return msgs
}
