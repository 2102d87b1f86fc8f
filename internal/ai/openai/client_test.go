package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careeroai/careero/internal/ai"
)

type fakeChat struct {
	requests []openai.ChatCompletionRequest
	resp     openai.ChatCompletionResponse
	err      error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeChat) CreateChatCompletionStream(_ context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error) {
	f.requests = append(f.requests, req)
	return nil, errors.New("streaming not available in tests")
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}}},
	}
}

func TestCompleteOneShotRequestsJSON(t *testing.T) {
	api := &fakeChat{resp: reply(" {\"a\":1} ")}
	c := newClient(api, "", WithJSONOutput())

	out, err := c.Complete(context.Background(), "give json", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, openai.GPT4oMini, req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
	assert.Equal(t, "give json", req.Messages[0].Content)
}

func TestCompleteWithHistory(t *testing.T) {
	api := &fakeChat{resp: reply("sure")}
	c := newClient(api, "gpt-4o")

	history := []ai.Message{
		{Role: ai.RoleSystem, Content: "dropped"},
		{Role: ai.RoleUser, Content: "q1"},
		{Role: ai.RoleAssistant, Content: "a1"},
		{Role: ai.RoleUser, Content: "q2"},
	}

	_, err := c.Complete(context.Background(), "framing", history)
	require.NoError(t, err)

	msgs := api.requests[0].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "framing", msgs[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[3].Role)
	assert.Nil(t, api.requests[0].ResponseFormat)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeChat
		is   error
	}{
		{name: "provider failure", api: &fakeChat{err: errors.New("quota")}},
		{name: "no choices", api: &fakeChat{}, is: ai.ErrEmptyResponse},
		{name: "blank content", api: &fakeChat{resp: reply("  ")}, is: ai.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(tt.api, "gpt-4o")
			_, err := c.Complete(context.Background(), "p", nil)

			var genErr *ai.GenerationError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, "openai", genErr.Provider)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is))
			}
		})
	}
}

func TestStreamReportsOpenFailure(t *testing.T) {
	c := newClient(&fakeChat{}, "gpt-4o")

	var errs []error
	for fragment, err := range c.Stream(context.Background(), "sys", []ai.Message{{Role: ai.RoleUser, Content: "hi"}}) {
		assert.Empty(t, fragment)
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	var genErr *ai.GenerationError
	assert.True(t, errors.As(errs[0], &genErr))
}
