package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		label string
		want  Role
	}{
		{"user", RoleUser},
		{" Model ", RoleAssistant},
		{"assistant", RoleAssistant},
		{"SYSTEM", RoleSystem},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseRole(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseRole("tool")
	assert.Error(t, err)
}

func TestConversational(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "seed"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}

	got := Conversational(msgs)
	assert.Equal(t, msgs[1:], got)
}

func TestGenerationErrorUnwraps(t *testing.T) {
	err := error(&GenerationError{Provider: "gemini", Model: "m", Err: context.DeadlineExceeded})

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "gemini m: generate content")
}
