// Package conversation keeps the ordered message log of one chat about a subject.
package conversation

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/prompt"
)

// Session is an append-only, role-tagged message log. It is not safe for concurrent use.
type Session struct {
	messages []ai.Message
}

func New() *Session {
	return &Session{}
}

// FromMessages builds a session from stored messages, normalising role labels.
func FromMessages(msgs []ai.Message) (*Session, error) {
	s := New()
	for _, m := range msgs {
		if err := s.Append(string(m.Role), m.Content); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append records a message with a provider role label such as "model" or "assistant".
func (s *Session) Append(roleLabel, content string) error {
	role, err := ai.ParseRole(roleLabel)
	if err != nil {
		return err
	}
	s.messages = append(s.messages, ai.Message{Role: role, Content: content})
	return nil
}

func (s *Session) AppendUserTurn(text string) {
	s.messages = append(s.messages, ai.Message{Role: ai.RoleUser, Content: text})
}

// AppendAssistantTurnStreaming drains fragments and records their concatenation as one
// assistant message. The message is recorded even when the stream fails or ctx is cancelled,
// in which case the text received so far is committed and the error returned.
func (s *Session) AppendAssistantTurnStreaming(ctx context.Context, fragments iter.Seq2[string, error]) (string, error) {
	var (
		sb      strings.Builder
		failure error
	)

	for fragment, err := range fragments {
		if err != nil {
			failure = err
			break
		}
		sb.WriteString(fragment)
		if ctxErr := ctx.Err(); ctxErr != nil {
			failure = ctxErr
			break
		}
	}
	if failure == nil {
		failure = ctx.Err()
	}

	text := sb.String()
	s.messages = append(s.messages, ai.Message{Role: ai.RoleAssistant, Content: text})

	if failure != nil {
		return text, fmt.Errorf("assistant turn interrupted: %w", failure)
	}
	return text, nil
}

// ReplayContext returns the conversation to send to the model, oldest first, without system
// messages.
func (s *Session) ReplayContext() []ai.Message {
	if s == nil {
		return nil
	}
	return ai.Conversational(s.messages)
}

// Transcript returns the messages to display.
func (s *Session) Transcript() []ai.Message {
	return s.ReplayContext()
}

func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.messages)
}

// SystemPrompt renders the chat framing for a resume and job description. It is built for
// every turn and never stored in the session.
func SystemPrompt(resume, jobDescription string) (string, error) {
	return prompt.Build(prompt.ChatSystem, map[string]string{
		"resume":          resume,
		"job_description": jobDescription,
	}, nil)
}

// Echo writes every fragment to w as it passes through.
func Echo(fragments iter.Seq2[string, error], w io.Writer) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for fragment, err := range fragments {
			if err == nil && fragment != "" {
				if _, werr := io.WriteString(w, fragment); werr != nil {
					yield("", fmt.Errorf("echo fragment: %w", werr))
					return
				}
			}
			if !yield(fragment, err) {
				return
			}
		}
	}
}
