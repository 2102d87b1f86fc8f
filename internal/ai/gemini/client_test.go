package gemini

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/careeroai/careero/internal/ai"
)

type modelsCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	calls []modelsCall

	resp *genai.GenerateContentResponse
	err  error

	chunks    []*genai.GenerateContentResponse
	streamErr error
	consumed  int
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, modelsCall{model: model, contents: contents, config: config})
	return f.resp, f.err
}

func (f *fakeModels) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.calls = append(f.calls, modelsCall{model: model, contents: contents, config: config})
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, chunk := range f.chunks {
			f.consumed++
			if !yield(chunk, nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(nil, f.streamErr)
		}
	}
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: roleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestCompleteOneShot(t *testing.T) {
	models := &fakeModels{resp: textResponse("  {\"ok\": true}  ")}
	g := newGenerator(models, "gemini-pro", WithResponseMIMEType("application/json"), WithTemperature(0), WithLogger(zap.NewNop()))

	out, err := g.Complete(context.Background(), "evaluate this", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != `{"ok": true}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(models.calls))
	}
	call := models.calls[0]
	if call.model != "gemini-pro" {
		t.Fatalf("unexpected model: %s", call.model)
	}
	if call.config.SystemInstruction != nil {
		t.Fatalf("one-shot call must not set a system instruction")
	}
	if call.config.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected mime type: %q", call.config.ResponseMIMEType)
	}
	if call.config.Temperature == nil || *call.config.Temperature != 0 {
		t.Fatalf("expected temperature 0")
	}
	if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "evaluate this" {
		t.Fatalf("unexpected contents: %+v", call.contents)
	}
}

func TestCompleteWithHistoryUsesSystemInstructionAndModelRole(t *testing.T) {
	models := &fakeModels{resp: textResponse("answer")}
	g := newGenerator(models, "", WithResponseMIMEType("application/json"))

	history := []ai.Message{
		{Role: ai.RoleSystem, Content: "ignored"},
		{Role: ai.RoleUser, Content: "What skills am I missing?"},
		{Role: ai.RoleAssistant, Content: "Kubernetes."},
		{Role: ai.RoleUser, Content: "How long to prepare?"},
	}

	if _, err := g.Complete(context.Background(), "system framing", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := models.calls[0]
	if call.model != defaultModel {
		t.Fatalf("expected default model, got %s", call.model)
	}
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != "system framing" {
		t.Fatalf("expected system instruction to be set")
	}
	if len(call.contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(call.contents))
	}

	wantRoles := []string{roleUser, roleModel, roleUser}
	for i, c := range call.contents {
		if string(c.Role) != wantRoles[i] {
			t.Fatalf("content %d: expected role %s, got %s", i, wantRoles[i], c.Role)
		}
	}
}

func TestCompleteWrapsProviderErrors(t *testing.T) {
	apiErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED"}
	g := newGenerator(&fakeModels{err: apiErr}, "gemini-pro")

	_, err := g.Complete(context.Background(), "prompt", nil)

	var genErr *ai.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if genErr.Provider != "gemini" || genErr.Model != "gemini-pro" {
		t.Fatalf("unexpected error metadata: %+v", genErr)
	}
}

func TestCompleteRejectsEmptyResponse(t *testing.T) {
	g := newGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, "gemini-pro")

	_, err := g.Complete(context.Background(), "prompt", nil)
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestCompleteRejectsEmptyInstruction(t *testing.T) {
	models := &fakeModels{resp: textResponse("x")}
	g := newGenerator(models, "gemini-pro")

	if _, err := g.Complete(context.Background(), "   ", nil); err == nil {
		t.Fatal("expected error for empty instruction")
	}
	if len(models.calls) != 0 {
		t.Fatalf("expected no call, got %d", len(models.calls))
	}
}

func TestStreamYieldsFragmentsVerbatim(t *testing.T) {
	models := &fakeModels{chunks: []*genai.GenerateContentResponse{
		textResponse("Hello"),
		textResponse(", "),
		{},
		textResponse("world"),
	}}
	g := newGenerator(models, "gemini-pro")

	var got string
	for fragment, err := range g.Stream(context.Background(), "sys", []ai.Message{{Role: ai.RoleUser, Content: "hi"}}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got += fragment
	}

	if got != "Hello, world" {
		t.Fatalf("unexpected stream text: %q", got)
	}
	if models.calls[0].config.ResponseMIMEType != "" {
		t.Fatalf("stream must not force a response mime type")
	}
}

func TestStreamStopsWhenConsumerBreaks(t *testing.T) {
	models := &fakeModels{chunks: []*genai.GenerateContentResponse{
		textResponse("one"),
		textResponse("two"),
		textResponse("three"),
	}}
	g := newGenerator(models, "gemini-pro")

	for fragment := range g.Stream(context.Background(), "prompt", nil) {
		if fragment == "one" {
			break
		}
	}

	if models.consumed != 1 {
		t.Fatalf("expected stream to stop after 1 chunk, consumed %d", models.consumed)
	}
}

func TestStreamDeliversErrorLast(t *testing.T) {
	models := &fakeModels{
		chunks:    []*genai.GenerateContentResponse{textResponse("partial")},
		streamErr: errors.New("connection reset"),
	}
	g := newGenerator(models, "gemini-pro")

	var fragments []string
	var streamErr error
	for fragment, err := range g.Stream(context.Background(), "prompt", nil) {
		if err != nil {
			streamErr = err
			continue
		}
		fragments = append(fragments, fragment)
	}

	if len(fragments) != 1 || fragments[0] != "partial" {
		t.Fatalf("unexpected fragments: %v", fragments)
	}
	var genErr *ai.GenerationError
	if !errors.As(streamErr, &genErr) {
		t.Fatalf("expected GenerationError, got %v", streamErr)
	}
}
