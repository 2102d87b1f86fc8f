// Package advisor ties structured generation, chat sessions and subject history together for
// the command line.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/artifact"
	"github.com/careeroai/careero/internal/conversation"
	"github.com/careeroai/careero/internal/history"
	"github.com/careeroai/careero/internal/logger"
	"github.com/careeroai/careero/internal/prompt"
	"github.com/careeroai/careero/internal/schema"
	"github.com/careeroai/careero/internal/structured"
)

// ErrNoSubject is returned when a chat is attempted without an active job description.
var ErrNoSubject = errors.New("no active job description")

type structuredGenerator interface {
	Generate(ctx context.Context, tmpl prompt.Template, vars map[string]string, spec *schema.Spec) (*structured.Artifact, error)
}

// EvaluationRequest is the input of a resume evaluation.
type EvaluationRequest struct {
	Resume         string `validate:"required"`
	JobDescription string `validate:"required"`
}

// ChatRequest is a single user question about the active subject.
type ChatRequest struct {
	Resume   string `validate:"required"`
	Question string `validate:"required"`
}

type Advisor struct {
	generator structuredGenerator
	streamer  ai.Streamer
	store     *history.Store
	validate  *validator.Validate
	logger    *zap.Logger
}

type Option func(*Advisor)

func WithLogger(l *zap.Logger) Option {
	return func(a *Advisor) {
		a.logger = l
	}
}

func New(generator structuredGenerator, streamer ai.Streamer, store *history.Store, opts ...Option) *Advisor {
	if store == nil {
		store = history.NewStore()
	}
	a := &Advisor{
		generator: generator,
		streamer:  streamer,
		store:     store,
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logger.WithFields(a.logger)
	return a
}

func (a *Advisor) Store() *history.Store {
	return a.store
}

// Evaluate scores the resume against the job description. When the job description differs
// from the active subject the active workspace is stored first.
func (a *Advisor) Evaluate(ctx context.Context, ws history.Workspace, req EvaluationRequest) (history.Workspace, *artifact.Evaluation, error) {
	req.Resume = strings.TrimSpace(req.Resume)
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if err := a.validate.Struct(req); err != nil {
		return ws, nil, fmt.Errorf("invalid evaluation request: %w", err)
	}

	if ws.Key != req.JobDescription {
		ws = a.store.SwitchTo(ws, req.JobDescription)
	}
	ws.Kind = history.KindJob

	art, err := a.generator.Generate(ctx, prompt.Evaluation, map[string]string{
		"resume":          req.Resume,
		"job_description": req.JobDescription,
	}, artifact.EvaluationSpec())
	if err != nil {
		return ws, nil, fmt.Errorf("evaluate resume: %w", err)
	}

	eval, err := artifact.DecodeEvaluation(art)
	if err != nil {
		return ws, nil, err
	}

	ws.Artifact = art
	a.store.Upsert(ws.Key, ws.Kind, ws.Session, ws.Artifact)
	a.logger.Info("resume evaluated", zap.String("title", eval.Title), zap.Float64("global_score", eval.GlobalScore))

	return ws, eval, nil
}

// SuggestCareers runs the career finder for a survey and stores the result under the survey key.
func (a *Advisor) SuggestCareers(ctx context.Context, survey artifact.Survey) (*artifact.CareerSuggestionSet, error) {
	if err := survey.Validate(); err != nil {
		return nil, err
	}

	vars, err := survey.Variables()
	if err != nil {
		return nil, err
	}

	art, err := a.generator.Generate(ctx, prompt.Careers, vars, artifact.CareerSpec())
	if err != nil {
		return nil, fmt.Errorf("suggest careers: %w", err)
	}

	set, err := artifact.DecodeCareers(art)
	if err != nil {
		return nil, err
	}

	a.store.Upsert(survey.Key(), history.KindSurvey, nil, art)
	a.logger.Info("careers suggested", zap.Strings("careers", set.Names()))

	return set, nil
}

// Chat appends the question to the workspace session, streams the answer to w and records it.
// A failed stream still records the partial answer.
func (a *Advisor) Chat(ctx context.Context, ws history.Workspace, req ChatRequest, w io.Writer) (history.Workspace, string, error) {
	if strings.TrimSpace(ws.Key) == "" {
		return ws, "", ErrNoSubject
	}
	req.Resume = strings.TrimSpace(req.Resume)
	req.Question = strings.TrimSpace(req.Question)
	if err := a.validate.Struct(req); err != nil {
		return ws, "", fmt.Errorf("invalid chat request: %w", err)
	}

	system, err := conversation.SystemPrompt(req.Resume, ws.Key)
	if err != nil {
		return ws, "", err
	}

	if ws.Session == nil {
		ws.Session = conversation.New()
	}
	if ws.Kind == "" {
		ws.Kind = history.KindJob
	}

	ws.Session.AppendUserTurn(req.Question)

	fragments := a.streamer.Stream(ctx, system, ws.Session.ReplayContext())
	if w != nil {
		fragments = conversation.Echo(fragments, w)
	}

	answer, err := ws.Session.AppendAssistantTurnStreaming(ctx, fragments)
	a.store.Upsert(ws.Key, ws.Kind, ws.Session, ws.Artifact)
	if err != nil {
		a.logger.Warn("chat answer interrupted", zap.Int("answer_length", len(answer)), zap.Error(err))
		return ws, answer, err
	}

	return ws, answer, nil
}

// Switch stores the active workspace and activates the subject stored under key.
func (a *Advisor) Switch(ws history.Workspace, key string) history.Workspace {
	return a.store.SwitchTo(ws, key)
}
