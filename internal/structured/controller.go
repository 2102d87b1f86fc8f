package structured

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/ai"
	"github.com/careeroai/careero/internal/logger"
	"github.com/careeroai/careero/internal/prompt"
	"github.com/careeroai/careero/internal/schema"
	"github.com/careeroai/careero/internal/utils"
)

const (
	DefaultMaxAttempts  = 3
	defaultMaxLogLength = 200
)

// ErrRetryExhausted matches every *RetryExhaustedError.
var ErrRetryExhausted = errors.New("retry budget exhausted")

// RetryExhaustedError is returned when every attempt failed.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("structured generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// Controller runs one structured generation with a bounded number of sequential attempts.
type Controller struct {
	generator ai.Generator
	parser    *Parser

	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
	maxLogLen   int
}

type Option func(*Controller)

// WithMaxAttempts sets the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryDelay waits d between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func WithMaxLogLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxLogLen = n
		}
	}
}

func NewController(generator ai.Generator, opts ...Option) *Controller {
	c := &Controller{
		generator:   generator,
		parser:      NewParser(),
		maxAttempts: DefaultMaxAttempts,
		maxLogLen:   defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(c)
	}

	if named, ok := generator.(interface {
		Provider() string
		Model() string
	}); ok {
		c.logger = logger.WithCommonFields(c.logger, named.Provider(), named.Model())
	} else {
		c.logger = logger.WithFields(c.logger)
	}

	return c
}

// Generate builds the instruction once and asks the model until the response validates
// against spec or the attempt budget runs out.
func (c *Controller) Generate(ctx context.Context, tmpl prompt.Template, vars map[string]string, spec *schema.Spec) (*Artifact, error) {
	if c == nil || c.generator == nil {
		return nil, errors.New("structured controller is not initialized")
	}
	if spec == nil {
		return nil, errors.New("structured generation: schema is required")
	}

	instruction, err := prompt.Build(tmpl, vars, spec)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(c.logger, logger.RequestFields(uuid.NewString(), spec.Name)...)
	log.Debug("structured generation prompt",
		zap.Int("prompt_length", utf8.RuneCountInString(instruction)),
		zap.String("prompt_preview", utils.TruncateForLog(instruction, c.maxLogLen)),
	)

	var last error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := utils.WaitFor(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptLog := log.With(zap.Int("attempt", attempt), zap.Int("max_attempts", c.maxAttempts))

		raw, err := c.generator.Complete(ctx, instruction, nil)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			attemptLog.Warn("model call failed", zap.Error(err))
			last = err
			continue
		}

		artifact, err := c.parser.Parse(raw, spec)
		if err != nil {
			var violation *SchemaViolation
			if !errors.As(err, &violation) {
				return nil, err
			}
			attemptLog.Warn("response rejected",
				zap.Int("violations", len(violation.Errors)),
				zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
				zap.Error(err),
			)
			last = err
			continue
		}

		attemptLog.Info("structured response accepted")
		return artifact, nil
	}

	log.Error("structured generation exhausted", zap.Int("attempts", c.maxAttempts), zap.Error(last))
	return nil, &RetryExhaustedError{Attempts: c.maxAttempts, Last: last}
}
