// Package extract pulls plain text out of resume and job description files.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/careeroai/careero/internal/logger"
)

const defaultTimeout = 30 * time.Second

// ErrEmptyDocument is returned when a document contains no text.
var ErrEmptyDocument = errors.New("document contains no text")

// ExtractionError wraps any failure to read text from a document.
type ExtractionError struct {
	URI string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.URI, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type documentParser interface {
	Parse(ctx context.Context, reader io.Reader, opts ...einoParser.Option) ([]*schema.Document, error)
}

// Extractor reads PDF files through the eino PDF parser and passes text files through.
type Extractor struct {
	pdf     documentParser
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*Extractor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an Extractor that reads whole PDFs as a single document.
func New(ctx context.Context, opts ...Option) (*Extractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser: %w", err)
	}
	return newExtractor(p, opts...), nil
}

func newExtractor(p documentParser, opts ...Option) *Extractor {
	e := &Extractor{pdf: p, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.WithFields(e.logger)
	return e
}

// ExtractText returns the text content of data. uri is used to pick the format by extension.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	var (
		text string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(uri)); ext {
	case ".pdf":
		text, err = e.extractPDF(ctx, data, uri)
	case ".txt", ".md", "":
		text = string(data)
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return "", &ExtractionError{URI: uri, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ExtractionError{URI: uri, Err: ErrEmptyDocument}
	}

	e.logger.Debug("document text extracted", zap.String("uri", uri), zap.Int("length", len(text)))
	return text, nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte, uri string) (string, error) {
	if e.pdf == nil {
		return "", errors.New("pdf parser is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	docs, err := e.pdf.Parse(ctx, bytes.NewReader(data), einoParser.WithURI(uri))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	if len(docs) == 0 {
		return "", ErrEmptyDocument
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		parts = append(parts, doc.Content)
	}

	e.logger.Debug("pdf parsed",
		zap.String("uri", uri),
		zap.Int("documents", len(docs)),
		zap.Duration("duration", time.Since(started)),
	)

	return strings.Join(parts, "\n"), nil
}
