package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	docs  []*schema.Document
	err   error
	calls int
	read  string
}

func (f *fakeParser) Parse(_ context.Context, reader io.Reader, _ ...einoParser.Option) ([]*schema.Document, error) {
	f.calls++
	data, _ := io.ReadAll(reader)
	f.read = string(data)
	return f.docs, f.err
}

func TestExtractPDF(t *testing.T) {
	p := &fakeParser{docs: []*schema.Document{{Content: "  Jane Doe\nGo developer  "}}}
	e := newExtractor(p)

	text, err := e.ExtractText(context.Background(), []byte("%PDF-1.4"), "resume.PDF")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "%PDF-1.4", p.read)
}

func TestExtractTextPassthrough(t *testing.T) {
	p := &fakeParser{}
	e := newExtractor(p)

	text, err := e.ExtractText(context.Background(), []byte("\nBackend role\n"), "job.txt")
	require.NoError(t, err)
	assert.Equal(t, "Backend role", text)
	assert.Zero(t, p.calls)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name   string
		parser *fakeParser
		data   string
		uri    string
		is     error
	}{
		{name: "parser failure", parser: &fakeParser{err: errors.New("corrupt xref")}, uri: "cv.pdf"},
		{name: "no documents", parser: &fakeParser{}, uri: "cv.pdf", is: ErrEmptyDocument},
		{name: "blank text", parser: &fakeParser{}, data: "   ", uri: "cv.txt", is: ErrEmptyDocument},
		{name: "unsupported", parser: &fakeParser{}, data: "x", uri: "cv.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newExtractor(tt.parser).ExtractText(context.Background(), []byte(tt.data), tt.uri)

			var extractionErr *ExtractionError
			require.True(t, errors.As(err, &extractionErr))
			assert.Equal(t, tt.uri, extractionErr.URI)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
