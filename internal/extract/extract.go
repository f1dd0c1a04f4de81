// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives plain text from produced artifacts and implements
// the compound conversions that go through an intermediate document: plain
// text via DOCX, and image-preview text via DOCX or LaTeX.
package extract

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/pkg/types"
)

// Backend produces intermediate documents.
type Backend interface {
	Convert(ctx context.Context, content string, from, to types.Format, extra []string) (types.Outcome, error)
}

// Tool extracts text from a docx file. Extraction is file-based, so only the
// external toolchain can do it.
type Tool interface {
	Available(ctx context.Context) bool
	ExtractPlain(ctx context.Context, path string) (string, error)
}

// Extractor runs extraction and the two-step conversions built on it.
type Extractor struct {
	backend Backend
	tool    Tool
	log     logrus.FieldLogger
}

// New creates an Extractor.
func New(backend Backend, tool Tool, log logrus.FieldLogger) *Extractor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Extractor{backend: backend, tool: tool, log: log}
}

// ExtractPlainText returns the plain-text content of the docx artifact at
// path.
func (e *Extractor) ExtractPlainText(ctx context.Context, path string) (types.Outcome, error) {
	if !e.tool.Available(ctx) {
		return types.Outcome{}, types.NewError(types.ErrBackendUnavailable,
			"text extraction requires the external tool, which is not installed or not working")
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return types.Outcome{}, types.NewError(types.ErrArtifactNotFound, "file does not exist: %s", path)
		}
		return types.Outcome{}, types.WrapError(types.ErrIO, err, "checking %s", path)
	}

	e.log.WithField("artifact", path).Debug("extracting plain text")
	text, err := e.tool.ExtractPlain(ctx, path)
	if err != nil {
		return types.Outcome{}, types.WrapError(types.ErrExtractionFailed, err, "extracting text from %s", path)
	}
	return types.Outcome{Text: text, Format: string(types.FormatPlain)}, nil
}

// ConvertToPlainText converts content to DOCX, extracts the DOCX text, and
// removes the intermediate file.
func (e *Extractor) ConvertToPlainText(ctx context.Context, content string, from types.Format, extra []string) (types.Outcome, error) {
	path, err := e.intermediate(ctx, content, from, types.FormatDOCX, extra)
	if err != nil {
		return types.Outcome{}, err
	}
	defer e.cleanup(path)

	return e.ExtractPlainText(ctx, path)
}

// ConvertForImagePreview builds the text a client renders into an image.
// SubMarkdown (the default) returns content unchanged without touching any
// backend; SubDOCX returns the text extracted from a generated DOCX; SubLaTeX
// returns the raw generated LaTeX source.
func (e *Extractor) ConvertForImagePreview(ctx context.Context, content string, from types.Format, sub types.SubFormat) (types.Outcome, error) {
	sub = sub.OrDefault()

	switch sub {
	case types.SubMarkdown:
		return types.Outcome{Text: content, Format: string(sub)}, nil

	case types.SubDOCX:
		path, err := e.intermediate(ctx, content, from, types.FormatDOCX, nil)
		if err != nil {
			return types.Outcome{}, err
		}
		defer e.cleanup(path)

		out, err := e.ExtractPlainText(ctx, path)
		if err != nil {
			return types.Outcome{}, err
		}
		out.Format = string(sub)
		return out, nil

	case types.SubLaTeX:
		path, err := e.intermediate(ctx, content, from, types.FormatLaTeX, nil)
		if err != nil {
			return types.Outcome{}, err
		}
		defer e.cleanup(path)

		data, err := os.ReadFile(path)
		if err != nil {
			return types.Outcome{}, types.WrapError(types.ErrIO, err, "reading generated LaTeX %s", path)
		}
		return types.Outcome{Text: string(data), Format: string(sub)}, nil
	}

	return types.Outcome{}, types.NewError(types.ErrUnsupportedFormat, "unsupported preview sub-format %q", sub)
}

// intermediate converts content to a file-kind format and returns the
// artifact path. Failures keep their kind and gain context.
func (e *Extractor) intermediate(ctx context.Context, content string, from, to types.Format, extra []string) (string, error) {
	out, err := e.backend.Convert(ctx, content, from, to, extra)
	if err != nil {
		kind := types.KindOf(err)
		if kind == "" {
			kind = types.ErrConversionFailed
		}
		return "", types.WrapError(kind, err, "failed to produce intermediate %s document", to)
	}
	if !out.IsFile() {
		return "", types.NewError(types.ErrArtifactNotFound, "intermediate %s conversion produced no file", to)
	}
	return out.ArtifactPath, nil
}

// cleanup removes an intermediate artifact. Failure is logged and otherwise
// ignored.
func (e *Extractor) cleanup(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.log.WithError(err).WithField("artifact", path).Warn("failed to remove intermediate file")
	}
}
