// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the public entry point of the conversion engine. It
// validates requests, routes them by target kind, and normalizes file,
// text, and image-preview results into one Outcome contract.
package engine

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/internal/backend"
	"github.com/pdiddy/markconv/internal/extract"
	"github.com/pdiddy/markconv/internal/native"
	"github.com/pdiddy/markconv/internal/pandoc"
	"github.com/pdiddy/markconv/internal/probe"
	"github.com/pdiddy/markconv/pkg/types"
)

// Backend performs single-step conversions.
type Backend interface {
	Convert(ctx context.Context, content string, from, to types.Format, extra []string) (types.Outcome, error)
}

// Extractor performs the compound conversions.
type Extractor interface {
	ConvertToPlainText(ctx context.Context, content string, from types.Format, extra []string) (types.Outcome, error)
	ConvertForImagePreview(ctx context.Context, content string, from types.Format, sub types.SubFormat) (types.Outcome, error)
}

// Engine is the conversion orchestrator. It holds only its collaborators and
// is safe for concurrent use.
type Engine struct {
	backend      Backend
	extractor    Extractor
	publicPrefix string
	log          logrus.FieldLogger
}

// New wires an Engine from explicit collaborators.
func New(b Backend, x Extractor, publicPrefix string, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if publicPrefix == "" {
		publicPrefix = types.DefaultPublicPrefix
	}
	return &Engine{
		backend:      b,
		extractor:    x,
		publicPrefix: publicPrefix,
		log:          log,
	}
}

// Components groups the production collaborators built by NewFromConfig so
// callers (the CLI) can reuse them.
type Components struct {
	Tool      *pandoc.Tool
	Binding   *native.Library
	Prober    *probe.Prober
	Backend   *backend.Converter
	Extractor *extract.Extractor
}

// NewFromConfig builds the production engine: the pure-Go library binding as
// the in-process strategy and the configured pandoc binary as fallback.
func NewFromConfig(cfg types.EngineConfig, log logrus.FieldLogger) (*Engine, Components) {
	cfg = cfg.WithDefaults()

	c := Components{
		Tool:    pandoc.New(cfg, log),
		Binding: native.NewLibrary(),
	}
	c.Prober = probe.New(c.Binding, c.Tool, log)
	c.Backend = backend.New(cfg.DownloadsDir, c.Prober, c.Binding, c.Tool, log)
	c.Extractor = extract.New(c.Backend, c.Tool, log)

	return New(c.Backend, c.Extractor, cfg.PublicPrefix, log), c
}

// Validate checks req against the supported enumerations. It performs no I/O.
func Validate(req types.ConversionRequest) error {
	if !req.SourceFormat.IsSource() {
		return types.NewError(types.ErrInvalidRequest, "invalid source format %q", req.SourceFormat)
	}
	if !req.TargetKind.Valid() {
		return types.NewError(types.ErrInvalidRequest, "invalid target kind %q", req.TargetKind)
	}
	if req.TargetKind == types.TargetImage && !req.TargetSubFormat.Valid() {
		return types.NewError(types.ErrInvalidRequest, "invalid image sub-format %q", req.TargetSubFormat)
	}
	return nil
}

// Convert runs one request. Any failure is returned as a
// *types.ConversionError; Convert never panics past its boundary.
func (e *Engine) Convert(ctx context.Context, req types.ConversionRequest) (out types.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Error("conversion panicked")
			out, err = types.Outcome{}, types.NewError(types.ErrConversionFailed, "internal error: %v", r)
		}
	}()

	if err := Validate(req); err != nil {
		return types.Outcome{}, err
	}

	log := e.log.WithFields(logrus.Fields{"from": req.SourceFormat, "to": req.TargetKind})
	log.Debug("conversion request validated")

	switch {
	case req.TargetKind == types.TargetImage:
		return e.ensureStructured(e.extractor.ConvertForImagePreview(ctx, req.Content, req.SourceFormat, req.TargetSubFormat))

	case req.TargetKind == types.TargetPlain:
		return e.ensureStructured(e.extractor.ConvertToPlainText(ctx, req.Content, req.SourceFormat, req.ExtraArgs))

	case req.TargetKind.IsFile():
		res, err := e.backend.Convert(ctx, req.Content, req.SourceFormat, req.TargetKind.Format(), req.ExtraArgs)
		if err != nil {
			return e.ensureStructured(res, err)
		}
		if !res.IsFile() {
			return types.Outcome{}, types.NewError(types.ErrArtifactNotFound, "%s conversion produced no file", req.TargetKind)
		}
		res.PublicPath = e.PublicPath(res.ArtifactPath)
		return res, nil
	}

	return types.Outcome{}, types.NewError(types.ErrUnsupportedOutputKind, "unsupported output kind %q", req.TargetKind)
}

// PublicPath maps a server-internal artifact path to the caller-facing
// reference: only the file name is kept, under the public prefix.
func (e *Engine) PublicPath(artifact string) string {
	return path.Join(e.publicPrefix, filepath.Base(artifact))
}

// ensureStructured guarantees err is a *types.ConversionError.
func (e *Engine) ensureStructured(out types.Outcome, err error) (types.Outcome, error) {
	if err == nil {
		return out, nil
	}
	if types.KindOf(err) == "" {
		return types.Outcome{}, types.WrapError(types.ErrConversionFailed, err, "conversion failed")
	}
	return types.Outcome{}, err
}

// Reason returns the human-readable failure reason for err with the kind
// prefix removed.
func Reason(err error) string {
	msg := err.Error()
	if kind := types.KindOf(err); kind != "" {
		msg = strings.TrimPrefix(msg, string(kind)+": ")
	}
	return msg
}
