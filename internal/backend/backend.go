// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend executes format conversions over two interchangeable
// strategies: the in-process binding first, then the external toolchain. A
// single strategy failing only triggers the fallback; callers see an error
// when every usable strategy has failed.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/internal/native"
	"github.com/pdiddy/markconv/internal/scratch"
	"github.com/pdiddy/markconv/pkg/types"
)

// Prober reports which strategies are usable right now.
type Prober interface {
	Probe(ctx context.Context) types.BackendAvailability
}

// ExternalTool is the subprocess strategy.
type ExternalTool interface {
	Name() string
	ConvertFile(ctx context.Context, input string, from, to types.Format, output string, extra []string) error
	ConvertText(ctx context.Context, input string, from, to types.Format, extra []string) (string, error)
}

// Converter runs conversions with ordered fallback. It keeps no state between
// calls and may be shared by concurrent requests.
type Converter struct {
	prober  Prober
	binding native.Binding
	tool    ExternalTool
	outDir  string
	log     logrus.FieldLogger
}

// New creates a Converter that writes file deliverables to outDir.
func New(outDir string, prober Prober, binding native.Binding, tool ExternalTool, log logrus.FieldLogger) *Converter {
	if abs, err := filepath.Abs(outDir); err == nil {
		outDir = abs
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Converter{
		prober:  prober,
		binding: binding,
		tool:    tool,
		outDir:  outDir,
		log:     log,
	}
}

// OutputDir returns the absolute directory deliverables are written to.
func (c *Converter) OutputDir() string { return c.outDir }

// Convert transforms content from one format to another. File-kind targets
// (docx, html, latex, pdf) yield an Outcome with ArtifactPath set; any other
// target yields Text.
//
// The error is always a *types.ConversionError: ErrBackendUnavailable when
// neither strategy is usable, ErrConversionFailed when every usable strategy
// failed.
func (c *Converter) Convert(ctx context.Context, content string, from, to types.Format, extra []string) (types.Outcome, error) {
	log := c.log.WithFields(logrus.Fields{"from": from, "to": to})

	avail := c.prober.Probe(ctx)
	if !avail.Any() {
		return types.Outcome{}, types.NewError(types.ErrBackendUnavailable,
			"no backend available: in-process binding and external tool are both unusable")
	}

	var errs []error

	if avail.InProcess {
		log.Debug("attempting in-process conversion")
		out, err := c.convertInProcess(ctx, content, from, to, extra)
		if err == nil {
			log.WithField("strategy", c.binding.Name()).Debug("conversion succeeded")
			return out, nil
		}
		if errors.Is(err, native.ErrUnsupported) {
			log.WithError(err).Debug("in-process binding declined conversion")
		} else {
			log.WithError(err).Warn("in-process conversion failed")
		}
		errs = append(errs, fmt.Errorf("in-process %s: %w", c.binding.Name(), err))
	}

	if avail.ExternalTool {
		log.Debug("attempting external tool conversion")
		out, err := c.convertExternal(ctx, content, from, to, extra)
		if err == nil {
			log.WithField("strategy", c.tool.Name()).Debug("conversion succeeded")
			return out, nil
		}
		log.WithError(err).Warn("external tool conversion failed")
		errs = append(errs, fmt.Errorf("external %s: %w", c.tool.Name(), err))
	}

	return types.Outcome{}, types.WrapError(types.ErrConversionFailed, errors.Join(errs...),
		"converting %s to %s", from, to)
}

func (c *Converter) convertInProcess(ctx context.Context, content string, from, to types.Format, extra []string) (out types.Outcome, err error) {
	var path string
	defer func() {
		if r := recover(); r != nil {
			if path != "" {
				c.discard(path)
			}
			out, err = types.Outcome{}, fmt.Errorf("binding panicked: %v", r)
		}
	}()

	args := native.Args{From: from, To: to, Extra: extra}

	if !to.IsFileOutput() {
		text, err := c.binding.Run(ctx, content, args)
		if err != nil {
			return types.Outcome{}, err
		}
		return types.Outcome{Text: text, Format: string(to)}, nil
	}

	path, err = c.newArtifactPath(to)
	if err != nil {
		return types.Outcome{}, err
	}
	args.Output = path
	if _, err := c.binding.Run(ctx, content, args); err != nil {
		c.discard(path)
		return types.Outcome{}, err
	}
	return types.Outcome{ArtifactPath: path, Format: string(to)}, nil
}

func (c *Converter) convertExternal(ctx context.Context, content string, from, to types.Format, extra []string) (types.Outcome, error) {
	var out types.Outcome

	err := scratch.WithFile(from.Extension(), content, func(input string) error {
		if !to.IsFileOutput() {
			text, err := c.tool.ConvertText(ctx, input, from, to, extra)
			if err != nil {
				return err
			}
			out = types.Outcome{Text: text, Format: string(to)}
			return nil
		}

		path, err := c.newArtifactPath(to)
		if err != nil {
			return err
		}
		if err := c.tool.ConvertFile(ctx, input, from, to, path, extra); err != nil {
			c.discard(path)
			return err
		}
		out = types.Outcome{ArtifactPath: path, Format: string(to)}
		return nil
	})
	return out, err
}

// newArtifactPath ensures the output directory exists and returns a fresh
// deliverable path in it.
func (c *Converter) newArtifactPath(to types.Format) (string, error) {
	if err := scratch.EnsureDir(c.outDir); err != nil {
		return "", err
	}
	return filepath.Join(c.outDir, scratch.UniqueName(to.Extension())), nil
}

// discard removes a partially written artifact after a failed attempt.
func (c *Converter) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.WithError(err).WithField("artifact", path).Warn("removing partial artifact")
	}
}
