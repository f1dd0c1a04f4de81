// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package probe determines which conversion strategies are usable in the
// current process environment. Results are never cached; each top-level
// conversion probes again.
package probe

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/internal/native"
	"github.com/pdiddy/markconv/pkg/types"
)

const canaryContent = "# Test"

// ExternalTool is the part of the toolchain adapter the prober needs.
type ExternalTool interface {
	Available(ctx context.Context) bool
}

// Prober checks both strategies on demand.
type Prober struct {
	binding native.Binding
	tool    ExternalTool
	log     logrus.FieldLogger
}

// New creates a Prober. Either strategy may be nil, in which case it is
// reported unusable.
func New(binding native.Binding, tool ExternalTool, log logrus.FieldLogger) *Prober {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Prober{binding: binding, tool: tool, log: log}
}

// Probe runs both checks in order and returns the combined result.
func (p *Prober) Probe(ctx context.Context) types.BackendAvailability {
	a := types.BackendAvailability{
		InProcess:    p.ProbeInProcess(ctx),
		ExternalTool: p.ProbeExternalTool(ctx),
	}
	p.log.WithFields(logrus.Fields{
		"in_process":    a.InProcess,
		"external_tool": a.ExternalTool,
	}).Debug("backend availability")
	return a
}

// ProbeInProcess runs a canary markdown-to-HTML conversion through the
// binding. It reports true only when the call returns a non-empty string
// without error. A panicking binding counts as unusable.
func (p *Prober) ProbeInProcess(ctx context.Context) (ok bool) {
	if p.binding == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("panic", fmt.Sprint(r)).Warn("in-process canary panicked")
			ok = false
		}
	}()

	out, err := p.binding.Run(ctx, canaryContent, native.Args{
		From: types.FormatMarkdown,
		To:   types.FormatHTML,
	})
	if err != nil {
		p.log.WithError(err).Debug("in-process canary failed")
		return false
	}
	return out != ""
}

// ProbeExternalTool reports whether the toolchain's version command succeeds.
func (p *Prober) ProbeExternalTool(ctx context.Context) bool {
	if p.tool == nil {
		return false
	}
	return p.tool.Available(ctx)
}
