// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markconv/pkg/types"
)

// These tests drive the production wiring and need pandoc on PATH.

func newPandocEngine(t *testing.T) (*Engine, Components, string) {
	t.Helper()
	if _, err := exec.LookPath("pandoc"); err != nil {
		t.Skip("pandoc not installed")
	}
	dir := filepath.Join(t.TempDir(), "downloads")
	cfg := types.DefaultEngineConfig()
	cfg.DownloadsDir = dir
	e, c := NewFromConfig(cfg, nil)
	return e, c, dir
}

var artifactName = regexp.MustCompile(`^/downloads/\d+-[0-9a-z]{13}\.docx$`)

func TestIntegration_MarkdownToDOCX(t *testing.T) {
	e, c, dir := newPandocEngine(t)
	ctx := context.Background()

	out, err := e.Convert(ctx, types.ConversionRequest{
		Content:      "# Test Document\n\nThis is a test.",
		SourceFormat: types.FormatMarkdown,
		TargetKind:   types.TargetDOCX,
	})
	require.NoError(t, err)
	assert.Regexp(t, artifactName, out.PublicPath)
	assert.Equal(t, dir, filepath.Dir(out.ArtifactPath))

	text, err := c.Extractor.ExtractPlainText(ctx, out.ArtifactPath)
	require.NoError(t, err)
	assert.Contains(t, text.Text, "Test Document")
	assert.Contains(t, text.Text, "This is a test.")
}

func TestIntegration_PlainTextLeavesNoFiles(t *testing.T) {
	e, _, dir := newPandocEngine(t)

	out, err := e.Convert(context.Background(), types.ConversionRequest{
		Content:      "Hello **world**",
		SourceFormat: types.FormatMarkdown,
		TargetKind:   types.TargetPlain,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Hello")
	assert.Contains(t, out.Text, "world")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "intermediate docx must be removed")
}

func TestIntegration_ImagePreviewLaTeX(t *testing.T) {
	e, _, _ := newPandocEngine(t)

	out, err := e.Convert(context.Background(), types.ConversionRequest{
		Content:         "# Title",
		SourceFormat:    types.FormatMarkdown,
		TargetKind:      types.TargetImage,
		TargetSubFormat: types.SubLaTeX,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Text, `\section`)
	assert.Contains(t, out.Text, "Title")
}

func TestIntegration_ProbeReportsBoth(t *testing.T) {
	_, c, _ := newPandocEngine(t)

	avail := c.Prober.Probe(context.Background())
	assert.True(t, avail.InProcess)
	assert.True(t, avail.ExternalTool)
}
