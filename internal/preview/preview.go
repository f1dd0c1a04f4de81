// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview resolves caller-facing deliverable references back to files
// under the public root and renders a bounded text preview of them.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/pkg/types"
)

const (
	// MaxChars is the preview length limit in characters.
	MaxChars = 50000

	// TruncationNotice is appended to truncated previews.
	TruncationNotice = "\n\n... (content truncated, download the file for the full text)"

	// EmptyDocumentNotice replaces the text of a docx deliverable with no
	// extractable content.
	EmptyDocumentNotice = "The DOCX document is empty or could not be parsed. Download the file to view it."
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Extractor extracts plain text from docx files.
type Extractor interface {
	ExtractPlainText(ctx context.Context, path string) (types.Outcome, error)
}

// Previewer renders deliverables found under a public root.
type Previewer struct {
	root      string
	extractor Extractor
	log       logrus.FieldLogger
}

// New creates a Previewer for files under root.
func New(root string, extractor Extractor, log logrus.FieldLogger) (*Previewer, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving public root %s: %w", root, err)
	}
	return &Previewer{root: abs, extractor: extractor, log: log}, nil
}

// Resolve maps ref to an existing file under the public root. ref may be a
// public path (/downloads/x.docx), a name relative to the root, or an
// http(s) URL whose path is a public path.
func (p *Previewer) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", types.NewError(types.ErrInvalidRequest, "missing file reference")
	}

	rel := ref
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", types.WrapError(types.ErrInvalidRequest, err, "invalid file URL %q", ref)
		}
		rel = u.Path
	}
	rel = strings.TrimPrefix(rel, "/")

	full := filepath.Join(p.root, filepath.FromSlash(rel))
	if full != p.root && !strings.HasPrefix(full, p.root+string(filepath.Separator)) {
		return "", types.NewError(types.ErrInvalidRequest, "reference %q escapes the public directory", ref)
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", types.NewError(types.ErrArtifactNotFound, "file does not exist: %s", full)
		}
		return "", types.WrapError(types.ErrIO, err, "checking %s", full)
	}
	if info.IsDir() {
		return "", types.NewError(types.ErrInvalidRequest, "reference %q is a directory", ref)
	}
	return full, nil
}

// Preview returns the preview text of the deliverable at ref. kind names the
// file's format (html, latex, docx, pdf, or anything readable as text).
func (p *Previewer) Preview(ctx context.Context, ref, kind string) (string, error) {
	if kind == "" {
		return "", types.NewError(types.ErrInvalidRequest, "missing file type")
	}
	path, err := p.Resolve(ref)
	if err != nil {
		return "", err
	}
	p.log.WithFields(logrus.Fields{"ref": ref, "path": path, "type": kind}).Debug("previewing deliverable")

	var content string
	switch types.Format(kind) {
	case types.FormatDOCX:
		content, err = p.docx(ctx, path)
	case types.FormatPDF:
		content, err = pdfSummary(path)
	default:
		content, err = readText(path)
	}
	if err != nil {
		return "", err
	}
	return Truncate(content, MaxChars), nil
}

func (p *Previewer) docx(ctx context.Context, path string) (string, error) {
	out, err := p.extractor.ExtractPlainText(ctx, path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(out.Text, "\r\n", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDocumentNotice, nil
	}
	return text, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.WrapError(types.ErrIO, err, "reading %s", path)
	}
	return string(data), nil
}

// pdfSummary describes a PDF deliverable instead of rendering it.
func pdfSummary(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.WrapError(types.ErrIO, err, "reading %s", path)
	}

	var b strings.Builder
	size := float64(len(data))
	fmt.Fprintf(&b, "PDF document generated\n\n")
	fmt.Fprintf(&b, "Size: %.2f KB (%.2f MB)\n", size/1024, size/(1024*1024))

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		b.WriteString("Format: missing %PDF header, the file may be damaged\n")
	} else if pages, err := pageCount(data); err != nil {
		fmt.Fprintf(&b, "Format: %%PDF header present, validation failed (%v)\n", err)
	} else {
		b.WriteString("Format: valid PDF\n")
		fmt.Fprintf(&b, "Pages: %d\n", pages)
	}

	b.WriteString("\nPDF content cannot be shown inline. Download the file and open it in a PDF reader.")
	return b.String(), nil
}

func pageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// Truncate bounds s to limit characters. When the last newline inside the
// cut lies beyond 80% of the limit the cut moves back to it. The truncation
// notice is appended to any shortened text.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := string(r[:limit])
	if i := strings.LastIndex(cut, "\n"); i >= 0 && len([]rune(cut[:i])) > limit*8/10 {
		cut = cut[:i]
	}
	return cut + TruncationNotice
}
