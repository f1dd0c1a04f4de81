// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package native implements the in-process conversion strategy with pure-Go
// libraries. It covers the markdown and HTML pairs those libraries handle;
// every other pair reports ErrUnsupported so the caller can fall back to the
// external toolchain.
package native

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/markconv/pkg/types"
)

// ErrUnsupported is returned for format pairs or options this binding cannot
// handle.
var ErrUnsupported = errors.New("conversion not supported in-process")

// Args describes one binding invocation.
type Args struct {
	From types.Format
	To   types.Format

	// Output, when set, receives the result and Run returns "".
	Output string

	// Extra holds toolchain-specific options.
	Extra []string
}

// Binding is an in-process conversion strategy.
type Binding interface {
	// Name identifies the binding in logs.
	Name() string

	// Run converts content according to args.
	Run(ctx context.Context, content string, args Args) (string, error)
}

// Library is the Binding backed by goldmark, html-to-markdown, bluemonday,
// and goquery. The zero value is not usable; call NewLibrary.
type Library struct {
	md        goldmark.Markdown
	htmlToMD  *converter.Converter
	sanitizer *bluemonday.Policy
}

// NewLibrary builds a Library with GFM markdown rendering and a UGC
// sanitizing policy for HTML input. It is safe for concurrent use.
func NewLibrary() *Library {
	return &Library{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		htmlToMD: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (l *Library) Name() string { return "native" }

// Supports reports whether the pair can be converted in-process.
func (l *Library) Supports(from, to types.Format) bool {
	switch from {
	case types.FormatMarkdown:
		return to == types.FormatHTML || to == types.FormatPlain || to == types.FormatMarkdown
	case types.FormatHTML:
		return to == types.FormatMarkdown || to == types.FormatPlain || to == types.FormatHTML
	}
	return false
}

func (l *Library) Run(ctx context.Context, content string, args Args) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(args.Extra) > 0 {
		return "", fmt.Errorf("extra arguments %v: %w", args.Extra, ErrUnsupported)
	}
	if !l.Supports(args.From, args.To) {
		return "", fmt.Errorf("%s to %s: %w", args.From, args.To, ErrUnsupported)
	}

	out, err := l.convert(content, args.From, args.To)
	if err != nil {
		return "", err
	}

	if args.Output == "" {
		return out, nil
	}
	if err := os.WriteFile(args.Output, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", args.Output, err)
	}
	return "", nil
}

func (l *Library) convert(content string, from, to types.Format) (string, error) {
	switch {
	case from == types.FormatMarkdown && to == types.FormatMarkdown:
		return content, nil
	case from == types.FormatMarkdown && to == types.FormatHTML:
		return l.renderMarkdown(content)
	case from == types.FormatMarkdown && to == types.FormatPlain:
		html, err := l.renderMarkdown(content)
		if err != nil {
			return "", err
		}
		return htmlText(html)
	case from == types.FormatHTML && to == types.FormatHTML:
		return l.sanitizer.Sanitize(content), nil
	case from == types.FormatHTML && to == types.FormatMarkdown:
		md, err := l.htmlToMD.ConvertString(l.sanitizer.Sanitize(content))
		if err != nil {
			return "", fmt.Errorf("converting HTML to markdown: %w", err)
		}
		return md, nil
	case from == types.FormatHTML && to == types.FormatPlain:
		return htmlText(l.sanitizer.Sanitize(content))
	}
	return "", fmt.Errorf("%s to %s: %w", from, to, ErrUnsupported)
}

func (l *Library) renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := l.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// blockTags get a paragraph break after them so block structure survives
// text extraction.
var blockTags = "p, h1, h2, h3, h4, h5, h6, li, pre, blockquote, tr, div"

// htmlText returns the visible text of an HTML fragment, one block per
// paragraph.
func htmlText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n\n")
	})

	text := strings.ReplaceAll(doc.Text(), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text) + "\n", nil
}
