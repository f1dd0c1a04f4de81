// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/markconv/pkg/types"
)

// NamedRequest is a request labelled for batch status output, usually with
// the input file name.
type NamedRequest struct {
	Name    string
	Request types.ConversionRequest
}

// BatchItem is the result of one request in a batch.
type BatchItem struct {
	Name    string
	Request types.ConversionRequest
	Outcome types.Outcome
	Err     error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
	Items     []BatchItem
}

// Total returns the number of requests processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any request failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch runs each request through the engine in order, printing a
// per-request status line to w followed by a summary.
func (e *Engine) ConvertBatch(ctx context.Context, reqs []NamedRequest, w io.Writer) BatchResult {
	inputs := make([]batchInput, len(reqs))
	for i, nr := range reqs {
		inputs[i] = batchInput{NamedRequest: nr}
	}
	return e.runBatch(ctx, inputs, w)
}

// ConvertPaths reads each input file and converts it with the shared
// settings in tmpl. Unreadable files count as failures.
func (e *Engine) ConvertPaths(ctx context.Context, paths []string, tmpl types.ConversionRequest, w io.Writer) BatchResult {
	inputs := make([]batchInput, len(paths))
	for i, p := range paths {
		in := batchInput{NamedRequest: NamedRequest{Name: filepath.Base(p), Request: tmpl}}
		data, err := os.ReadFile(p)
		if err != nil {
			in.readErr = types.WrapError(types.ErrIO, err, "reading %s", p)
		} else {
			in.Request.Content = string(data)
		}
		inputs[i] = in
	}
	return e.runBatch(ctx, inputs, w)
}

type batchInput struct {
	NamedRequest
	readErr error
}

func (e *Engine) runBatch(ctx context.Context, inputs []batchInput, w io.Writer) BatchResult {
	var result BatchResult
	for _, in := range inputs {
		var (
			out types.Outcome
			err = in.readErr
		)
		if err == nil {
			err = ctx.Err()
		}
		if err == nil {
			out, err = e.Convert(ctx, in.Request)
		}

		result.Items = append(result.Items, BatchItem{Name: in.Name, Request: in.Request, Outcome: out, Err: err})
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%s)\n", in.Name, Reason(err))
			continue
		}
		result.Converted++
		fmt.Fprintf(w, "converted: %s -> %s\n", in.Name, describe(out))
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}

// describe returns the short form of an outcome for status lines.
func describe(out types.Outcome) string {
	if out.PublicPath != "" {
		return out.PublicPath
	}
	n := len([]rune(out.Text))
	first, _, _ := strings.Cut(strings.TrimSpace(out.Text), "\n")
	if len(first) > 40 {
		first = first[:40] + "..."
	}
	return fmt.Sprintf("%d chars of %s text (%q)", n, out.Format, first)
}
