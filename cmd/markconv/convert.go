// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markconv/internal/engine"
	"github.com/pdiddy/markconv/internal/history"
	"github.com/pdiddy/markconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert documents to docx, html, latex, pdf, plain text, or image-preview text",
	Long: `Convert transforms documents from one markup format to another. With no
file arguments the document is read from stdin. Several files are converted
as a batch with one status line per file and a summary.

File targets (docx, html, latex, pdf) print the public path of the written
deliverable. Text targets (plain, image) print the converted text. The image
target builds the text a client renders into a picture; --sub-format picks
markdown (default), latex, or docx.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("from", string(types.FormatMarkdown), "source format: markdown, html, latex, docx")
	convertCmd.Flags().String("to", string(types.TargetDOCX), "target kind: docx, html, latex, pdf, plain, image")
	convertCmd.Flags().String("sub-format", "", "image preview sub-format: markdown, latex, docx")
	convertCmd.Flags().StringArray("pandoc-arg", nil, "extra argument passed to pandoc (repeatable)")
	convertCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	tmpl, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, _ := engine.NewFromConfig(cfg, logger)
	store := openHistory()
	if store != nil {
		defer store.Close()
	}
	ctx := cmd.Context()

	if len(args) == 0 {
		if cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Reading document from stdin (Ctrl-D to finish)")
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		tmpl.Content = string(data)

		out, err := eng.Convert(ctx, tmpl)
		if err != nil {
			return err
		}
		recordConversion(ctx, store, tmpl, out)
		return printOutcome(cmd.OutOrStdout(), out, jsonOutput)
	}

	status := cmd.OutOrStdout()
	if jsonOutput {
		status = cmd.ErrOrStderr()
	}
	result := eng.ConvertPaths(ctx, args, tmpl, status)
	for _, item := range result.Items {
		if item.Err == nil {
			recordConversion(ctx, store, item.Request, item.Outcome)
		}
	}
	if jsonOutput {
		if err := printBatchJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func requestFromFlags(cmd *cobra.Command) (types.ConversionRequest, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sub, _ := cmd.Flags().GetString("sub-format")
	extra, _ := cmd.Flags().GetStringArray("pandoc-arg")

	source, err := types.ParseSourceFormat(from)
	if err != nil {
		return types.ConversionRequest{}, err
	}
	kind, err := types.ParseTargetKind(to)
	if err != nil {
		return types.ConversionRequest{}, err
	}
	return types.ConversionRequest{
		SourceFormat:    source,
		TargetKind:      kind,
		TargetSubFormat: types.SubFormat(sub),
		ExtraArgs:       extra,
	}, nil
}

// printOutcome writes a single result: the public path for files, the text
// otherwise.
func printOutcome(w io.Writer, out types.Outcome, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if out.IsFile() {
		_, err := fmt.Fprintln(w, out.PublicPath)
		return err
	}
	_, err := fmt.Fprint(w, out.Text)
	return err
}

type batchItemJSON struct {
	Name    string         `json:"name"`
	Outcome *types.Outcome `json:"outcome,omitempty"`
	Kind    string         `json:"error_kind,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func printBatchJSON(w io.Writer, result engine.BatchResult) error {
	items := make([]batchItemJSON, len(result.Items))
	for i, it := range result.Items {
		items[i] = batchItemJSON{Name: it.Name}
		if it.Err != nil {
			items[i].Kind = string(types.KindOf(it.Err))
			items[i].Error = engine.Reason(it.Err)
			continue
		}
		out := it.Outcome
		items[i].Outcome = &out
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// openHistory opens the configured history store. It returns nil when
// history is disabled or cannot be opened; conversions proceed either way.
func openHistory() *history.Store {
	if cfg.HistoryDB == "" {
		return nil
	}
	store, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		logger.WithError(err).WithField("history_db", cfg.HistoryDB).Warn("conversion history unavailable")
		return nil
	}
	return store
}

// recordConversion stores a successful conversion. Failures are logged only.
func recordConversion(ctx context.Context, store *history.Store, req types.ConversionRequest, out types.Outcome) {
	if store == nil {
		return
	}
	_, err := store.Record(ctx, types.HistoryEntry{
		SourceFormat: req.SourceFormat,
		TargetKind:   req.TargetKind,
		Input:        req.Content,
		Output:       out.Text,
		OutputFile:   out.PublicPath,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to record conversion history")
	}
}

// stdinIsTerminal reports whether stdin is interactive, in which case
// convert without files would block waiting for input.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
