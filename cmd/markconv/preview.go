// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markconv/internal/engine"
	"github.com/pdiddy/markconv/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview <ref>",
	Short: "Print a text preview of a deliverable",
	Long: `Preview resolves a deliverable reference (/downloads/name.ext, a name
relative to the public root, or a full URL) and prints a bounded text
preview. HTML and LaTeX print their source, DOCX prints its extracted text,
and PDF prints a short summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")

		_, c := engine.NewFromConfig(cfg, logger)
		p, err := preview.New(cfg.PublicRoot, c.Extractor, logger)
		if err != nil {
			return err
		}
		text, err := p.Preview(cmd.Context(), args[0], kind)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	previewCmd.Flags().String("type", "", "deliverable format: html, latex, docx, pdf")
	_ = previewCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(previewCmd)
}
