// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markconv/internal/engine"
)

var extractCmd = &cobra.Command{
	Use:   "extract <docx>",
	Short: "Print the plain text of a DOCX file",
	Long: `Extract reads a DOCX file with pandoc and prints its plain-text
content. Extraction needs pandoc; the in-process converter cannot read DOCX.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c := engine.NewFromConfig(cfg, logger)
		out, err := c.Extractor.ExtractPlainText(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
