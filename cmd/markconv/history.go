// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markconv/internal/history"
	"github.com/pdiddy/markconv/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the conversion history",
	Long: `History reads the sqlite log of successful conversions. It is only
available when history_db is configured.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatHistory(cmd, entries, jsonOutput)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full conversion history as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.ExportYAML(cmd.Context(), cmd.OutOrStdout())
	},
}

func requireHistory() (*history.Store, error) {
	if cfg.HistoryDB == "" {
		return nil, fmt.Errorf("history is disabled: set history_db in the config or pass --history-db")
	}
	return history.NewStore(cfg.HistoryDB)
}

func formatHistory(cmd *cobra.Command, entries []types.HistoryEntry, jsonOutput bool) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-6s  %-40s  %s\n", "Time", "From", "To", "Input", "Result")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		result := e.OutputFile
		if result == "" {
			result = clip(e.Output, 30)
		}
		fmt.Fprintf(w, "%-20s  %-8s  %-6s  %-40s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.SourceFormat, e.TargetKind, clip(e.Input, 40), result)
	}
	fmt.Fprintf(w, "\n%d conversions\n", len(entries))
	return nil
}

// clip shortens s to n runes on one line.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
