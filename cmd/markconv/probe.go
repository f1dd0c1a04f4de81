// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/markconv/internal/engine"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report which conversion strategies are usable",
	Long: `Probe checks both conversion strategies: the in-process converter
with a canary conversion and pandoc with a version check. Nothing is
cached; every conversion probes again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c := engine.NewFromConfig(cfg, logger)
		avail := c.Prober.Probe(cmd.Context())

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(avail)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "in-process (%s): %s\n", c.Binding.Name(), availability(avail.InProcess))
		fmt.Fprintf(w, "external (%s): %s\n", c.Tool.Name(), availability(avail.ExternalTool))
		if !avail.Any() {
			return fmt.Errorf("no conversion backend available")
		}
		return nil
	},
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

func init() {
	probeCmd.Flags().Bool("json", false, "output availability as JSON")

	rootCmd.AddCommand(probeCmd)
}
