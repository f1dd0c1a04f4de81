// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryEntry is one recorded successful conversion.
type HistoryEntry struct {
	ID           string     `json:"id" yaml:"id"`
	SourceFormat Format     `json:"source_format" yaml:"source_format"`
	TargetKind   TargetKind `json:"target_kind" yaml:"target_kind"`

	// Input and Output are stored truncated for display.
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// OutputFile is the public reference of a file deliverable, if any.
	OutputFile string    `json:"output_file,omitempty" yaml:"output_file,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
