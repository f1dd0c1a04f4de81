// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionRequest is a single request-scoped conversion job. It is built
// per call and never stored by the engine.
type ConversionRequest struct {
	// Content is the input document text (raw bytes for docx input).
	Content string `json:"content" yaml:"content"`

	// SourceFormat is the format of Content.
	SourceFormat Format `json:"source_format" yaml:"source_format"`

	// TargetKind is the desired output category.
	TargetKind TargetKind `json:"target_kind" yaml:"target_kind"`

	// TargetSubFormat is only consulted when TargetKind is TargetImage.
	TargetSubFormat SubFormat `json:"target_sub_format,omitempty" yaml:"target_sub_format,omitempty"`

	// ExtraArgs are passed through to the external toolchain.
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
}

// Outcome is the payload of a successful conversion. File-kind conversions
// carry ArtifactPath (and PublicPath once the orchestrator has mapped it);
// text-kind conversions carry Text.
type Outcome struct {
	// Text is the converted text for plain, image, and text-kind results.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// ArtifactPath is the server-internal path of a file deliverable.
	ArtifactPath string `json:"-" yaml:"-"`

	// PublicPath is the caller-facing reference, e.g. /downloads/x.docx.
	PublicPath string `json:"output_file,omitempty" yaml:"output_file,omitempty"`

	// Format records the output format or preview sub-format.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// IsFile reports whether the outcome refers to a file artifact.
func (o Outcome) IsFile() bool {
	return o.ArtifactPath != ""
}

// BackendAvailability is the result of probing both conversion strategies.
// It is recomputed on every top-level conversion call.
type BackendAvailability struct {
	InProcess    bool `json:"in_process" yaml:"in_process"`
	ExternalTool bool `json:"external_tool" yaml:"external_tool"`
}

// Any reports whether at least one strategy is usable.
func (a BackendAvailability) Any() bool {
	return a.InProcess || a.ExternalTool
}
