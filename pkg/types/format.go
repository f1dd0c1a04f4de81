// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Format identifies a document markup format understood by the engine.
// Values are converted to toolchain argument strings only at the subprocess
// boundary, see PandocName.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatLaTeX    Format = "latex"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatPlain    Format = "plain"
)

// sourceFormats lists the formats accepted as conversion input.
var sourceFormats = []Format{FormatMarkdown, FormatHTML, FormatLaTeX, FormatDOCX}

// IsSource reports whether f may be used as a conversion input.
func (f Format) IsSource() bool {
	for _, s := range sourceFormats {
		if f == s {
			return true
		}
	}
	return false
}

// IsFileOutput reports whether converting to f produces a file artifact
// rather than an in-memory text result.
func (f Format) IsFileOutput() bool {
	switch f {
	case FormatDOCX, FormatHTML, FormatLaTeX, FormatPDF:
		return true
	}
	return false
}

// Extension returns the file extension (without dot) used for scratch and
// deliverable files of this format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatLaTeX:
		return "tex"
	case FormatPlain:
		return "txt"
	default:
		return string(f)
	}
}

// PandocName returns the reader/writer name the external toolchain expects.
func (f Format) PandocName() string {
	return string(f)
}

// ParseSourceFormat converts a caller-supplied string into a source Format.
func ParseSourceFormat(s string) (Format, error) {
	f := Format(s)
	if !f.IsSource() {
		return "", fmt.Errorf("invalid source format %q (valid: markdown, html, latex, docx)", s)
	}
	return f, nil
}

// TargetKind is the category of output the caller wants.
type TargetKind string

const (
	TargetDOCX  TargetKind = "docx"
	TargetHTML  TargetKind = "html"
	TargetLaTeX TargetKind = "latex"
	TargetPDF   TargetKind = "pdf"
	TargetPlain TargetKind = "plain"
	TargetImage TargetKind = "image"
)

// Valid reports whether k is one of the supported target kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetDOCX, TargetHTML, TargetLaTeX, TargetPDF, TargetPlain, TargetImage:
		return true
	}
	return false
}

// IsFile reports whether k is delivered as a downloadable file.
func (k TargetKind) IsFile() bool {
	switch k {
	case TargetDOCX, TargetHTML, TargetLaTeX, TargetPDF:
		return true
	}
	return false
}

// Format returns the document format a file-kind target maps to. It returns
// the empty Format for plain and image targets.
func (k TargetKind) Format() Format {
	if !k.IsFile() {
		return ""
	}
	return Format(k)
}

// ParseTargetKind converts a caller-supplied string into a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid target kind %q (valid: docx, html, latex, pdf, plain, image)", s)
	}
	return k, nil
}

// SubFormat selects how image-preview text is built.
type SubFormat string

const (
	SubMarkdown SubFormat = "markdown"
	SubLaTeX    SubFormat = "latex"
	SubDOCX     SubFormat = "docx"
)

// Valid reports whether s is a supported sub-format. The empty value is
// valid and means SubMarkdown.
func (s SubFormat) Valid() bool {
	switch s {
	case "", SubMarkdown, SubLaTeX, SubDOCX:
		return true
	}
	return false
}

// OrDefault returns SubMarkdown when s is empty.
func (s SubFormat) OrDefault() SubFormat {
	if s == "" {
		return SubMarkdown
	}
	return s
}
