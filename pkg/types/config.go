// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

const (
	DefaultDownloadsDir = "public/downloads"
	DefaultPublicRoot   = "public"
	DefaultPublicPrefix = "/downloads"
	DefaultPandocBin    = "pandoc"
	DefaultTimeout      = 2 * time.Minute
	DefaultLogLevel     = "warn"
)

// EngineConfig holds settings for the conversion engine and the CLI around it.
type EngineConfig struct {
	// DownloadsDir is where file deliverables are written.
	DownloadsDir string `json:"downloads_dir" yaml:"downloads_dir" mapstructure:"downloads_dir"`

	// PublicRoot is the directory public references are resolved against
	// (DownloadsDir normally lives inside it).
	PublicRoot string `json:"public_root" yaml:"public_root" mapstructure:"public_root"`

	// PublicPrefix replaces the server-internal directory in caller-facing
	// references (e.g. "/downloads").
	PublicPrefix string `json:"public_prefix" yaml:"public_prefix" mapstructure:"public_prefix"`

	// PandocBin is the external toolchain executable.
	PandocBin string `json:"pandoc_bin" yaml:"pandoc_bin" mapstructure:"pandoc_bin"`

	// Timeout bounds each external toolchain run. Zero disables the bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// HistoryDB is the sqlite file for conversion history. Empty disables it.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty" mapstructure:"history_db"`

	// LogLevel is the logrus level name.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultEngineConfig returns the configuration used when nothing is set.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DownloadsDir: DefaultDownloadsDir,
		PublicRoot:   DefaultPublicRoot,
		PublicPrefix: DefaultPublicPrefix,
		PandocBin:    DefaultPandocBin,
		Timeout:      DefaultTimeout,
		LogLevel:     DefaultLogLevel,
	}
}

// WithDefaults fills empty fields from DefaultEngineConfig. A zero Timeout is
// kept as is since it means "no bound".
func (c EngineConfig) WithDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.DownloadsDir == "" {
		c.DownloadsDir = d.DownloadsDir
	}
	if c.PublicRoot == "" {
		c.PublicRoot = d.PublicRoot
	}
	if c.PublicPrefix == "" {
		c.PublicPrefix = d.PublicPrefix
	}
	if c.PandocBin == "" {
		c.PandocBin = d.PandocBin
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}
