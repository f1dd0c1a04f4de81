// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the markconv CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration, loaded before each command runs.
	cfg = types.DefaultEngineConfig()

	logger = newLogger(os.Stderr, types.DefaultLogLevel)
)

// rootCmd is the base command for the markconv CLI.
var rootCmd = &cobra.Command{
	Use:   "markconv",
	Short: "Convert documents between Markdown, HTML, LaTeX, DOCX, PDF, and plain text",
	Long: `markconv converts documents between markup formats. A pure-Go
converter handles the pairs it supports in process; everything else goes
through pandoc. File deliverables are written to the downloads directory and
reported by their public path.

Subcommands convert documents, probe which strategies are usable, extract
text from DOCX files, preview deliverables, and inspect conversion history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(os.Stderr, cfg.LogLevel)
		logger.WithFields(logrus.Fields{
			"downloads_dir": cfg.DownloadsDir,
			"pandoc":        cfg.PandocBin,
			"timeout":       cfg.Timeout,
		}).Debug("configuration loaded")
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	d := types.DefaultEngineConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./markconv.yaml or ~/.config/markconv/markconv.yaml)")
	flags.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	flags.String("downloads-dir", d.DownloadsDir, "directory file deliverables are written to")
	flags.String("public-root", d.PublicRoot, "directory public references resolve against")
	flags.String("public-prefix", d.PublicPrefix, "public path prefix of deliverables")
	flags.String("pandoc", d.PandocBin, "pandoc executable")
	flags.Duration("timeout", d.Timeout, "bound on each pandoc run (0 = none)")
	flags.String("history-db", "", "sqlite file for conversion history (empty = disabled)")

	for key, flag := range map[string]string{
		"log_level":     "log-level",
		"downloads_dir": "downloads-dir",
		"public_root":   "public-root",
		"public_prefix": "public-prefix",
		"pandoc_bin":    "pandoc",
		"timeout":       "timeout",
		"history_db":    "history-db",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("downloads_dir", d.DownloadsDir)
	viper.SetDefault("public_root", d.PublicRoot)
	viper.SetDefault("public_prefix", d.PublicPrefix)
	viper.SetDefault("pandoc_bin", d.PandocBin)
	viper.SetDefault("timeout", d.Timeout)
	viper.SetDefault("history_db", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markconv"))
		}
	}

	viper.SetEnvPrefix("MARKCONV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env, file, and default settings.
func loadConfig() (types.EngineConfig, error) {
	c := types.DefaultEngineConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return types.EngineConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return c.WithDefaults(), nil
}

// newLogger returns a text logger writing to w. Unknown level names fall
// back to warn.
func newLogger(w io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
