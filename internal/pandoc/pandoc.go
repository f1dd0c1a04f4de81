// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc runs the external document-conversion toolchain as a
// subprocess: version probing, file output, and stdout capture.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/markconv/pkg/types"
)

// ErrOutputMissing is returned when the toolchain exits 0 without writing the
// requested output file.
var ErrOutputMissing = errors.New("conversion finished but output file not found")

// ExitError reports a toolchain run that exited non-zero. Stderr holds the
// captured error stream verbatim.
type ExitError struct {
	Bin    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Bin, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", name, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Bin: name, Code: exitErr.ExitCode()}
	}
	return err
}

// Tool drives one toolchain binary. It holds no per-call state and is safe
// for concurrent use; each call spawns and reaps its own child process.
type Tool struct {
	bin     string
	timeout time.Duration
	exec    executor
	log     logrus.FieldLogger
}

var defaultExec = &osExecutor{}

// New creates a Tool for cfg.PandocBin. Each run is bounded by cfg.Timeout
// unless it is zero.
func New(cfg types.EngineConfig, log logrus.FieldLogger) *Tool {
	cfg = cfg.WithDefaults()
	return newTool(cfg.PandocBin, cfg.Timeout, defaultExec, log)
}

func newTool(bin string, timeout time.Duration, exec executor, log logrus.FieldLogger) *Tool {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Tool{bin: bin, timeout: timeout, exec: exec, log: log}
}

// Name returns the binary the tool invokes.
func (t *Tool) Name() string { return t.bin }

// Available reports whether the binary is on PATH and its version command
// exits successfully.
func (t *Tool) Available(ctx context.Context) bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	_, err := t.run(ctx, []string{"--version"})
	return err == nil
}

// ConvertFile converts the file at input and writes the result to output.
func (t *Tool) ConvertFile(ctx context.Context, input string, from, to types.Format, output string, extra []string) error {
	args := []string{
		input,
		"--from", from.PandocName(),
		"--to", to.PandocName(),
		"--output", output,
	}
	args = append(args, extra...)

	if _, err := t.run(ctx, args); err != nil {
		return err
	}
	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("%s: %w", output, ErrOutputMissing)
	}
	return nil
}

// ConvertText converts the file at input and returns the captured stdout.
func (t *Tool) ConvertText(ctx context.Context, input string, from, to types.Format, extra []string) (string, error) {
	args := []string{
		input,
		"--from", from.PandocName(),
		"--to", to.PandocName(),
	}
	args = append(args, extra...)
	return t.run(ctx, args)
}

// ExtractPlain reads a docx artifact and returns its plain-text rendering.
func (t *Tool) ExtractPlain(ctx context.Context, path string) (string, error) {
	return t.run(ctx, []string{path, "--from=docx", "--to=plain"})
}

func (t *Tool) run(ctx context.Context, args []string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.log.WithField("args", strings.Join(args, " ")).Debugf("running %s", t.bin)

	var stdout, stderr bytes.Buffer
	err := t.exec.Run(ctx, t.bin, args, &stdout, &stderr)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			exitErr.Bin = t.bin
			exitErr.Stderr = stderr.String()
			return "", exitErr
		}
		return "", fmt.Errorf("starting %s: %w", t.bin, err)
	}
	return stdout.String(), nil
}
