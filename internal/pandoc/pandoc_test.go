// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/markconv/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, stdout, stderr)
	}
	return nil
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name  string
		exec  *mockExecutor
		want  bool
		calls int
	}{
		{
			name: "on PATH and version succeeds",
			exec: &mockExecutor{availableBins: map[string]bool{"pandoc": true}},
			want: true, calls: 1,
		},
		{
			name: "missing from PATH",
			exec: &mockExecutor{availableBins: map[string]bool{}},
			want: false, calls: 0,
		},
		{
			name: "on PATH but version fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pandoc": true},
				runFunc: func(context.Context, string, []string, io.Writer, io.Writer) error {
					return &ExitError{Code: 127}
				},
			},
			want: false, calls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := newTool("pandoc", 0, tt.exec, nil)
			if got := tool.Available(context.Background()); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
			if len(tt.exec.calls) != tt.calls {
				t.Fatalf("got %d runs, want %d", len(tt.exec.calls), tt.calls)
			}
			if tt.calls > 0 && strings.Join(tt.exec.calls[0], " ") != "pandoc --version" {
				t.Errorf("probe command = %q", strings.Join(tt.exec.calls[0], " "))
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.docx")
	exec := &mockExecutor{
		runFunc: func(_ context.Context, _ string, args []string, _, _ io.Writer) error {
			return os.WriteFile(args[6], []byte("PK"), 0o644)
		},
	}
	tool := newTool("pandoc", 0, exec, nil)

	err := tool.ConvertFile(context.Background(), "/tmp/in.md", types.FormatMarkdown, types.FormatDOCX, out, []string{"--standalone"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "pandoc /tmp/in.md --from markdown --to docx --output " + out + " --standalone"
	if got := strings.Join(exec.calls[0], " "); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestConvertFile_OutputMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "never.docx")
	tool := newTool("pandoc", 0, &mockExecutor{}, nil)

	err := tool.ConvertFile(context.Background(), "/tmp/in.md", types.FormatMarkdown, types.FormatDOCX, out, nil)
	if !errors.Is(err, ErrOutputMissing) {
		t.Fatalf("expected ErrOutputMissing, got %v", err)
	}
}

func TestConvertText(t *testing.T) {
	tests := []struct {
		name    string
		runFunc func(context.Context, string, []string, io.Writer, io.Writer) error
		want    string
		errSub  string
	}{
		{
			name: "captures stdout",
			runFunc: func(_ context.Context, _ string, _ []string, stdout, _ io.Writer) error {
				_, _ = stdout.Write([]byte("Title\n\nBody\n"))
				return nil
			},
			want: "Title\n\nBody\n",
		},
		{
			name: "non-zero exit carries stderr",
			runFunc: func(_ context.Context, _ string, _ []string, _, stderr io.Writer) error {
				_, _ = stderr.Write([]byte("Unknown reader: bogus"))
				return &ExitError{Code: 21}
			},
			errSub: "pandoc exited with code 21: Unknown reader: bogus",
		},
		{
			name: "spawn failure",
			runFunc: func(context.Context, string, []string, io.Writer, io.Writer) error {
				return errors.New("exec: not found")
			},
			errSub: "starting pandoc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runFunc: tt.runFunc}
			tool := newTool("pandoc", 0, exec, nil)

			got, err := tool.ConvertText(context.Background(), "/tmp/in.html", types.FormatHTML, types.FormatPlain, nil)
			if tt.errSub != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSub) {
					t.Errorf("error %q does not contain %q", err, tt.errSub)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if args := strings.Join(exec.calls[0], " "); args != "pandoc /tmp/in.html --from html --to plain" {
				t.Errorf("command = %q", args)
			}
		})
	}
}

func TestExtractPlain(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(_ context.Context, _ string, _ []string, stdout, _ io.Writer) error {
			_, _ = stdout.Write([]byte("Test Document\n"))
			return nil
		},
	}
	tool := newTool("pandoc", 0, exec, nil)

	got, err := tool.ExtractPlain(context.Background(), "/out/a.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Test Document\n" {
		t.Errorf("got %q", got)
	}
	if args := strings.Join(exec.calls[0], " "); args != "pandoc /out/a.docx --from=docx --to=plain" {
		t.Errorf("command = %q", args)
	}
}

func TestRunTimeout(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(ctx context.Context, _ string, _ []string, _, _ io.Writer) error {
			deadline, ok := ctx.Deadline()
			if !ok {
				return errors.New("expected deadline")
			}
			if time.Until(deadline) > time.Second {
				return errors.New("deadline too far")
			}
			<-ctx.Done()
			return ctx.Err()
		},
	}
	tool := newTool("pandoc", 10*time.Millisecond, exec, nil)

	_, err := tool.ConvertText(context.Background(), "in.md", types.FormatMarkdown, types.FormatHTML, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestExitErrorMessage(t *testing.T) {
	e := &ExitError{Bin: "pandoc", Code: 1}
	if e.Error() != "pandoc exited with code 1" {
		t.Errorf("got %q", e.Error())
	}
	e.Stderr = "  boom\n"
	if e.Error() != "pandoc exited with code 1: boom" {
		t.Errorf("got %q", e.Error())
	}
}
