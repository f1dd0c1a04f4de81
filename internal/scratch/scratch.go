// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scratch manages the temporary files that carry content to and from
// conversion backends, and the output directories deliverables land in.
package scratch

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	nameAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomNameLen = 13
)

// WithFile writes content to a new uniquely named file whose name ends in
// suffix and calls fn with its path. The file is removed when WithFile
// returns, whether fn returns normally, returns an error, or panics.
//
// A suffix without a leading dot gets one, so "md" and ".md" are equivalent.
func WithFile(suffix, content string, fn func(path string) error) (err error) {
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}

	f, err := os.CreateTemp("", "markconv-*"+suffix)
	if err != nil {
		return fmt.Errorf("creating scratch file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("writing scratch file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing scratch file %s: %w", path, err)
	}

	return fn(path)
}

// EnsureDir creates dir and any missing parents. It is a no-op when the
// directory already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// UniqueName returns "{ms-epoch}-{random}.{ext}". The random part is a
// lowercase base36 string, which keeps names unique across concurrent
// requests without a shared counter.
func UniqueName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + randomString(randomNameLen) + "." + ext
}

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = nameAlphabet[rand.IntN(len(nameAlphabet))]
	}
	return string(b)
}
