// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markconv/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, kind := range []types.TargetKind{types.TargetDOCX, types.TargetPlain, types.TargetHTML} {
		_, err := s.Record(ctx, types.HistoryEntry{
			SourceFormat: types.FormatMarkdown,
			TargetKind:   kind,
			Input:        "# Doc",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.TargetHTML, entries[0].TargetKind, "newest first")
	assert.Equal(t, types.TargetPlain, entries[1].TargetKind)
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecord_AssignsIDAndTruncates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	long := strings.Repeat("中", MaxFieldRunes+50)
	got, err := s.Record(ctx, types.HistoryEntry{
		SourceFormat: types.FormatHTML,
		TargetKind:   types.TargetDOCX,
		Input:        long,
		Output:       long,
		OutputFile:   "/downloads/1-a.docx",
	})
	require.NoError(t, err)

	assert.Len(t, got.ID, 36)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, MaxFieldRunes, len([]rune(got.Input)))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, got.ID, entries[0].ID)
	assert.Equal(t, MaxFieldRunes, len([]rune(entries[0].Output)))
	assert.Equal(t, "/downloads/1-a.docx", entries[0].OutputFile)

	other, err := s.Record(ctx, types.HistoryEntry{SourceFormat: types.FormatHTML, TargetKind: types.TargetPlain})
	require.NoError(t, err)
	assert.NotEqual(t, got.ID, other.ID)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewStore(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, types.HistoryEntry{SourceFormat: types.FormatLaTeX, TargetKind: types.TargetPDF, Input: "x"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &empty))
	assert.Equal(t, "[]\n", empty.String())

	_, err := s.Record(ctx, types.HistoryEntry{
		SourceFormat: types.FormatMarkdown,
		TargetKind:   types.TargetPlain,
		Input:        "Hello **world**",
		Output:       "Hello world",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &buf))

	var got []types.HistoryEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Hello world", got[0].Output)
	assert.Equal(t, types.TargetPlain, got[0].TargetKind)
	assert.Contains(t, buf.String(), "source_format: markdown")
}
