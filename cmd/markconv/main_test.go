// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markconv/internal/engine"
	"github.com/pdiddy/markconv/pkg/types"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, newLogger(&buf, "DEBUG").GetLevel())
	assert.Equal(t, logrus.WarnLevel, newLogger(&buf, "loud").GetLevel())
	assert.Equal(t, logrus.ErrorLevel, newLogger(&buf, " error ").GetLevel())
}

func TestPrintOutcome(t *testing.T) {
	file := types.Outcome{ArtifactPath: "/srv/public/downloads/1-a.docx", PublicPath: "/downloads/1-a.docx", Format: "docx"}
	text := types.Outcome{Text: "Hello world\n", Format: "plain"}

	var buf bytes.Buffer
	require.NoError(t, printOutcome(&buf, file, false))
	assert.Equal(t, "/downloads/1-a.docx\n", buf.String())

	buf.Reset()
	require.NoError(t, printOutcome(&buf, text, false))
	assert.Equal(t, "Hello world\n", buf.String())

	buf.Reset()
	require.NoError(t, printOutcome(&buf, file, true))
	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "/downloads/1-a.docx", got["output_file"])
	assert.NotContains(t, buf.String(), "/srv/public", "internal paths stay private")
}

func TestPrintBatchJSON(t *testing.T) {
	result := engine.BatchResult{
		Converted: 1,
		Failed:    1,
		Items: []engine.BatchItem{
			{Name: "a.md", Outcome: types.Outcome{PublicPath: "/downloads/1-a.html", ArtifactPath: "x"}},
			{Name: "b.md", Err: types.WrapError(types.ErrConversionFailed, errors.New("boom"), "converting markdown to html")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printBatchJSON(&buf, result))

	var items []batchItemJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "/downloads/1-a.html", items[0].Outcome.PublicPath)
	assert.Empty(t, items[0].Error)
	assert.Nil(t, items[1].Outcome)
	assert.Equal(t, "conversion_failed", items[1].Kind)
	assert.Equal(t, "converting markdown to html: boom", items[1].Error)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "# Title Body", clip("# Title\n\nBody", 20))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
}

func TestAvailability(t *testing.T) {
	assert.Equal(t, "available", availability(true))
	assert.Equal(t, "unavailable", availability(false))
}
