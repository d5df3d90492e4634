package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/missioncontrol/analytics"
)

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("y\n"), &out, "? "))
	assert.True(t, confirm(strings.NewReader("YES\n"), &out, "? "))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "? "))
	assert.False(t, confirm(strings.NewReader("nope\n"), &out, "? "))
	assert.False(t, confirm(strings.NewReader(""), &out, "? "))
	assert.Equal(t, strings.Repeat("? ", 5), out.String())
}

func TestExportAndReset(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "mc.db")
	t.Setenv("MC_STORE", dsn)
	t.Setenv("LOG_JSON", "1")
	t.Setenv("LOG_LEVEL", "error")

	var stdout bytes.Buffer
	require.NoError(t, runExport(nil, &stdout))
	var rec analytics.Record
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, 0, rec.VisitCount)

	// Export logs itself, so the record now has one activity.
	out := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, runExport([]string{"-o", out}, &stdout))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &rec))
	require.Len(t, rec.ActivityLog, 1)
	assert.Equal(t, analytics.ActivityExport, rec.ActivityLog[0].Type)

	stdout.Reset()
	require.NoError(t, runReset(nil, strings.NewReader("n\n"), &stdout))
	assert.Contains(t, stdout.String(), "Aborted.")

	stdout.Reset()
	require.NoError(t, runReset([]string{"-yes"}, nil, &stdout))
	assert.Contains(t, stdout.String(), "Analytics data reset.")

	stdout.Reset()
	require.NoError(t, runExport(nil, &stdout))
	var after analytics.Record
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &after))
	assert.Equal(t, *analytics.NewRecord(), after)
}
