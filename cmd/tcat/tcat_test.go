package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dacapoday/trace/pebblebatch"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAndDump(t *testing.T) {
	db := t.TempDir()

	first := writeFile(t, "first.yaml", `
- {key: banana, val: yellow, time: 1, diff: 1}
- {key: apple, val: red, time: 1, diff: 1}
`)
	second := writeFile(t, "second.yaml", `
- {key: apple, val: red, time: 3, diff: -1}
- {key: apple, val: green, time: 2, diff: 1}
`)

	out, err := run(t, "load", "--db", db, "--no-sync", first)
	require.NoError(t, err)
	require.Equal(t, "appended batch 0 (2 updates)\n", out)

	out, err = run(t, "load", "--db", db, second)
	require.NoError(t, err)
	require.Equal(t, "appended batch 1 (2 updates)\n", out)

	out, err = run(t, "dump", "--db", db)
	require.NoError(t, err)
	require.Equal(t, []string{"apple green 2 1", "apple red 1 1", "apple red 3 -1", "banana yellow 1 1"}, tableRows(out))

	out, err = run(t, "dump", "--db", db, "--batch", "1", "-n", "1")
	require.NoError(t, err)
	require.Equal(t, []string{"apple green 2 1"}, tableRows(out))

	out, err = run(t, "batches", "--db", db)
	require.NoError(t, err)
	require.Equal(t, []string{"0 2", "1 2", "TOTAL 4"}, tableRows(out))
}

func TestDBFromEnv(t *testing.T) {
	t.Setenv("TCAT_DB", t.TempDir())

	_, err := run(t, "load", writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)

	out, err := run(t, "batches")
	require.NoError(t, err)
	require.Equal(t, []string{"0 0", "TOTAL 0"}, tableRows(out))
}

func TestConfigFile(t *testing.T) {
	db := t.TempDir()
	config := writeFile(t, "tcat.yaml", "db: "+db+"\nlog-level: error\n")

	_, err := run(t, "batches", "--config", config)
	require.NoError(t, err)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "batches")
	require.ErrorContains(t, err, "--db is required")

	_, err = run(t, "batches", "--db", t.TempDir(), "--log-level", "chatty")
	require.Error(t, err)

	db := t.TempDir()
	_, err = run(t, "dump", "--db", db, "--batch", "4")
	require.ErrorIs(t, err, pebblebatch.ErrBatchNotFound)

	_, err = run(t, "load", "--db", db, writeFile(t, "bad.yaml", "- {key: a, value: b}\n"))
	require.Error(t, err)
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in     []byte
		maxLen int
		want   string
	}{
		{nil, 10, "(empty)"},
		{[]byte("apple"), 10, "apple"},
		{[]byte("a long key value"), 10, "a long ..."},
		{[]byte{0, 1, 0xff}, 10, "0001ff"},
		{[]byte{0, 1, 2, 3, 4, 5}, 10, "0001020..."},
		{[]byte("tab\there"), 20, "7461620968657265"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, display(tt.in, tt.maxLen), "%q", tt.in)
	}
}

// tableRows returns the body and footer rows of a rendered table, cells
// joined by single spaces.
func tableRows(out string) (rows []string) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		var cells []string
		for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
			cells = append(cells, strings.TrimSpace(cell))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows[1:] // header
}
