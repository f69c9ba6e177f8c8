package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-ticketing/internal/config"
)

func TestPlainWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.LogTicket("ISSUE", "A7", "barcode rendered")
	log.Warn("events", "publisher disabled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "[TICKET    ]")
	assert.Contains(t, lines[0], "[ISSUE] A7 - barcode rendered")
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[1], "[EVENTS    ]")
}

func TestFileOutputIsJSON(t *testing.T) {
	dir := t.TempDir()
	log := NewLogger(config.LogConfig{Dir: dir, Service: "test-tickets"})
	var terminal bytes.Buffer
	log.SetOutput(&terminal)

	log.Error("DATABASE", "insert failed")
	log.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "test-tickets-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Message == "insert failed" {
			found = true
			assert.Equal(t, "ERROR", entry.Level)
			assert.Equal(t, "DATABASE", entry.Category)
			assert.Equal(t, "logger_test.go", entry.File)
		}
	}
	assert.True(t, found)
	assert.Contains(t, terminal.String(), "insert failed")
}
