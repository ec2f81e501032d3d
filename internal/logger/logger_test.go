package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name   string
		log    func(string, ...any)
		prefix string
	}{
		{"debug", Debug, "[DEBUG] "},
		{"info", Info, "[INFO] "},
		{"warn", Warn, "[WARN] "},
		{"error", Error, "[ERROR] "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("pushed %d rows", 3)
			assert.Equal(t, tt.prefix+"pushed 3 rows\n", buf.String())
		})
	}
}

func TestLevels_WhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("connector closed")

	assert.Equal(t, "[ERROR] connector closed\n", buf.String())
}

func TestTrailingNewlineTrimmed(t *testing.T) {
	buf := capture(t, true)

	Debug("line\n")

	assert.Equal(t, "[DEBUG] line\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Pull")

	assert.Equal(t, "\n=== Pull ===\n", buf.String())
}
