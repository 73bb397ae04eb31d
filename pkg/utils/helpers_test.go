package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	assert.Len(t, id, 8)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), id)
}

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   bool
	}{
		{"example.com", true},
		{"sub.example.co.uk", true},
		{"xn--bcher-kva.example", true},
		{"", false},
		{"-leading.example.com", false},
		{"trailing-.example.com", false},
		{"under_score.example.com", false},
		{"double..dot.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDomain(tt.domain))
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, RemoveDuplicates([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, RemoveDuplicates(nil))
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "1.50s", HumanizeDuration(1500*time.Millisecond))
	assert.Equal(t, "2m 30s", HumanizeDuration(150*time.Second))
	assert.Equal(t, "1h 15m", HumanizeDuration(75*time.Minute))
}

func TestWriteReadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	in := map[string]int{"findings": 4}

	require.NoError(t, WriteFileJSON(path, in, true))

	var out map[string]int
	require.NoError(t, ReadFileJSON(path, &out))
	assert.Equal(t, in, out)
}

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, SafeWriteFile(path, []byte("first"), 0o644))
	require.NoError(t, SafeWriteFile(path, []byte("second"), 0o644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(path+".tmp"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}
