package logtail

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestRender(t *testing.T) {
	lines := []string{
		`{"level":"debug","component":"view","time":"2024-05-01T10:00:00Z","message":"cache miss"}`,
		`{"level":"warn","component":"offline","time":"2024-05-01T10:00:01Z","message":"pending replay failed"}`,
		"plain text line",
		"",
	}

	var buf bytes.Buffer
	if err := Render(&buf, lines, Options{MinLevel: zerolog.InfoLevel}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "cache miss") {
		t.Fatalf("debug record should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "pending replay failed") || !strings.Contains(out, "component=offline") {
		t.Fatalf("warn record missing or unformatted:\n%s", out)
	}
	if !strings.Contains(out, "plain text line") {
		t.Fatalf("non-JSON line dropped:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output should not contain color codes without Color:\n%s", out)
	}
}
