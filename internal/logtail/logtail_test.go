package logtail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
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
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestLines(t *testing.T) {
	input := "12:00:00 Synchronized\n12:00:01 Title: Song\n\n12:00:02 Artist: Band"
	lines, errs := Lines(context.Background(), strings.NewReader(input))

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Lines error = %v", err)
	}
	want := []string{"12:00:00 Synchronized", "12:00:01 Title: Song", "", "12:00:02 Artist: Band"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines = %q, want %q", got, want)
	}
}

func TestLines_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines, errs := Lines(ctx, strings.NewReader("a\nb\nc\n"))

	if first := <-lines; first != "a" {
		t.Fatalf("first line = %q, want a", first)
	}
	cancel()
	for range lines {
	}
	if err := <-errs; err != nil {
		t.Fatalf("Lines error after cancel = %v", err)
	}
}

func TestLines_TooLong(t *testing.T) {
	long := strings.Repeat("x", maxBuffer+1)
	lines, errs := Lines(context.Background(), strings.NewReader(long))
	for range lines {
	}
	if err := <-errs; err == nil {
		t.Fatal("Lines error = nil, want token too long")
	}
}

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nrsc5.log")

	rec, err := OpenRecorder(path)
	if err != nil {
		t.Fatalf("OpenRecorder: %v", err)
	}
	for _, line := range []string{"one", "two"} {
		if err := rec.Record(line); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rec, err = OpenRecorder(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := rec.Record("three"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Read(path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("recorded = %q, want %q", got, want)
	}
}
