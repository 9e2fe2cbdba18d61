package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quiet bool
		write func(*Logger)
		want  string
	}{
		{"printf", false, func(l *Logger) { l.Printf("scanned %d roots", 2) }, "scanned 2 roots"},
		{"println", false, func(l *Logger) { l.Println("registered", "api") }, "registered api\n"},
		{"printf quiet", true, func(l *Logger) { l.Printf("scanned %d roots", 2) }, ""},
		{"println quiet", true, func(l *Logger) { l.Println("registered") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.write(New(&buf, true, tt.quiet))
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDebug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		msg     string
		keyvals []any
		want    string
	}{
		{"pairs", true, false, "classify timeout", []any{"dir", "/src/big", "after", "5s"}, "classify timeout dir=/src/big after=5s\n"},
		{"message only", true, false, "cache hit", nil, "cache hit\n"},
		{"trailing key dropped", true, false, "skip root", []any{"root", "/x", "orphan"}, "skip root root=/x\n"},
		{"not verbose", false, false, "cache hit", []any{"root", "/x"}, ""},
		{"quiet wins", true, true, "cache hit", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			New(&buf, tt.verbose, tt.quiet).Debug(tt.msg, tt.keyvals...)
			if got := buf.String(); got != tt.want {
				t.Errorf("Debug() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verbose, quiet, want bool
	}{
		{true, false, true},
		{false, true, false},
		{true, true, false},
		{false, false, false},
	}
	for _, tt := range tests {
		if got := New(io.Discard, tt.verbose, tt.quiet).IsVerbose(); got != tt.want {
			t.Errorf("New(verbose=%v, quiet=%v).IsVerbose() = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, true, false)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				l.Debug("found", "n", i)
			} else {
				l.Println("found", i)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "found") {
			t.Errorf("interleaved line %q", line)
		}
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, false, false)
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Error("FromContext did not return the attached logger")
	}
	if l.Writer() != &buf {
		t.Error("Writer() did not return the underlying writer")
	}

	fallback := FromContext(context.Background())
	if fallback == nil || fallback.Writer() != io.Discard {
		t.Fatal("logger without context should discard output")
	}
	fallback.Printf("dropped")
	fallback.Debug("dropped")
}
