package logtail

import (
	"fmt"
	"log/slog"
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

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Errorf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	line := `time=2024-03-09T13:05:06.789Z level=ERROR msg="quantity unit save failed" component=quantity_unit_form request_id=5f0c create=true error="api /api/objects/quantity_units: status 400: name \"Piece\" exists"`
	got := Parse(line)

	if got.Time != "2024-03-09T13:05:06.789Z" {
		t.Errorf("Time = %q", got.Time)
	}
	if got.Level != "ERROR" {
		t.Errorf("Level = %q", got.Level)
	}
	if got.Msg != "quantity unit save failed" {
		t.Errorf("Msg = %q", got.Msg)
	}
	want := map[string]string{
		"component":  "quantity_unit_form",
		"request_id": "5f0c",
		"create":     "true",
		"error":      `api /api/objects/quantity_units: status 400: name "Piece" exists`,
	}
	if !reflect.DeepEqual(got.Attrs, want) {
		t.Errorf("Attrs = %v, want %v", got.Attrs, want)
	}
}

func TestParsePlainLine(t *testing.T) {
	got := Parse("panic: something broke")
	if got.Msg != "panic: something broke" || got.Level != "" {
		t.Errorf("Parse() = %+v", got)
	}
}

func TestTailFilters(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "grocy-tui.log")
	lines := []string{
		`time=t1 level=DEBUG msg="submitting quantity unit" component=quantity_unit_form request_id=a`,
		`time=t2 level=INFO msg="quantity unit saved" component=quantity_unit_form request_id=a`,
		`time=t3 level=WARN msg="poll failed" component=poller`,
		`time=t4 level=ERROR msg="conversion save failed" component=conversion_form request_id=b`,
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "everything", filter: Filter{}, want: []string{"t1", "t2", "t3", "t4"}},
		{name: "by request", filter: Filter{RequestID: "a"}, want: []string{"t1", "t2"}},
		{name: "by component", filter: Filter{Component: "poller"}, want: []string{"t3"}},
		{name: "warnings and up", filter: Filter{MinLevel: slog.LevelWarn}, want: []string{"t3", "t4"}},
		{name: "request and level", filter: Filter{RequestID: "a", MinLevel: slog.LevelInfo}, want: []string{"t2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Tail(logPath, 0, tt.filter)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Time)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tail() = %v, want %v", got, tt.want)
			}
		})
	}
}
