package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testRecord struct {
	ID     int64             `json:"id"`
	Type   string            `json:"snapshot_type"`
	Labels map[string]string `json:"labels,omitempty"`
	Items  []string          `json:"items"`
}

func testRecords() []testRecord {
	return []testRecord{
		{ID: 1, Type: "scope", Items: []string{"a", "b"}},
		{ID: 2, Type: "analysis", Labels: map[string]string{"host": "h1"}, Items: []string{}},
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	if err := writer.Serialize(context.Background(), testRecords()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testRecord
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 || result[1].Labels["host"] != "h1" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeYAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), testRecords()[0]); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result["snapshot_type"] != "scope" {
		t.Errorf("expected snapshot_type key, got %v", result)
	}
	if _, ok := result["Type"]; ok {
		t.Error("YAML output must not use Go field names")
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), testRecords()[1]); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FIELD", "id", "snapshot_type", "analysis", "labels.host", "h1", "items", "[]"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("expected <empty>, got %q", buf.String())
	}
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(Format("xml"), &buf)

	if err := writer.Serialize(context.Background(), map[string]int{"a": 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	writer := NewFileWriterOrStdout(FormatJSON, path)

	if err := writer.Serialize(context.Background(), map[string]int{"a": 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(content), `"a": 1`) {
		t.Errorf("unexpected file content: %s", content)
	}

	if w := NewFileWriterOrStdout(FormatJSON, "  "); w.output != os.Stdout {
		t.Error("blank path should write to stdout")
	}
}

func TestFlatten(t *testing.T) {
	flat, err := Flatten(map[string]any{
		"summary": map[string]any{"total_assets": 3},
		"assets":  []any{map[string]any{"asset_id": "host-a"}},
	})
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if got := flat["summary.total_assets"]; got != json.Number("3") {
		t.Errorf("summary.total_assets = %v", got)
	}
	if got := flat["assets.[0].asset_id"]; got != "host-a" {
		t.Errorf("assets.[0].asset_id = %v", got)
	}

	scalar, err := Flatten(7)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if scalar[defaultValueKey] != json.Number("7") {
		t.Errorf("scalar flatten = %v", scalar)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"config.json":  FormatJSON,
		"CONFIG.YAML":  FormatYAML,
		"config.yml":   FormatYAML,
		"out.table":    FormatTable,
		"out.txt":      FormatTable,
		"config.toml":  FormatJSON,
		"no-extension": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}
