package batch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

func sampleResults() []Result {
	return []Result{
		{ID: "a", Keyword: "Dress", Products: []models.ProductCandidate{{Title: "x"}, {Title: "y"}}},
		{ID: "b", Keyword: "Tee"},
		{ID: "c", Error: "invalid model output"},
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for _, r := range sampleResults() {
		if err := writer.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var first Result
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if first.ID != "a" || len(first.Products) != 2 {
		t.Errorf("unexpected first line: %+v", first)
	}
	if !strings.Contains(lines[2], `"error":"invalid model output"`) {
		t.Errorf("expected error field in %s", lines[2])
	}
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for _, r := range sampleResults() {
		writer.Write(r)
	}
	if buf.Len() != 0 {
		t.Error("summary format should not write before Close")
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	want := Summary{Total: 3, Succeeded: 2, Failed: 1, EmptyResults: 1, Products: 2}
	if summary != want {
		t.Errorf("expected %+v, got %+v", want, summary)
	}
}

func TestWriter_InvalidFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "csv", newTestLogger()); err == nil {
		t.Error("expected error for unsupported format")
	}
}
