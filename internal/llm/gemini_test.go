package llm

import "testing"

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{"type": "string", "description": "one line"},
			"fit":      map[string]any{"type": "string", "enum": []string{"strong", "moderate"}},
			"score":    map[string]any{"type": "number"},
			"tips": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"headline", "tips"},
	}

	s := geminiSchema(def)

	if s.Type != "OBJECT" {
		t.Fatalf("expected OBJECT, got %s", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	if s.Properties["headline"].Description != "one line" {
		t.Fatalf("description not carried over")
	}
	if len(s.Properties["fit"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(s.Properties["fit"].Enum))
	}
	if s.Properties["score"].Type != "NUMBER" {
		t.Fatalf("expected NUMBER, got %s", s.Properties["score"].Type)
	}
	if s.Properties["tips"].Items.Type != "STRING" {
		t.Fatalf("expected STRING items, got %s", s.Properties["tips"].Items.Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(s.Required))
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(t.Context(), GeminiConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
