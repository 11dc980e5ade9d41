package schema

import "testing"

func testDefinition() Definition {
	return Definition{
		Name: "test-course",
		Body: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"count": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"name"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(testDefinition(), []byte(`{"name":"BS CS","count":2}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	if err := Validate(testDefinition(), []byte(`{"count":2}`)); err == nil {
		t.Fatal("expected error for missing required field")
	}
}

func TestValidate_WrongType(t *testing.T) {
	if err := Validate(testDefinition(), []byte(`{"name":"BS CS","count":"two"}`)); err == nil {
		t.Fatal("expected error for wrong type")
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	if err := Validate(testDefinition(), []byte(`{not json}`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate_CachesCompiledSchema(t *testing.T) {
	def := testDefinition()
	def.Name = "test-cache"
	if err := Validate(def, []byte(`{"name":"a"}`)); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if _, ok := cache.Load("test-cache"); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
	if err := Validate(def, []byte(`{"name":"b"}`)); err != nil {
		t.Fatalf("second validate: %v", err)
	}
}
