package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "passage title"},
			"words": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 12,
				"maxItems": 12,
			},
			"level": map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
		},
		"required": []string{"title", "words"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v", s.Type)
	}
	if len(s.Required) != 2 || s.Required[0] != "title" {
		t.Fatalf("required = %v", s.Required)
	}
	if s.Properties["title"].Description != "passage title" {
		t.Fatalf("title = %+v", s.Properties["title"])
	}
	words := s.Properties["words"]
	if words.Type != genai.TypeArray || words.Items.Type != genai.TypeString {
		t.Fatalf("words = %+v", words)
	}
	if words.MinItems == nil || *words.MinItems != 12 {
		t.Fatalf("minItems = %v", words.MinItems)
	}
	if got := s.Properties["level"].Enum; len(got) != 2 || got[1] != "hard" {
		t.Fatalf("enum = %v", got)
	}
}

func TestGeminiSchema_UnknownTypeIsString(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Fatalf("type = %v", s.Type)
	}
}
