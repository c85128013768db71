package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/braingym/internal/llm"
	"github.com/abhisek/braingym/internal/logging"
)

// Generated asks a language model for reading passages and memory word
// lists and delegates everything else to the wrapped provider. When
// generation fails the wrapped provider serves the request instead.
type Generated struct {
	Provider
	model  llm.Provider
	logger *slog.Logger

	// WordCount is the number of memory words requested.
	WordCount int
	// PassageWords is the approximate passage length requested.
	PassageWords int
}

var _ Provider = (*Generated)(nil)

// NewGenerated wraps fallback with model-generated content.
func NewGenerated(fallback Provider, model llm.Provider, logger *slog.Logger) *Generated {
	return &Generated{
		Provider:     fallback,
		model:        model,
		logger:       logging.OrDiscard(logger),
		WordCount:    12,
		PassageWords: 80,
	}
}

const generatorSystem = "You write material for a short daily brain-training session. " +
	"Use plain everyday English suitable for adults of any age. Respond with JSON only."

var passageSchema = &llm.Schema{
	Name:        "reading-passage",
	Description: "A short descriptive passage to be read aloud",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string", "minLength": 1},
			"content": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []string{"title", "content"},
		"additionalProperties": false,
	},
}

var wordsSchema = &llm.Schema{
	Name:        "memory-words",
	Description: "Common concrete nouns to memorize",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 1,
			},
		},
		"required":             []string{"words"},
		"additionalProperties": false,
	},
}

func (g *Generated) Reading(ctx context.Context) (*ReadingText, error) {
	req := llm.UserPrompt(generatorSystem, fmt.Sprintf(
		"Write a calm descriptive passage of about %d words about nature, a season or everyday life, with a short title.",
		g.PassageWords))
	req.Schema = passageSchema
	req.MaxTokens = 1024
	req.Temperature = 0.9

	var out struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := g.generate(llm.WithPurpose(ctx, llm.PurposeReading), req, &out); err != nil {
		g.logger.WarnContext(ctx, "generate reading passage; using fallback", slog.Any("error", err))
		return g.Provider.Reading(ctx)
	}
	body := strings.TrimSpace(out.Content)
	return &ReadingText{
		Title:     strings.TrimSpace(out.Title),
		Content:   body,
		WordCount: len(strings.Fields(body)),
	}, nil
}

func (g *Generated) Memory(ctx context.Context) (*MemoryWords, error) {
	req := llm.UserPrompt(generatorSystem, fmt.Sprintf(
		"List %d different common concrete nouns, one word each, lower case, drawn from three unrelated everyday categories.",
		g.WordCount))
	req.Schema = wordsSchema
	req.MaxTokens = 512
	req.Temperature = 0.9

	var out struct {
		Words []string `json:"words"`
	}
	err := g.generate(llm.WithPurpose(ctx, llm.PurposeMemory), req, &out)
	var words []string
	if err == nil {
		words = distinctWords(out.Words, g.WordCount)
		if len(words) < g.WordCount {
			err = fmt.Errorf("model returned %d usable words, want %d", len(words), g.WordCount)
		}
	}
	if err != nil {
		g.logger.WarnContext(ctx, "generate memory words; using fallback", slog.Any("error", err))
		return g.Provider.Memory(ctx)
	}
	return &MemoryWords{
		Words:               words,
		MemorizeTimeSeconds: DefaultMemorizeSeconds,
		RecallTimeSeconds:   DefaultRecallSeconds,
	}, nil
}

func (g *Generated) generate(ctx context.Context, req llm.Request, v any) error {
	resp, err := g.model.Generate(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

// distinctWords keeps single words, drops case-insensitive repeats and
// stops at limit.
func distinctWords(in []string, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || strings.ContainsAny(w, " \t") || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}
