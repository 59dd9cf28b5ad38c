package briefing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/briefer/internal/helpers"
)

// Completer runs one chat completion. provider.Provider satisfies this.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerationError is the typed failure returned by the Generation Client.
// It never escapes as a panic: every failure mode hands control to the
// fallback synthesizer.
type GenerationError struct {
	Stage string // transport, extract, decode, shape
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failure: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator invokes the generative model and extracts a card array from its
// possibly noisy text response.
type Generator struct {
	llm    Completer // nil when the provider is not configured
	logger *log.Logger
}

func NewGenerator(llm Completer, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(log.Writer(), "[GEN] ", log.LstdFlags)
	}
	return &Generator{llm: llm, logger: logger}
}

// Available reports whether a generative model is configured at all.
func (g *Generator) Available() bool { return g.llm != nil }

// Generate issues one request to the model and parses the card array out of
// the response. Returned cards are not yet normalized; ids and timestamps
// are the assembler's job. All failures come back as *GenerationError.
func (g *Generator) Generate(ctx context.Context, systemPrompt string) ([]BriefingCard, error) {
	if g.llm == nil {
		return nil, &GenerationError{Stage: "transport", Err: fmt.Errorf("no model configured")}
	}

	raw, err := g.llm.Complete(ctx, systemPrompt, GenerateInstruction)
	if err != nil {
		g.logger.Printf("model call failed: %v", err)
		return nil, &GenerationError{Stage: "transport", Err: err}
	}

	// Models wrap JSON in prose or fences often enough that we scan for the
	// first balanced object instead of trusting the whole response.
	jsonStr, err := helpers.ExtractJSON(raw)
	if err != nil {
		g.logger.Printf("no JSON found in model response: %v", err)
		return nil, &GenerationError{Stage: "extract", Err: err}
	}

	var parsed struct {
		Cards []BriefingCard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		g.logger.Printf("model JSON did not decode: %v", err)
		return nil, &GenerationError{Stage: "decode", Err: err}
	}
	if len(parsed.Cards) == 0 {
		return nil, &GenerationError{Stage: "shape", Err: fmt.Errorf("cards array missing or empty")}
	}
	return parsed.Cards, nil
}
