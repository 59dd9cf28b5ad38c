package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/briefer/internal/helpers"
)

const (
	ragBlockBegin = "=== BEGIN RETRIEVED DOCUMENT ==="
	ragBlockEnd   = "=== END RETRIEVED DOCUMENT ==="
	noLiveDataMsg = "NO LIVE NEWS DATA IS AVAILABLE. Do not invent sourced claims or cite outlets."
)

// ComposerConfig bounds the prompt size.
type ComposerConfig struct {
	MaxPromptNews int // news items rendered, top of the flattened list
	ExcerptChars  int // per-document body budget
}

// ComposePrompt renders the evidence into the system prompt handed to the
// generative model. Deterministic given the same inputs: no randomness, no
// I/O. Retrieved documents are wrapped in explicit begin/end markers so the
// model can tell grounded evidence apart from instructions.
func ComposePrompt(news []NewsItem, docs []RagDocument, today time.Time, location string, cfg ComposerConfig) string {
	if cfg.MaxPromptNews <= 0 {
		cfg.MaxPromptNews = 15
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = 1500
	}
	if location == "" {
		location = "your area"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a morning briefing assistant. Today is %s. The reader is in %s.
Produce a set of short briefing cards from the evidence below.

RULES:
1. Use only the evidence provided; never fabricate facts, figures or sources
2. Each card covers one distinct story or topic
3. Cards citing a retrieved document must set "ragContext" to true
4. category must be one of: current_events, business, weather, question, policy
5. sentiment must be one of: positive, neutral, negative, mixed
6. importance must be one of: high, medium, low

RESPONSE FORMAT:
Respond ONLY with valid JSON in the following format:
{
  "cards": [
    {
      "category": "current_events",
      "title": "short label",
      "headline": "one-line headline",
      "summary": "two or three sentence summary",
      "details": ["bullet one", "bullet two"],
      "sentiment": "neutral",
      "importance": "medium",
      "source": "outlet or document source",
      "sourceUrl": "https://... when a news item is cited",
      "ragContext": false
    }
  ]
}
Do not include any other text or explanation.

`, today.Format("Monday, January 2, 2006"), location)

	b.WriteString("LIVE NEWS:\n")
	if len(news) == 0 {
		b.WriteString(noLiveDataMsg)
		b.WriteString("\n")
	} else {
		max := cfg.MaxPromptNews
		if len(news) < max {
			max = len(news)
		}
		for i := 0; i < max; i++ {
			item := news[i]
			fmt.Fprintf(&b, "%d. [%s] %s / %s\n", i+1, item.Source, strings.TrimSpace(item.Title), strings.TrimSpace(item.Description))
		}
	}

	if len(docs) > 0 {
		b.WriteString("\nRETRIEVED CONTEXT DOCUMENTS:\n")
		for _, doc := range docs {
			body := helpers.CleanEvidence(doc.ProcessedText)
			if len(body) > cfg.ExcerptChars {
				body = body[:cfg.ExcerptChars]
			}
			b.WriteString(ragBlockBegin)
			b.WriteString("\n")
			fmt.Fprintf(&b, "Relevance: %.0f%%\nTitle: %s\nDate: %s\nAuthority: %s\nSource: %s\n\n%s\n",
				doc.Similarity*100,
				doc.Title,
				doc.DocumentDate.Format("2006-01-02"),
				doc.Authority,
				doc.SourceName,
				body,
			)
			b.WriteString(ragBlockEnd)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// GenerateInstruction is the fixed user message paired with the composed
// system prompt.
const GenerateInstruction = "Generate the briefing cards now. Respond with the JSON object only."
