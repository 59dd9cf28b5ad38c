package briefing

import (
	"strings"

	"github.com/mohammad-safakhou/briefer/internal/helpers"
)

// categoryBucket maps a card category to the keywords that select it.
// Buckets are checked in order and the first match wins; anything that
// matches nothing lands in current_events.
type categoryBucket struct {
	category string
	keywords []string
}

var categoryBuckets = []categoryBucket{
	{CategoryPolicy, []string{
		"fed", "federal reserve", "central bank", "policy", "regulation",
		"congress", "senate", "parliament", "government", "tariff",
		"legislation", "election", "sanction",
	}},
	{CategoryBusiness, []string{
		"market", "stock", "earnings", "economy", "company", "trade",
		"revenue", "merger", "startup", "inflation", "investor", "bank",
	}},
	{CategoryWeather, []string{
		"weather", "storm", "hurricane", "rain", "snow", "temperature",
		"forecast", "flood", "heatwave", "wildfire",
	}},
	{CategoryQuestion, []string{
		"explained", "what to know", "why ", "how to", "faq",
	}},
}

var positiveWords = []string{
	"gain", "rise", "rally", "growth", "improve", "record high", "win",
	"boost", "surge", "recover", "breakthrough", "approval",
}

var negativeWords = []string{
	"loss", "fall", "decline", "crash", "crisis", "fear", "drop", "cut",
	"conflict", "layoff", "lawsuit", "warning", "death", "war",
}

// ClassifyCategory assigns a category from the fixed keyword table. Pure:
// the same text always yields the same label.
func ClassifyCategory(text string) string {
	lower := strings.ToLower(text)
	for _, bucket := range categoryBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.category
			}
		}
	}
	return CategoryCurrentEvents
}

// ClassifySentiment assigns a sentiment from the fixed word lists. Both
// lists matching yields mixed, neither yields neutral. Pure.
func ClassifySentiment(text string) string {
	lower := strings.ToLower(text)
	pos := containsAny(lower, positiveWords)
	neg := containsAny(lower, negativeWords)
	switch {
	case pos && neg:
		return SentimentMixed
	case pos:
		return SentimentPositive
	case neg:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

const (
	// News cards beyond this rank drop from high to medium importance.
	highImportanceNewsCards = 3
	// RAG documents above this measured similarity are marked high.
	highImportanceSimilarity = 0.6
	// Sentences shorter than this are noise, not summaries.
	minSentenceLen = 40
)

// Boilerplate lead-ins that disqualify a sentence from summarisation.
var boilerplatePrefixes = []string{
	"subscribe", "sign up", "click here", "read more", "all rights reserved",
	"copyright", "follow us", "this article", "image:", "photo:",
}

// Synthesize deterministically builds cards straight from the evidence.
// Invoked only when generation failed; by construction every input already
// passed a relevance filter, so no card from this path is marked low.
func Synthesize(news []NewsItem, docs []RagDocument) []BriefingCard {
	var cards []BriefingCard

	seen := make(map[string]bool, len(news))
	newsRank := 0
	for _, item := range news {
		if item.URL != "" && seen[item.URL] {
			continue
		}
		if item.URL != "" {
			seen[item.URL] = true
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		desc := helpers.CleanEvidence(item.Description)
		text := title + " " + desc

		importance := ImportanceMedium
		if newsRank < highImportanceNewsCards {
			importance = ImportanceHigh
		}
		newsRank++

		card := BriefingCard{
			Category:   ClassifyCategory(text),
			Title:      title,
			Headline:   title,
			Summary:    desc,
			Sentiment:  ClassifySentiment(text),
			Importance: importance,
			Source:     item.Source,
			SourceURL:  item.URL,
			RagContext: false,
		}
		if card.Summary == "" {
			card.Summary = title
		}
		cards = append(cards, card)
	}

	for _, doc := range docs {
		summary, details := summariseDocument(doc.ProcessedText)
		if summary == "" {
			// Nothing quotable in this document; skip it rather than
			// emitting a degenerate empty card.
			continue
		}

		importance := ImportanceMedium
		if doc.Similarity != PlaceholderSimilarity && doc.Similarity > highImportanceSimilarity {
			importance = ImportanceHigh
		}

		text := doc.Title + " " + summary
		source := doc.SourceName
		if source == "" {
			source = doc.Authority
		}
		cards = append(cards, BriefingCard{
			Category:   ClassifyCategory(text),
			Title:      strings.TrimSpace(doc.Title),
			Headline:   strings.TrimSpace(doc.Title),
			Summary:    summary,
			Details:    details,
			Sentiment:  ClassifySentiment(text),
			Importance: importance,
			Source:     source,
			RagContext: true,
		})
	}

	return cards
}

// summariseDocument cleans the text, splits it into sentences and picks the
// first qualifying sentence as the summary plus up to two more as details.
// Returns an empty summary when no sentence qualifies.
func summariseDocument(raw string) (string, []string) {
	clean := helpers.CleanEvidence(raw)
	if clean == "" {
		return "", nil
	}

	var picked []string
	for _, sentence := range splitSentences(clean) {
		if !qualifies(sentence) {
			continue
		}
		picked = append(picked, sentence)
		if len(picked) == 3 {
			break
		}
	}
	if len(picked) == 0 {
		return "", nil
	}
	return picked[0], picked[1:]
}

func qualifies(sentence string) bool {
	if len(sentence) < minSentenceLen {
		return false
	}
	lower := strings.ToLower(sentence)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			next := i + 1
			if next >= len(runes) || runes[next] == ' ' || runes[next] == '\n' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
