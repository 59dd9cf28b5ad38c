package briefing

import "time"

// NewsItem is one search hit from the live news feed. Request-scoped: it is
// owned by the pipeline invocation that fetched it and never persisted.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// RagDocument is one supporting document from the retrieval store.
// Similarity is a measured score in [0,1] from the semantic tier, or the
// fixed PlaceholderSimilarity from the keyword tier; the two are not
// commensurable and must not be compared against each other.
type RagDocument struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ProcessedText string    `json:"processedText"`
	DocumentDate  time.Time `json:"documentDate"`
	Entity        string    `json:"entity"`
	Authority     string    `json:"authority"`
	SourceName    string    `json:"sourceName"`
	Similarity    float64   `json:"similarity"`
}

// PlaceholderSimilarity marks documents produced by the keyword/recency
// fallback tier, which has no measured score.
const PlaceholderSimilarity = 0.5

// Card categories.
const (
	CategoryCurrentEvents = "current_events"
	CategoryBusiness      = "business"
	CategoryWeather       = "weather"
	CategoryQuestion      = "question"
	CategoryPolicy        = "policy"
)

// Card sentiments.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

// Card importance levels.
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// BriefingCard is one structured dashboard card. Details is ordered:
// display order matters.
type BriefingCard struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Title         string    `json:"title"`
	Headline      string    `json:"headline"`
	Summary       string    `json:"summary"`
	Details       []string  `json:"details"`
	Sentiment     string    `json:"sentiment"`
	Importance    string    `json:"importance"`
	Source        string    `json:"source"`
	SourceURL     string    `json:"sourceUrl,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ActionItems   []string  `json:"actionItems,omitempty"`
	RelatedTopics []string  `json:"relatedTopics,omitempty"`
	RagContext    bool      `json:"ragContext"`
}

// Degradation tiers, best first. The tier label on a result is the
// pipeline's audit trail and is always populated.
const (
	TierLive             = "live"
	TierRagGrounded      = "rag-grounded"
	TierAIGenerated      = "ai-generated"
	TierRealDataFallback = "real-data-fallback"
	TierStaticFallback   = "static-fallback"
)

// PipelineResult is the envelope returned by one pipeline invocation.
type PipelineResult struct {
	Success       bool           `json:"success"`
	Cards         []BriefingCard `json:"cards"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	NewsItemsUsed int            `json:"newsItemsUsed"`
	RagDocsUsed   int            `json:"ragDocsUsed"`
	Source        string         `json:"source"`
	Note          string         `json:"note,omitempty"`
}
