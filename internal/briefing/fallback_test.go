package briefing

import (
	"reflect"
	"strings"
	"testing"
)

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Fed signals rate pause amid cooling inflation", CategoryPolicy},
		{"Stocks close at record high as earnings beat", CategoryBusiness},
		{"Hurricane warning issued for the coast", CategoryWeather},
		{"What to know about the new tax rules", CategoryQuestion},
		{"Local festival draws thousands", CategoryCurrentEvents},
		// policy beats business when both match
		{"Government regulation hits bank stocks", CategoryPolicy},
	}
	for _, c := range cases {
		if got := ClassifyCategory(c.text); got != c.want {
			t.Errorf("ClassifyCategory(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestClassifySentiment(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Markets rally to record high", SentimentPositive},
		{"Layoffs hit the sector amid crisis", SentimentNegative},
		{"Stocks surge after earlier crash fears", SentimentMixed},
		{"Committee meets on Tuesday", SentimentNeutral},
	}
	for _, c := range cases {
		if got := ClassifySentiment(c.text); got != c.want {
			t.Errorf("ClassifySentiment(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestSynthesizeNewsCards(t *testing.T) {
	news := []NewsItem{
		{Title: "Fed signals rate pause", Description: "The central bank held rates steady.", URL: "https://example.com/fed", Source: "reuters"},
		{Title: "Storm heads for the coast", Description: "Forecasters warn of flooding.", URL: "https://example.com/storm", Source: "ap"},
	}
	cards := Synthesize(news, nil)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Category != CategoryPolicy {
		t.Errorf("expected policy category, got %q", cards[0].Category)
	}
	if cards[0].Importance != ImportanceHigh {
		t.Errorf("first card should be high importance, got %q", cards[0].Importance)
	}
	if cards[0].RagContext {
		t.Error("news card must not claim rag context")
	}
	if cards[0].SourceURL != "https://example.com/fed" {
		t.Errorf("source url lost: %q", cards[0].SourceURL)
	}
	if cards[1].Category != CategoryWeather {
		t.Errorf("expected weather category, got %q", cards[1].Category)
	}
}

func TestSynthesizeDeduplicatesByURL(t *testing.T) {
	news := []NewsItem{
		{Title: "Same story", URL: "https://example.com/x", Source: "a"},
		{Title: "Same story again", URL: "https://example.com/x", Source: "b"},
		{Title: "Different story", URL: "https://example.com/y", Source: "c"},
	}
	cards := Synthesize(news, nil)
	if len(cards) != 2 {
		t.Fatalf("expected duplicate URL dropped, got %d cards", len(cards))
	}
	if cards[0].Title != "Same story" || cards[1].Title != "Different story" {
		t.Fatalf("wrong survivors: %q, %q", cards[0].Title, cards[1].Title)
	}
}

func TestSynthesizeImportanceRanking(t *testing.T) {
	var news []NewsItem
	for i := 0; i < 5; i++ {
		news = append(news, NewsItem{Title: "Story " + strings.Repeat("x", i+1)})
	}
	cards := Synthesize(news, nil)
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	for i, card := range cards {
		want := ImportanceMedium
		if i < 3 {
			want = ImportanceHigh
		}
		if card.Importance != want {
			t.Errorf("card %d importance = %q, want %q", i, card.Importance, want)
		}
	}
}

func TestSynthesizeRagCards(t *testing.T) {
	body := "The treasury department published new guidance on Thursday morning. " +
		"Officials said the change takes effect next quarter for all filers. " +
		"Smaller institutions get a six month extension to comply fully. " +
		"A fourth sentence that should not appear in the details list at all."
	docs := []RagDocument{
		{ID: "d1", Title: "Treasury guidance", ProcessedText: body, SourceName: "treasury.gov", Similarity: 0.82},
	}
	cards := Synthesize(nil, docs)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	card := cards[0]
	if !card.RagContext {
		t.Error("rag card must set RagContext")
	}
	if card.Importance != ImportanceHigh {
		t.Errorf("similarity 0.82 should be high importance, got %q", card.Importance)
	}
	if !strings.HasPrefix(card.Summary, "The treasury department") {
		t.Errorf("summary should be the first sentence, got %q", card.Summary)
	}
	if len(card.Details) != 2 {
		t.Fatalf("expected 2 detail sentences, got %d", len(card.Details))
	}
}

func TestSynthesizePlaceholderSimilarityNeverHigh(t *testing.T) {
	body := "A long enough sentence describing something from the keyword tier documents."
	docs := []RagDocument{
		{Title: "Keyword hit", ProcessedText: body, Similarity: PlaceholderSimilarity},
	}
	cards := Synthesize(nil, docs)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Importance != ImportanceMedium {
		t.Errorf("placeholder similarity must stay medium, got %q", cards[0].Importance)
	}
}

func TestSynthesizeSkipsUnquotableDocument(t *testing.T) {
	docs := []RagDocument{
		{Title: "Noise", ProcessedText: "Subscribe now! Short. Click here for more great offers today.", Similarity: 0.9},
	}
	if cards := Synthesize(nil, docs); len(cards) != 0 {
		t.Fatalf("expected unquotable document skipped, got %d cards", len(cards))
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	news := []NewsItem{
		{Title: "Markets steady", Description: "Trading was quiet on Monday morning.", URL: "https://example.com/m", Source: "ft"},
	}
	docs := []RagDocument{
		{Title: "Budget outlook", ProcessedText: "The annual budget review found spending broadly in line with forecasts.", Similarity: 0.7},
	}
	a := Synthesize(news, docs)
	b := Synthesize(news, docs)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("synthesis must be deterministic for identical evidence")
	}
}

func TestSynthesizeEmptyEvidence(t *testing.T) {
	if cards := Synthesize(nil, nil); len(cards) != 0 {
		t.Fatalf("expected no cards from no evidence, got %d", len(cards))
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second, with 3.5 in it. Third!")
	want := []string{"First one.", "Second, with 3.5 in it.", "Third!"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
