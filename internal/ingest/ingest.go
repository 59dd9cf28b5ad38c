package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/briefer/internal/briefing"
	"github.com/mohammad-safakhou/briefer/internal/helpers"
	"github.com/mohammad-safakhou/briefer/internal/store"
	"github.com/mohammad-safakhou/briefer/tools/web_fetch"
	"github.com/mohammad-safakhou/briefer/utils"
)

// Ingestor loads web pages into the briefing document store: fetch, extract
// readable text, clean, embed, insert. It exists so the RAG tier has
// something to retrieve.
type Ingestor struct {
	fetcher  web_fetch.WebFetcher
	embedder briefing.Embedder // nil stores documents without vectors
	store    *store.Store
	logger   *log.Logger
}

func New(fetcher web_fetch.WebFetcher, embedder briefing.Embedder, st *store.Store, logger *log.Logger) *Ingestor {
	if logger == nil {
		logger = log.New(log.Writer(), "[INGEST] ", log.LstdFlags)
	}
	return &Ingestor{fetcher: fetcher, embedder: embedder, store: st, logger: logger}
}

// IngestURL fetches one page and stores it as a briefing document. An
// embedding failure downgrades the document to keyword-tier-only rather
// than failing the ingest.
func (i *Ingestor) IngestURL(ctx context.Context, rawURL string) (string, error) {
	page, err := i.fetcher.Exec(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	text := helpers.CleanEvidence(page.Text)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no readable text at %s", rawURL)
	}

	var vector []float32
	if i.embedder != nil {
		vecs, err := i.embedder.CreateEmbedding(ctx, []string{embeddingInput(page.Title, text)})
		if err != nil {
			i.logger.Printf("embedding failed for %s, storing without vector: %v", rawURL, err)
		} else if len(vecs) > 0 {
			vector = vecs[0]
		}
	}

	sourceName := page.SiteName
	if sourceName == "" {
		sourceName = utils.Domain(rawURL)
	}
	id, err := i.store.InsertDocument(ctx, store.Document{
		Title:         page.Title,
		ProcessedText: text,
		DocumentDate:  time.Now().UTC(),
		Authority:     page.Byline,
		SourceName:    sourceName,
		SourceURL:     rawURL,
	}, vector)
	if err != nil {
		return "", err
	}
	i.logger.Printf("ingested %s as document %s (%d chars, embedded=%t)", rawURL, id, len(text), len(vector) > 0)
	return id, nil
}

// embeddingInput bounds what we send to the embedding endpoint; the full
// article body can exceed the model's input budget.
func embeddingInput(title, text string) string {
	const maxEmbedChars = 6000
	s := title + "\n" + text
	if len(s) > maxEmbedChars {
		s = s[:maxEmbedChars]
	}
	return s
}
