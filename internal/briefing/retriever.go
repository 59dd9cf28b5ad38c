package briefing

import (
	"context"
	"log"
	"strings"

	"github.com/blevesearch/bleve"

	"github.com/mohammad-safakhou/briefer/internal/store"
)

// Embedder computes semantic vectors for text. *provider implementations
// satisfy this.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentStore is the read-only slice of the document store the retriever
// needs. *store.Store satisfies this.
type DocumentStore interface {
	SearchDocuments(ctx context.Context, vector []float32, topK int, minSimilarity float64) ([]store.Document, error)
	RecentDocuments(ctx context.Context, limit int) ([]store.Document, error)
}

// RetrieverConfig carries the tuning parameters inherited from the original
// deployment; see config.PipelineConfig for the defaults.
type RetrieverConfig struct {
	SimilarityThreshold float64
	MaxDocs             int
	KeywordTierDocs     int
	RecentDocLimit      int
	FallbackKeywords    []string
}

// Retriever resolves a context query into ranked supporting documents.
// Semantic retrieval is attempted first; when the embedding call fails,
// yields no usable vector, or the similarity search comes back empty, the
// keyword/recency tier takes over. Retrieval failure never propagates: the
// worst outcome is an empty result.
type Retriever struct {
	embedder Embedder      // nil disables the semantic tier
	docs     DocumentStore // nil disables retrieval entirely
	cfg      RetrieverConfig
	logger   *log.Logger
}

func NewRetriever(embedder Embedder, docs DocumentStore, cfg RetrieverConfig, logger *log.Logger) *Retriever {
	if logger == nil {
		logger = log.New(log.Writer(), "[RAG] ", log.LstdFlags)
	}
	if cfg.MaxDocs <= 0 {
		cfg.MaxDocs = 8
	}
	if cfg.KeywordTierDocs <= 0 {
		cfg.KeywordTierDocs = 4
	}
	if cfg.RecentDocLimit <= 0 {
		cfg.RecentDocLimit = 20
	}
	return &Retriever{embedder: embedder, docs: docs, cfg: cfg, logger: logger}
}

// Retrieve returns supporting documents for query, ranked best-first and
// bounded to the configured maximum.
func (r *Retriever) Retrieve(ctx context.Context, query string) (out []RagDocument) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("retrieval panic recovered: %v", rec)
			out = nil
		}
	}()

	if r.docs == nil {
		return nil
	}

	if docs := r.semanticTier(ctx, query); len(docs) > 0 {
		return docs
	}
	return r.keywordTier(ctx)
}

func (r *Retriever) semanticTier(ctx context.Context, query string) []RagDocument {
	if r.embedder == nil || query == "" {
		return nil
	}
	vecs, err := r.embedder.CreateEmbedding(ctx, []string{query})
	if err != nil {
		r.logger.Printf("embedding failed, falling back to keyword tier: %v", err)
		return nil
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		r.logger.Printf("embedding returned no usable vector")
		return nil
	}

	docs, err := r.docs.SearchDocuments(ctx, vecs[0], r.cfg.MaxDocs, r.cfg.SimilarityThreshold)
	if err != nil {
		r.logger.Printf("similarity search failed, falling back to keyword tier: %v", err)
		return nil
	}
	return toRagDocuments(docs, false)
}

// keywordTier ranks the most recently dated documents against the fixed
// keyword set using an in-memory BM25 index. Every returned document gets
// the placeholder similarity, never a measured score.
func (r *Retriever) keywordTier(ctx context.Context) []RagDocument {
	recent, err := r.docs.RecentDocuments(ctx, r.cfg.RecentDocLimit)
	if err != nil {
		r.logger.Printf("recent-document fetch failed: %v", err)
		return nil
	}
	if len(recent) == 0 || len(r.cfg.FallbackKeywords) == 0 {
		return nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		r.logger.Printf("keyword index: %v", err)
		return nil
	}
	defer index.Close()

	byID := make(map[string]store.Document, len(recent))
	for _, doc := range recent {
		byID[doc.ID] = doc
		entry := struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}{Title: doc.Title, Body: doc.ProcessedText}
		if err := index.Index(doc.ID, entry); err != nil {
			r.logger.Printf("keyword index doc %s: %v", doc.ID, err)
		}
	}

	// Query-string terms are OR'd: one keyword match is enough to qualify.
	query := bleve.NewQueryStringQuery(strings.Join(r.cfg.FallbackKeywords, " "))
	searchReq := bleve.NewSearchRequestOptions(query, r.cfg.KeywordTierDocs, 0, false)
	res, err := index.Search(searchReq)
	if err != nil {
		r.logger.Printf("keyword search: %v", err)
		return nil
	}

	var matched []store.Document
	for _, hit := range res.Hits {
		if doc, ok := byID[hit.ID]; ok {
			matched = append(matched, doc)
		}
	}
	return toRagDocuments(matched, true)
}

func toRagDocuments(docs []store.Document, placeholder bool) []RagDocument {
	if len(docs) == 0 {
		return nil
	}
	out := make([]RagDocument, 0, len(docs))
	for _, doc := range docs {
		rd := RagDocument{
			ID:            doc.ID,
			Title:         doc.Title,
			ProcessedText: doc.ProcessedText,
			DocumentDate:  doc.DocumentDate,
			Entity:        doc.Entity,
			Authority:     doc.Authority,
			SourceName:    doc.SourceName,
			Similarity:    doc.Similarity,
		}
		if placeholder {
			rd.Similarity = PlaceholderSimilarity
		}
		out = append(out, rd)
	}
	return out
}

