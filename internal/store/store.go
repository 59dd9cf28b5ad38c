package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Store wraps the Postgres document store backing the RAG retriever.
type Store struct {
	DB *sql.DB
}

// DefaultEmbeddingDimensions indicates the expected length of semantic
// vectors stored in the pgvector column.
const DefaultEmbeddingDimensions = 1536

// Document is one stored briefing document. Similarity is only populated on
// rows returned by SearchDocuments.
type Document struct {
	ID            string
	Title         string
	ProcessedText string
	DocumentDate  time.Time
	Entity        string
	Authority     string
	SourceName    string
	SourceURL     string
	Similarity    float64
	CreatedAt     time.Time
}

// NewWithDSN constructs the Store using an explicit Postgres DSN.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// InsertDocument stores a document and its embedding. A nil vector is
// allowed: such rows are only reachable through the keyword/recency tier.
func (s *Store) InsertDocument(ctx context.Context, doc Document, vector []float32) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.DocumentDate.IsZero() {
		doc.DocumentDate = time.Now().UTC()
	}

	var vecLiteral sql.NullString
	if len(vector) > 0 {
		lit, err := encodeVectorLiteral(vector)
		if err != nil {
			return "", err
		}
		vecLiteral = sql.NullString{String: lit, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
INSERT INTO briefing_documents (id, title, processed_text, document_date, entity, authority, source_name, source_url, embedding, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::vector,NOW())
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  processed_text = EXCLUDED.processed_text,
  document_date = EXCLUDED.document_date,
  embedding = EXCLUDED.embedding
`, doc.ID, doc.Title, doc.ProcessedText, doc.DocumentDate, doc.Entity, doc.Authority, doc.SourceName, doc.SourceURL, vecLiteral)
	if err != nil {
		return "", fmt.Errorf("insert briefing document: %w", err)
	}
	return doc.ID, nil
}

// SearchDocuments returns the closest documents for the supplied vector,
// best first. Distance is cosine; similarity is reported as 1 - distance and
// rows below minSimilarity are dropped.
func (s *Store) SearchDocuments(ctx context.Context, vector []float32, topK int, minSimilarity float64) ([]Document, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector must not be empty")
	}
	if topK <= 0 {
		topK = 8
	}
	vecLiteral, err := encodeVectorLiteral(vector)
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, title, processed_text, document_date, entity, authority, source_name, source_url, created_at,
       embedding <=> $1::vector AS distance
FROM briefing_documents
WHERE embedding IS NOT NULL
ORDER BY embedding <=> $1::vector
LIMIT $2
`, vecLiteral, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Document
	for rows.Next() {
		var (
			doc      Document
			distance float64
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.ProcessedText, &doc.DocumentDate, &doc.Entity, &doc.Authority, &doc.SourceName, &doc.SourceURL, &doc.CreatedAt, &distance); err != nil {
			return nil, err
		}
		doc.Similarity = 1 - distance
		if doc.Similarity < minSimilarity {
			continue
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

// RecentDocuments returns the newest documents that carry non-empty
// processed text, newest document date first. Similarity is left zero; the
// retriever assigns the keyword-tier placeholder.
func (s *Store) RecentDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, title, processed_text, document_date, entity, authority, source_name, source_url, created_at
FROM briefing_documents
WHERE processed_text IS NOT NULL AND processed_text <> ''
ORDER BY document_date DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.ProcessedText, &doc.DocumentDate, &doc.Entity, &doc.Authority, &doc.SourceName, &doc.SourceURL, &doc.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

func encodeVectorLiteral(vec []float32) (string, error) {
	if len(vec) == 0 {
		return "", fmt.Errorf("vector must not be empty")
	}
	var builder strings.Builder
	builder.WriteByte('[')
	for i, f := range vec {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	builder.WriteByte(']')
	return builder.String(), nil
}
