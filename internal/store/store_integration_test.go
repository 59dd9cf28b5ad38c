package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammad-safakhou/briefer/internal/store"
)

func TestDocumentStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("pgvector/pgvector:pg16"),
		tcPostgres.WithDatabase("briefer"),
		tcPostgres.WithUsername("briefer"),
		tcPostgres.WithPassword("briefer"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://briefer:briefer@%s:%s/briefer?sslmode=disable", host, port.Port())
	if err := applySchema(ctx, dsn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer st.DB.Close()

	vecA := unitVector(0)
	vecB := unitVector(1)

	idA, err := st.InsertDocument(ctx, store.Document{
		Title:         "Policy review",
		ProcessedText: "The policy review covered the annual budget in detail.",
		DocumentDate:  time.Now().UTC(),
		SourceName:    "archive",
	}, vecA)
	if err != nil {
		t.Fatalf("insert A: %v", err)
	}
	if _, err := st.InsertDocument(ctx, store.Document{
		Title:         "Market wrap",
		ProcessedText: "Markets closed mixed after a quiet session.",
		DocumentDate:  time.Now().UTC().Add(-time.Hour),
		SourceName:    "archive",
	}, vecB); err != nil {
		t.Fatalf("insert B: %v", err)
	}
	// Stored without a vector: visible to the keyword tier only.
	if _, err := st.InsertDocument(ctx, store.Document{
		Title:         "Unembedded note",
		ProcessedText: "This document has no embedding at all.",
		DocumentDate:  time.Now().UTC().Add(-2 * time.Hour),
	}, nil); err != nil {
		t.Fatalf("insert C: %v", err)
	}

	docs, err := st.SearchDocuments(ctx, vecA, 8, 0.4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("expected at least the exact-match document")
	}
	if docs[0].ID != idA {
		t.Fatalf("best match should be the identical vector, got %s", docs[0].ID)
	}
	if docs[0].Similarity < 0.99 {
		t.Fatalf("identical vectors should score ~1, got %v", docs[0].Similarity)
	}
	for _, d := range docs {
		if d.Title == "Unembedded note" {
			t.Fatal("vector search must not return rows without embeddings")
		}
	}

	recent, err := st.RecentDocuments(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected all 3 documents, got %d", len(recent))
	}
	if recent[0].Title != "Policy review" {
		t.Fatalf("expected newest document first, got %q", recent[0].Title)
	}

	// Upsert: re-inserting the same id replaces the content.
	if _, err := st.InsertDocument(ctx, store.Document{
		ID:            idA,
		Title:         "Policy review (revised)",
		ProcessedText: "Revised text.",
		DocumentDate:  time.Now().UTC(),
	}, vecA); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	recent, err = st.RecentDocuments(ctx, 10)
	if err != nil {
		t.Fatalf("recent after upsert: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("upsert must not add a row, got %d", len(recent))
	}
}

func applySchema(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	schemaSQL := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS briefing_documents (
  id UUID PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  processed_text TEXT NOT NULL DEFAULT '',
  document_date TIMESTAMPTZ NOT NULL,
  entity TEXT NOT NULL DEFAULT '',
  authority TEXT NOT NULL DEFAULT '',
  source_name TEXT NOT NULL DEFAULT '',
  source_url TEXT NOT NULL DEFAULT '',
  embedding vector(%d),
  created_at TIMESTAMPTZ DEFAULT NOW()
);
`, testDims)

	_, err = db.ExecContext(ctx, schemaSQL)
	return err
}

const testDims = 8

func unitVector(hot int) []float32 {
	v := make([]float32, testDims)
	v[hot%testDims] = 1
	return v
}
