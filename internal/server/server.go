package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/briefer/config"
	"github.com/mohammad-safakhou/briefer/internal/briefing"
	"github.com/mohammad-safakhou/briefer/internal/ingest"
	"github.com/mohammad-safakhou/briefer/internal/store"
	"github.com/mohammad-safakhou/briefer/provider"
	"github.com/mohammad-safakhou/briefer/tools/web_fetch"
	"github.com/mohammad-safakhou/briefer/tools/web_search"
)

// Run wires the pipeline dependencies and serves the HTTP API. Every
// dependency is optional: a missing search key, LLM key or Postgres config
// disables that evidence source and the pipeline degrades instead of the
// server refusing to start.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Client-Info", "apikey"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	var rdb *redis.Client
	if cfg.Storage.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
	}

	var st *store.Store
	if cfg.Storage.Postgres.Configured() {
		dsn, err := cfg.Storage.Postgres.DSN()
		if err != nil {
			return err
		}
		st, err = store.NewWithDSN(ctx, dsn)
		if err != nil {
			return fmt.Errorf("document store: %w", err)
		}
	} else {
		baseLogger.Printf("postgres not configured; RAG retrieval disabled")
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		if err != provider.ErrNotConfigured {
			return err
		}
		baseLogger.Printf("llm provider not configured; generation and semantic retrieval disabled")
		llm = nil
	}

	var searcher web_search.WebSearcher
	if cfg.Sources.WebSearch.APIKey != "" {
		searcher, err = web_search.NewWebSearcher(
			web_search.Provider(cfg.Sources.WebSearch.Provider),
			cfg.Sources.WebSearch.APIKey,
			cfg.Sources.WebSearch.Timeout,
		)
		if err != nil {
			return err
		}
	} else {
		baseLogger.Printf("web search key not configured; news aggregation disabled")
	}

	aggregator := briefing.NewAggregator(
		searcher,
		cfg.Pipeline.Topics,
		cfg.Pipeline.PerTopicResults,
		cfg.Sources.WebSearch.RecencyDays,
		cfg.Sources.WebSearch.CacheTTL,
		rdb,
		nil,
	)

	var docs briefing.DocumentStore
	if st != nil {
		docs = st
	}
	var embedder briefing.Embedder
	if llm != nil {
		embedder = llm
	}
	retriever := briefing.NewRetriever(embedder, docs, briefing.RetrieverConfig{
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		MaxDocs:             cfg.Pipeline.MaxRagDocs,
		KeywordTierDocs:     cfg.Pipeline.KeywordTierDocs,
		RecentDocLimit:      cfg.Pipeline.RecentDocLimit,
		FallbackKeywords:    cfg.Pipeline.FallbackKeywords,
	}, nil)

	var completer briefing.Completer
	if llm != nil {
		completer = llm
	}
	generator := briefing.NewGenerator(completer, nil)

	pipeline := briefing.NewPipeline(aggregator, retriever, generator, briefing.ComposerConfig{
		MaxPromptNews: cfg.Pipeline.MaxPromptNews,
		ExcerptChars:  cfg.Pipeline.ExcerptChars,
	}, cfg.Pipeline.StageTimeout, nil)

	bh := &BriefingsHandler{Pipeline: pipeline, Logger: log.New(log.Writer(), "[BRIEFINGS] ", log.LstdFlags)}
	bh.Register(e.Group("/api"))

	// Optional cron refresh of the document store.
	if cfg.Ingest.RefreshCron != "" && st != nil && len(cfg.Ingest.RefreshURLs) > 0 {
		fetcher, err := web_fetch.NewWebFetcher(web_fetch.ChromedpFetcherType, cfg.Ingest.FetchTimeout, cfg.Ingest.MaxChars)
		if err != nil {
			return err
		}
		ing := ingest.New(fetcher, embedder, st, nil)
		sched := &Scheduler{
			Ingestor: ing,
			CronSpec: cfg.Ingest.RefreshCron,
			URLs:     cfg.Ingest.RefreshURLs,
			Rdb:      rdb,
			Stop:     make(chan struct{}),
		}
		sched.Start()
		defer close(sched.Stop)
	}

	return e.Start(cfg.Server.Address)
}
