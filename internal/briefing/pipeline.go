package briefing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Pipeline runs one briefing generation: news aggregation and RAG retrieval
// in parallel, prompt composition, a generation attempt, and the degradation
// ladder when generation fails. No stage failure is fatal; the caller always
// gets cards.
type Pipeline struct {
	aggregator   *Aggregator
	retriever    *Retriever
	generator    *Generator
	composer     ComposerConfig
	stageTimeout time.Duration
	logger       *log.Logger
}

func NewPipeline(aggregator *Aggregator, retriever *Retriever, generator *Generator, composer ComposerConfig, stageTimeout time.Duration, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags)
	}
	if stageTimeout <= 0 {
		stageTimeout = 20 * time.Second
	}
	return &Pipeline{
		aggregator:   aggregator,
		retriever:    retriever,
		generator:    generator,
		composer:     composer,
		stageTimeout: stageTimeout,
		logger:       logger,
	}
}

// Run executes one pipeline invocation for the given location. The returned
// result always carries cards and a tier label recording which rung of the
// ladder produced them.
func (p *Pipeline) Run(ctx context.Context, location string) PipelineResult {
	today := time.Now().UTC()

	var (
		wg   sync.WaitGroup
		news []NewsItem
		docs []RagDocument
	)

	// News and RAG are independent; a slow retriever must not delay or
	// cancel the news fan-out and vice versa.
	wg.Add(2)
	go func() {
		defer wg.Done()
		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		start := time.Now()
		news = p.aggregator.Fetch(stageCtx)
		stageSeconds.WithLabelValues("news").Observe(time.Since(start).Seconds())
	}()
	go func() {
		defer wg.Done()
		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		start := time.Now()
		docs = p.retriever.Retrieve(stageCtx, contextQuery(location, today))
		stageSeconds.WithLabelValues("rag").Observe(time.Since(start).Seconds())
	}()
	wg.Wait()

	p.logger.Printf("evidence gathered: %d news items, %d rag documents", len(news), len(docs))

	prompt := ComposePrompt(news, docs, today, location, p.composer)

	if p.generator.Available() {
		genCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		start := time.Now()
		cards, err := p.generator.Generate(genCtx, prompt)
		cancel()
		stageSeconds.WithLabelValues("generate").Observe(time.Since(start).Seconds())
		if err == nil {
			tier := generationTier(len(news), len(docs))
			resultsTotal.WithLabelValues(tier).Inc()
			return Assemble(cards, tier, len(news), len(docs), "")
		}
		p.logger.Printf("generation failed, synthesizing from evidence: %v", err)
	} else {
		p.logger.Printf("no generative model configured, synthesizing from evidence")
	}

	if cards := Synthesize(news, docs); len(cards) > 0 {
		resultsTotal.WithLabelValues(TierRealDataFallback).Inc()
		return Assemble(cards, TierRealDataFallback, len(news), len(docs),
			"generated without AI synthesis from live evidence")
	}

	resultsTotal.WithLabelValues(TierStaticFallback).Inc()
	return Assemble(StaticCards(today), TierStaticFallback, len(news), len(docs),
		"no evidence sources available")
}

// generationTier labels a successful generation by the evidence that
// grounded it.
func generationTier(newsCount, ragCount int) string {
	switch {
	case newsCount > 0:
		return TierLive
	case ragCount > 0:
		return TierRagGrounded
	default:
		return TierAIGenerated
	}
}

func contextQuery(location string, today time.Time) string {
	if location == "" {
		location = "the reader's area"
	}
	return fmt.Sprintf("morning briefing context for %s on %s", location, today.Format("January 2, 2006"))
}
