package briefing

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/briefer/tools/web_search"
)

// Aggregator fans out parallel queries to the search provider across a fixed
// topic set and flattens whatever succeeded. Topic outcomes are independent:
// a failing topic contributes zero items and is logged, nothing more.
type Aggregator struct {
	searcher    web_search.WebSearcher // nil when the provider key is absent
	topics      []string
	perTopic    int
	recencyDays int
	cacheTTL    time.Duration
	rdb         *redis.Client // nil disables caching
	logger      *log.Logger
}

func NewAggregator(searcher web_search.WebSearcher, topics []string, perTopic, recencyDays int, cacheTTL time.Duration, rdb *redis.Client, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(log.Writer(), "[NEWS] ", log.LstdFlags)
	}
	if perTopic <= 0 {
		perTopic = 4
	}
	return &Aggregator{
		searcher:    searcher,
		topics:      topics,
		perTopic:    perTopic,
		recencyDays: recencyDays,
		cacheTTL:    cacheTTL,
		rdb:         rdb,
		logger:      logger,
	}
}

// Fetch queries every topic in parallel and returns the flattened union of
// all successful topic results. Relative order across topics is not
// guaranteed; within one topic the provider's relevance order is preserved.
// A nil searcher short-circuits to an empty list without any network call:
// configuration absence is not an error condition.
func (a *Aggregator) Fetch(ctx context.Context) []NewsItem {
	if a.searcher == nil || len(a.topics) == 0 {
		return nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	var items []NewsItem

	for _, topic := range a.topics {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			topicItems, err := a.fetchTopic(ctx, topic)
			if err != nil {
				a.logger.Printf("topic %q failed: %v", topic, err)
				return
			}
			mu.Lock()
			items = append(items, topicItems...)
			mu.Unlock()
		}(topic)
	}
	wg.Wait()

	return items
}

func (a *Aggregator) fetchTopic(ctx context.Context, topic string) ([]NewsItem, error) {
	if cached, ok := a.cacheGet(ctx, topic); ok {
		return cached, nil
	}

	results, err := a.searcher.Discover(ctx, topic, a.perTopic, a.recencyDays)
	if err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, len(results))
	for _, r := range results {
		items = append(items, NewsItem{
			Title:       r.Title,
			Description: r.Snippet,
			URL:         r.URL,
			Source:      r.Source,
		})
	}
	a.cacheSet(ctx, topic, items)
	return items, nil
}

func (a *Aggregator) cacheKey(topic string) string { return "briefer:news:" + topic }

func (a *Aggregator) cacheGet(ctx context.Context, topic string) ([]NewsItem, bool) {
	if a.rdb == nil || a.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := a.rdb.Get(ctx, a.cacheKey(topic)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []NewsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (a *Aggregator) cacheSet(ctx context.Context, topic string, items []NewsItem) {
	if a.rdb == nil || a.cacheTTL <= 0 || len(items) == 0 {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := a.rdb.Set(ctx, a.cacheKey(topic), raw, a.cacheTTL).Err(); err != nil {
		a.logger.Printf("news cache set failed for %q: %v", topic, err)
	}
}
