package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/briefer/internal/ingest"
)

// Scheduler re-ingests the configured refresh URLs on a cron schedule so the
// document store stays fresh without an operator running the ingest command.
type Scheduler struct {
	Ingestor *ingest.Ingestor
	CronSpec string
	URLs     []string
	Rdb      *redis.Client
	Stop     chan struct{}

	lastRun time.Time
	logger  *log.Logger
}

func (s *Scheduler) Start() {
	if s.logger == nil {
		s.logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Scheduler) tick() {
	if !isDue(s.CronSpec, s.lastRun) {
		return
	}
	ctx := context.Background()

	// distributed lock to avoid duplicate refreshes across replicas
	if s.Rdb != nil {
		ok, _ := s.Rdb.SetNX(ctx, "briefer:sched:refresh", "1", 10*time.Minute).Result()
		if !ok {
			return
		}
		defer s.Rdb.Del(ctx, "briefer:sched:refresh")
	}

	s.lastRun = time.Now()
	for _, u := range s.URLs {
		if _, err := s.Ingestor.IngestURL(ctx, u); err != nil {
			s.logger.Printf("refresh of %s failed: %v", u, err)
		}
	}
}

// isDue determines whether a refresh governed by cronSpec should run now.
// Supports "@daily", "@hourly", and standard 5-field cron expressions.
func isDue(cronSpec string, last time.Time) bool {
	now := time.Now()
	switch cronSpec {
	case "@daily":
		return last.IsZero() || now.Sub(last) >= 24*time.Hour
	case "@hourly":
		return last.IsZero() || now.Sub(last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			// Invalid spec behaves like @daily rather than never firing.
			return last.IsZero() || now.Sub(last) >= 24*time.Hour
		}
		if last.IsZero() {
			return true
		}
		return !expr.Next(last).After(now)
	}
}
