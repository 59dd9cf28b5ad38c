package web_search

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/briefer/tools/web_search/brave"
	"github.com/mohammad-safakhou/briefer/tools/web_search/models"
	"github.com/mohammad-safakhou/briefer/tools/web_search/serper"
)

type WebSearcher interface {
	// Discover runs one keyword query and returns up to k ranked results,
	// bounded to roughly the last recencyDays days where the provider
	// supports freshness filtering.
	Discover(ctx context.Context, q string, k int, recencyDays int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = &Error{"unsupported provider"}

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func NewWebSearcher(provider Provider, apiKey string, timeout time.Duration) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{ApiKey: apiKey, Timeout: timeout}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey, Timeout: timeout}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
