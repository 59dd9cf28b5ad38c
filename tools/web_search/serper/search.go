package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/briefer/tools/web_search/models"
	"github.com/mohammad-safakhou/briefer/utils"
)

type Search struct {
	ApiKey  string
	Timeout time.Duration
}

func (s Search) Discover(ctx context.Context, q string, k int, recencyDays int) ([]models.Result, error) {
	// https://serper.dev/ docs
	payload := map[string]any{"q": q, "num": k}
	if recencyDays > 0 {
		payload["tbs"] = fmt.Sprintf("qdr:d%d", recencyDays)
	}

	body, _ := json.Marshal(payload)
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, _ := http.NewRequestWithContext(ctx, "POST", "https://google.serper.dev/news", strings.NewReader(string(body)))
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status: %d", resp.StatusCode)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	items, ok := raw["news"].([]any)
	if !ok {
		items, _ = raw["organic"].([]any)
	}
	var out []models.Result
	for i, it := range items {
		if i >= k {
			break
		}
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		link := utils.Str(m["link"])
		out = append(out, models.Result{
			Title:   utils.Str(m["title"]),
			URL:     link,
			Snippet: utils.Str(m["snippet"]),
			Source:  utils.Domain(link),
		})
	}
	return out, nil
}
