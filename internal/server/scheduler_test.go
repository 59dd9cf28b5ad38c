package server

import (
	"testing"
	"time"
)

func TestIsDue(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		spec string
		last time.Time
		want bool
	}{
		{"hourly never run", "@hourly", time.Time{}, true},
		{"hourly recent", "@hourly", now.Add(-10 * time.Minute), false},
		{"hourly stale", "@hourly", now.Add(-2 * time.Hour), true},
		{"daily recent", "@daily", now.Add(-3 * time.Hour), false},
		{"daily stale", "@daily", now.Add(-25 * time.Hour), true},
		{"cron never run", "0 6 * * *", time.Time{}, true},
		{"cron stale", "0 6 * * *", now.Add(-48 * time.Hour), true},
		{"invalid spec acts daily", "not a cron", now.Add(-1 * time.Hour), false},
		{"invalid spec stale", "not a cron", now.Add(-30 * time.Hour), true},
	}
	for _, c := range cases {
		if got := isDue(c.spec, c.last); got != c.want {
			t.Errorf("%s: isDue(%q, %v) = %v, want %v", c.name, c.spec, c.last, got, c.want)
		}
	}
}
