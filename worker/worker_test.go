package worker

import (
	"testing"
	"time"

	"aggregator-service/model"
)

func TestDueForFetch(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-5 * time.Minute)
	stale := now.Add(-30 * time.Minute)

	tests := []struct {
		name string
		src  model.FeedSource
		want bool
	}{
		{"never fetched", model.FeedSource{FetchFrequency: 15}, true},
		{"recently fetched", model.FeedSource{FetchFrequency: 15, LastFetched: &recent}, false},
		{"window elapsed", model.FeedSource{FetchFrequency: 15, LastFetched: &stale}, true},
		{"zero frequency defaults to 15m", model.FeedSource{LastFetched: &recent}, false},
		{"exactly at boundary", model.FeedSource{FetchFrequency: 5, LastFetched: &recent}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dueForFetch(tt.src, now); got != tt.want {
				t.Errorf("dueForFetch() = %v, want %v", got, tt.want)
			}
		})
	}
}
