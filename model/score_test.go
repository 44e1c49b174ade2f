package model

import (
	"testing"
	"time"
)

func TestUtility(t *testing.T) {
	tests := []struct {
		name                             string
		knowledge, credibility, distract float64
		want                             float64
	}{
		{"typical", 7, 8, 3, 12},
		{"all zero", 0, 0, 0, 0},
		{"distraction dominates", 2, 1, 9, 0},
		{"max scores", 10, 10, 0, 20},
		{"fractional", 5.5, 4.5, 2.5, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Utility(tt.knowledge, tt.credibility, tt.distract)
			if got != tt.want {
				t.Errorf("Utility(%v, %v, %v) = %v, want %v",
					tt.knowledge, tt.credibility, tt.distract, got, tt.want)
			}
		})
	}
}

func TestUtilityNeverNegative(t *testing.T) {
	for k := 0.0; k <= 10; k += 2.5 {
		for c := 0.0; c <= 10; c += 2.5 {
			for d := 0.0; d <= 10; d += 2.5 {
				if got := Utility(k, c, d); got < 0 {
					t.Fatalf("Utility(%v, %v, %v) = %v, want >= 0", k, c, d, got)
				}
			}
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{5.5, 5.5},
		{10, 10},
		{12.3, 10},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewContentRecordComputesUtility(t *testing.T) {
	rec := NewContentRecord("T", "B", "S", "http://example.com", ContentTypeArticle, time.Time{}, Analysis{
		KnowledgeDensityScore: 8,
		CredibilityScore:      7,
		DistractionScore:      2,
		Summary:               "sum",
		Tags:                  []string{"go"},
	})

	if rec.ID == "" {
		t.Error("expected generated id")
	}
	if rec.CognitiveUtilityScore != 13 {
		t.Errorf("utility = %v, want 13", rec.CognitiveUtilityScore)
	}
	if rec.PublishedDate.IsZero() {
		t.Error("expected published date to default to now")
	}
	if rec.Summary != "sum" {
		t.Errorf("summary = %q", rec.Summary)
	}
}

func TestNewContentRecordClampsScores(t *testing.T) {
	rec := NewContentRecord("T", "B", "S", "", ContentTypeManual, time.Now(), Analysis{
		KnowledgeDensityScore: 15,
		CredibilityScore:      -3,
		DistractionScore:      11,
	})

	if rec.KnowledgeDensityScore != 10 || rec.CredibilityScore != 0 || rec.DistractionScore != 10 {
		t.Errorf("scores not clamped: %v, %v, %v",
			rec.KnowledgeDensityScore, rec.CredibilityScore, rec.DistractionScore)
	}
	if rec.CognitiveUtilityScore != 0 {
		t.Errorf("utility = %v, want 0", rec.CognitiveUtilityScore)
	}
}

func TestCounterField(t *testing.T) {
	tests := []struct {
		action string
		field  string
		ok     bool
	}{
		{ActionExpand, "expand_count", true},
		{ActionHelpful, "helpful_votes", true},
		{ActionUnhelpful, "unhelpful_votes", true},
		{ActionFlag, "flagged_count", true},
		{"upvote", "", false},
	}

	for _, tt := range tests {
		field, ok := CounterField(tt.action)
		if field != tt.field || ok != tt.ok {
			t.Errorf("CounterField(%q) = %q, %v; want %q, %v", tt.action, field, ok, tt.field, tt.ok)
		}
	}
}
