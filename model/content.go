package model

import (
	"time"

	"github.com/google/uuid"
)

// Content types assigned at creation, immutable afterwards.
const (
	ContentTypeArticle    = "article"
	ContentTypeTranscript = "transcript"
	ContentTypeManual     = "manual"
)

// ContentRecord is one unit of ranked content. Scores live on a 0-10 scale;
// CognitiveUtilityScore is always derived from the three raw scores.
type ContentRecord struct {
	ID            string    `json:"id" bson:"id"`
	Title         string    `json:"title" bson:"title"`
	Content       string    `json:"content" bson:"content"`
	Summary       string    `json:"summary" bson:"summary"`
	Source        string    `json:"source" bson:"source"`
	SourceURL     string    `json:"source_url" bson:"source_url"`
	PublishedDate time.Time `json:"published_date" bson:"published_date"`

	KnowledgeDensityScore float64 `json:"knowledge_density_score" bson:"knowledge_density_score"`
	CredibilityScore      float64 `json:"credibility_score" bson:"credibility_score"`
	DistractionScore      float64 `json:"distraction_score" bson:"distraction_score"`
	CognitiveUtilityScore float64 `json:"cognitive_utility_score" bson:"cognitive_utility_score"`

	ContentType   string   `json:"content_type" bson:"content_type"`
	Tags          []string `json:"tags" bson:"tags"`
	EvidenceLinks []string `json:"evidence_links" bson:"evidence_links"`

	ExpandCount    int `json:"expand_count" bson:"expand_count"`
	HelpfulVotes   int `json:"helpful_votes" bson:"helpful_votes"`
	UnhelpfulVotes int `json:"unhelpful_votes" bson:"unhelpful_votes"`
	FlaggedCount   int `json:"flagged_count" bson:"flagged_count"`
}

// NewContentRecord builds a scored record. Raw scores are clamped to the 0-10
// scale and the cognitive utility score is computed from the clamped values,
// so a stored record can never violate the utility invariant. A zero published
// time defaults to the ingestion time.
func NewContentRecord(title, content, source, sourceURL, contentType string, published time.Time, a Analysis) ContentRecord {
	if published.IsZero() {
		published = time.Now().UTC()
	}
	if contentType == "" {
		contentType = ContentTypeArticle
	}

	knowledge := ClampScore(a.KnowledgeDensityScore)
	credibility := ClampScore(a.CredibilityScore)
	distraction := ClampScore(a.DistractionScore)

	return ContentRecord{
		ID:            uuid.NewString(),
		Title:         title,
		Content:       content,
		Summary:       a.Summary,
		Source:        source,
		SourceURL:     sourceURL,
		PublishedDate: published,

		KnowledgeDensityScore: knowledge,
		CredibilityScore:      credibility,
		DistractionScore:      distraction,
		CognitiveUtilityScore: Utility(knowledge, credibility, distraction),

		ContentType:   contentType,
		Tags:          a.Tags,
		EvidenceLinks: a.EvidenceLinks,
	}
}

// FeedSource is the configuration for one ingestible feed.
type FeedSource struct {
	ID              string     `json:"id" bson:"id"`
	Name            string     `json:"name" bson:"name"`
	URL             string     `json:"url" bson:"url"`
	Enabled         bool       `json:"enabled" bson:"enabled"`
	LastFetched     *time.Time `json:"last_fetched" bson:"last_fetched"`
	ReputationScore float64    `json:"reputation_score" bson:"reputation_score"`
	FetchFrequency  int        `json:"fetch_frequency" bson:"fetch_frequency"` // minutes
}

// NewFeedSource builds an enabled source with mid-scale reputation and a
// 15 minute fetch frequency unless overridden by the caller afterwards.
func NewFeedSource(name, url string) FeedSource {
	return FeedSource{
		ID:              uuid.NewString(),
		Name:            name,
		URL:             url,
		Enabled:         true,
		ReputationScore: 5.0,
		FetchFrequency:  15,
	}
}

// Feedback actions.
const (
	ActionExpand    = "expand"
	ActionHelpful   = "helpful"
	ActionUnhelpful = "unhelpful"
	ActionFlag      = "flag"
)

// FeedbackEvent is an append-only log entry for one user interaction.
type FeedbackEvent struct {
	ID        string    `json:"id" bson:"id"`
	ContentID string    `json:"content_id" bson:"content_id"`
	Action    string    `json:"action" bson:"action"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func NewFeedbackEvent(contentID, action string) FeedbackEvent {
	return FeedbackEvent{
		ID:        uuid.NewString(),
		ContentID: contentID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

var counterFields = map[string]string{
	ActionExpand:    "expand_count",
	ActionHelpful:   "helpful_votes",
	ActionUnhelpful: "unhelpful_votes",
	ActionFlag:      "flagged_count",
}

// CounterField maps a feedback action to the content counter it increments.
func CounterField(action string) (string, bool) {
	field, ok := counterFields[action]
	return field, ok
}
