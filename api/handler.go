package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"aggregator-service/metrics"
	"aggregator-service/model"
	"aggregator-service/ranking"
	"aggregator-service/store"
)

// Ingestor runs the ingestion pipeline for the API.
type Ingestor interface {
	IngestSource(ctx context.Context, sourceID string) (int, error)
	IngestManual(ctx context.Context, title, body, source string) (string, error)
	Analyze(ctx context.Context, title, body, source string) model.Analysis
}

// ContentStore is the query surface for ranked content and feedback counters.
type ContentStore interface {
	ListRanked(ctx context.Context, limit int, minScore float64, sorted bool) ([]model.ContentRecord, error)
	IncrementCounter(ctx context.Context, id, field string) error
}

// SourceStore manages feed source configuration.
type SourceStore interface {
	Insert(ctx context.Context, src model.FeedSource) error
	List(ctx context.Context) ([]model.FeedSource, error)
	ListEnabled(ctx context.Context) ([]model.FeedSource, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
}

// FeedbackStore appends feedback events.
type FeedbackStore interface {
	Insert(ctx context.Context, ev model.FeedbackEvent) error
}

// FetchPublisher queues asynchronous fetch jobs for the worker. Optional: a
// nil publisher disables the fetch-all endpoint.
type FetchPublisher interface {
	PublishFetch(sourceID string) error
}

// Handler holds the collaborators behind the API routes.
type Handler struct {
	ingestor  Ingestor
	content   ContentStore
	sources   SourceStore
	feedback  FeedbackStore
	publisher FetchPublisher
}

func NewHandler(ingestor Ingestor, content ContentStore, sources SourceStore, feedback FeedbackStore, publisher FetchPublisher) *Handler {
	return &Handler{
		ingestor:  ingestor,
		content:   content,
		sources:   sources,
		feedback:  feedback,
		publisher: publisher,
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Knowledge Aggregator API"})
}

func (h *Handler) getContent(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	minScore := floatQuery(c, "min_score", 0)
	serendipity := c.Query("serendipity") == "true"

	// Serendipity retrieves a double-size unordered batch and lets the ranker
	// sample it; the strict path lets the database sort and truncate.
	fetchLimit := limit
	if serendipity {
		fetchLimit = limit * 2
	}

	records, err := h.content.ListRanked(c.Request.Context(), fetchLimit, minScore, !serendipity)
	if err != nil {
		log.Printf("Error fetching content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching content"})
		return
	}

	ranked := ranking.Rank(records, limit, minScore, serendipity)
	if ranked == nil {
		ranked = []model.ContentRecord{}
	}
	c.JSON(http.StatusOK, ranked)
}

type analyzeRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Source  string `json:"source" binding:"required"`
}

func (h *Handler) analyzeContent(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis := h.ingestor.Analyze(c.Request.Context(), req.Title, req.Content, req.Source)
	c.JSON(http.StatusOK, analysis)
}

type manualUploadRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Source  string `json:"source"`
}

func (h *Handler) uploadManualContent(c *gin.Context) {
	var req manualUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = "Manual Upload"
	}

	id, err := h.ingestor.IngestManual(c.Request.Context(), req.Title, req.Content, req.Source)
	if err != nil {
		log.Printf("Error uploading manual content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "content_id": id})
}

type addSourceRequest struct {
	Name            string   `json:"name" binding:"required"`
	URL             string   `json:"url" binding:"required"`
	Enabled         *bool    `json:"enabled"`
	ReputationScore *float64 `json:"reputation_score"`
	FetchFrequency  *int     `json:"fetch_frequency"`
}

func (h *Handler) addSource(c *gin.Context) {
	var req addSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src := model.NewFeedSource(req.Name, req.URL)
	if req.Enabled != nil {
		src.Enabled = *req.Enabled
	}
	if req.ReputationScore != nil {
		src.ReputationScore = model.ClampScore(*req.ReputationScore)
	}
	if req.FetchFrequency != nil {
		src.FetchFrequency = *req.FetchFrequency
	}

	if err := h.sources.Insert(c.Request.Context(), src); err != nil {
		log.Printf("Error adding source: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding RSS source"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "source_id": src.ID})
}

func (h *Handler) listSources(c *gin.Context) {
	sources, err := h.sources.List(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching sources: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching RSS sources"})
		return
	}
	if sources == nil {
		sources = []model.FeedSource{}
	}
	c.JSON(http.StatusOK, sources)
}

func (h *Handler) fetchSource(c *gin.Context) {
	sourceID := c.Param("id")

	count, err := h.ingestor.IngestSource(c.Request.Context(), sourceID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "RSS source not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching source %s: %v", sourceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching RSS source"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "processed_count": count})
}

func (h *Handler) fetchAllSources(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fetch queue unavailable"})
		return
	}

	sources, err := h.sources.ListEnabled(c.Request.Context())
	if err != nil {
		log.Printf("Error listing sources for fetch-all: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing RSS sources"})
		return
	}

	triggered := 0
	for _, src := range sources {
		if err := h.publisher.PublishFetch(src.ID); err != nil {
			log.Printf("Failed to queue fetch for %s: %v", src.Name, err)
			continue
		}
		triggered++
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "triggered": triggered})
}

type feedbackRequest struct {
	ContentID string `json:"content_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

func (h *Handler) logFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field, ok := model.CounterField(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown feedback action"})
		return
	}

	ev := model.NewFeedbackEvent(req.ContentID, req.Action)
	if err := h.feedback.Insert(c.Request.Context(), ev); err != nil {
		log.Printf("Error logging feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging feedback"})
		return
	}

	// Vanished content id matches nothing; the no-op is intentional.
	if err := h.content.IncrementCounter(c.Request.Context(), req.ContentID, field); err != nil {
		log.Printf("Error updating feedback counter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging feedback"})
		return
	}

	metrics.FeedbackEvents.WithLabelValues(req.Action).Inc()
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

var defaultSources = []struct {
	Name       string
	URL        string
	Reputation float64
}{
	{"BBC News", "http://feeds.bbci.co.uk/news/rss.xml", 8.5},
	{"Reuters", "http://feeds.reuters.com/reuters/topNews", 8.0},
	{"NPR", "https://feeds.npr.org/1001/rss.xml", 8.0},
	{"The Guardian", "https://www.theguardian.com/international/rss", 7.5},
	{"Associated Press", "https://feeds.apnews.com/apnews/topnews", 8.0},
}

func (h *Handler) setupDefaultSources(c *gin.Context) {
	for _, d := range defaultSources {
		exists, err := h.sources.ExistsByURL(c.Request.Context(), d.URL)
		if err != nil {
			log.Printf("Error checking default source %s: %v", d.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error setting up default sources"})
			return
		}
		if exists {
			continue
		}

		src := model.NewFeedSource(d.Name, d.URL)
		src.ReputationScore = d.Reputation
		if err := h.sources.Insert(c.Request.Context(), src); err != nil {
			log.Printf("Error inserting default source %s: %v", d.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error setting up default sources"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Default sources added"})
}
