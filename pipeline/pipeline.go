package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"aggregator-service/feed"
	"aggregator-service/metrics"
	"aggregator-service/model"
	"aggregator-service/scoring"
	"aggregator-service/store"
)

// ExcerptLimit bounds the body text sent to the scoring oracle per article.
const ExcerptLimit = 2000

// ContentStore is the pipeline's view of content persistence.
type ContentStore interface {
	ExistsByTitleSource(ctx context.Context, title, source string) (bool, error)
	Insert(ctx context.Context, rec model.ContentRecord) error
}

// SourceStore is the pipeline's view of feed source configuration.
type SourceStore interface {
	FindByID(ctx context.Context, id string) (*model.FeedSource, error)
	UpdateLastFetched(ctx context.Context, id string, t time.Time) error
}

// Fetcher retrieves a raw feed document.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Oracle scores content, returning the raw response for the extractor.
// It reports scoring.ErrNotConfigured when no credential is available.
type Oracle interface {
	Score(ctx context.Context, title, excerpt, source string) (string, error)
}

// Pipeline orchestrates feed fetch, normalization, deduplication, scoring and
// persistence for one source or one manual submission.
type Pipeline struct {
	content    ContentStore
	sources    SourceStore
	fetcher    Fetcher
	oracle     Oracle
	fetchLimit int

	// Ingestion is serialized per source id so the read-then-write duplicate
	// check cannot race against a concurrent fetch of the same source.
	mu          sync.Mutex
	sourceLocks map[string]*sync.Mutex
}

func New(content ContentStore, sources SourceStore, fetcher Fetcher, oracle Oracle, fetchLimit int) *Pipeline {
	if fetchLimit <= 0 {
		fetchLimit = feed.DefaultFetchLimit
	}
	return &Pipeline{
		content:     content,
		sources:     sources,
		fetcher:     fetcher,
		oracle:      oracle,
		fetchLimit:  fetchLimit,
		sourceLocks: make(map[string]*sync.Mutex),
	}
}

func (p *Pipeline) lockFor(sourceID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.sourceLocks[sourceID]
	if !ok {
		lock = &sync.Mutex{}
		p.sourceLocks[sourceID] = lock
	}
	return lock
}

// IngestSource fetches one configured feed and persists every new scored
// article, returning the number inserted. A failed fetch or unparseable feed
// degrades to zero articles; an unknown source id surfaces store.ErrNotFound.
// The source's last_fetched timestamp is updated regardless of per-article
// outcomes.
func (p *Pipeline) IngestSource(ctx context.Context, sourceID string) (int, error) {
	src, err := p.sources.FindByID(ctx, sourceID)
	if err != nil {
		return 0, err
	}

	lock := p.lockFor(src.ID)
	lock.Lock()
	defer lock.Unlock()

	var articles []feed.Article
	raw, _, err := p.fetcher.Get(ctx, src.URL)
	if err != nil {
		log.Printf("Error fetching feed %s: %v", src.Name, err)
	} else {
		articles = feed.Parse(raw, src.Name, src.URL, p.fetchLimit)
	}

	inserted := 0
	for _, article := range articles {
		exists, err := p.content.ExistsByTitleSource(ctx, article.Title, article.Source)
		if err != nil {
			log.Printf("Dedup check failed for %q from %s: %v", article.Title, src.Name, err)
			metrics.ArticlesIngested.WithLabelValues(src.Name, "failed").Inc()
			continue
		}
		if exists {
			metrics.ArticlesIngested.WithLabelValues(src.Name, "duplicate").Inc()
			continue
		}

		analysis := p.analyze(ctx, article.Title, article.Content, article.Source)
		rec := model.NewContentRecord(article.Title, article.Content, article.Source,
			article.SourceURL, model.ContentTypeArticle, article.Published, analysis)

		if err := p.content.Insert(ctx, rec); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// Lost the race to another writer; same as the dedup skip.
				metrics.ArticlesIngested.WithLabelValues(src.Name, "duplicate").Inc()
				continue
			}
			log.Printf("Failed to persist %q from %s: %v", article.Title, src.Name, err)
			metrics.ArticlesIngested.WithLabelValues(src.Name, "failed").Inc()
			continue
		}

		metrics.ArticlesIngested.WithLabelValues(src.Name, "inserted").Inc()
		inserted++
	}

	if err := p.sources.UpdateLastFetched(ctx, src.ID, time.Now().UTC()); err != nil {
		log.Printf("Failed to update last_fetched for %s: %v", src.Name, err)
	}

	log.Printf("Ingested %d new articles from %s (%d parsed)", inserted, src.Name, len(articles))
	return inserted, nil
}

// IngestManual scores and persists a user-submitted piece of content. No
// duplicate check: explicit user intent overrides dedup. Returns the new
// record's id.
func (p *Pipeline) IngestManual(ctx context.Context, title, body, source string) (string, error) {
	analysis := p.analyze(ctx, title, body, source)
	rec := model.NewContentRecord(title, body, source, "", model.ContentTypeManual, time.Time{}, analysis)

	if err := p.content.Insert(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Analyze scores content without persisting anything.
func (p *Pipeline) Analyze(ctx context.Context, title, body, source string) model.Analysis {
	return p.analyze(ctx, title, body, source)
}

// analyze routes one piece of content through the oracle and the extractor.
// Every failure mode degrades to the mid-scale default result.
func (p *Pipeline) analyze(ctx context.Context, title, body, source string) model.Analysis {
	raw, err := p.oracle.Score(ctx, title, scoring.Excerpt(body, ExcerptLimit), source)
	if err != nil {
		if errors.Is(err, scoring.ErrNotConfigured) {
			metrics.OracleCalls.WithLabelValues("unavailable").Inc()
		} else {
			log.Printf("Oracle scoring failed for %q: %v", title, err)
			metrics.OracleCalls.WithLabelValues("error").Inc()
		}
		return model.DefaultAnalysis(title)
	}

	metrics.OracleCalls.WithLabelValues("scored").Inc()
	return scoring.Extract(raw, title)
}
