package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"aggregator-service/model"
	"aggregator-service/scoring"
	"aggregator-service/store"
)

const testFeed = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item><title>Alpha</title><link>http://example.com/a</link><description>Alpha body</description></item>
<item><title>Beta</title><link>http://example.com/b</link><description>Beta body</description></item>
</channel>
</rss>`

type fakeContentStore struct {
	records   []model.ContentRecord
	insertErr error
}

func (f *fakeContentStore) ExistsByTitleSource(_ context.Context, title, source string) (bool, error) {
	for _, r := range f.records {
		if r.Title == title && r.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContentStore) Insert(_ context.Context, rec model.ContentRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeSourceStore struct {
	source      *model.FeedSource
	lastFetched *time.Time
}

func (f *fakeSourceStore) FindByID(_ context.Context, id string) (*model.FeedSource, error) {
	if f.source == nil || f.source.ID != id {
		return nil, store.ErrNotFound
	}
	return f.source, nil
}

func (f *fakeSourceStore) UpdateLastFetched(_ context.Context, id string, t time.Time) error {
	f.lastFetched = &t
	return nil
}

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.body, "application/rss+xml", nil
}

type fakeOracle struct {
	response string
	err      error
	calls    int
}

func (f *fakeOracle) Score(_ context.Context, title, excerpt, source string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testSource() *model.FeedSource {
	return &model.FeedSource{
		ID:      "src-1",
		Name:    "Test Feed",
		URL:     "http://example.com/rss",
		Enabled: true,
	}
}

func TestIngestSourceInsertsScoredArticles(t *testing.T) {
	content := &fakeContentStore{}
	sources := &fakeSourceStore{source: testSource()}
	oracle := &fakeOracle{response: `{"knowledge_density_score": 8, "credibility_score": 7, "distraction_score": 2, "summary": "s", "tags": ["t"]}`}

	p := New(content, sources, &fakeFetcher{body: []byte(testFeed)}, oracle, 10)

	n, err := p.IngestSource(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("IngestSource: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	if len(content.records) != 2 {
		t.Fatalf("stored = %d records, want 2", len(content.records))
	}

	rec := content.records[0]
	if rec.ContentType != model.ContentTypeArticle {
		t.Errorf("content type = %q", rec.ContentType)
	}
	if rec.CognitiveUtilityScore != 13 {
		t.Errorf("utility = %v, want 13", rec.CognitiveUtilityScore)
	}
	if sources.lastFetched == nil {
		t.Error("last_fetched not updated")
	}
}

func TestIngestSourceIsIdempotent(t *testing.T) {
	content := &fakeContentStore{}
	sources := &fakeSourceStore{source: testSource()}
	oracle := &fakeOracle{err: scoring.ErrNotConfigured}

	p := New(content, sources, &fakeFetcher{body: []byte(testFeed)}, oracle, 10)

	first, err := p.IngestSource(context.Background(), "src-1")
	if err != nil || first != 2 {
		t.Fatalf("first run: n=%d err=%v, want 2, nil", first, err)
	}

	second, err := p.IngestSource(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != 0 {
		t.Errorf("second run inserted %d records, want 0", second)
	}
}

func TestIngestSourceUnknownID(t *testing.T) {
	p := New(&fakeContentStore{}, &fakeSourceStore{}, &fakeFetcher{}, &fakeOracle{}, 10)

	_, err := p.IngestSource(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}

func TestIngestSourceFetchFailureDegrades(t *testing.T) {
	content := &fakeContentStore{}
	sources := &fakeSourceStore{source: testSource()}

	p := New(content, sources, &fakeFetcher{err: errors.New("connection refused")}, &fakeOracle{}, 10)

	n, err := p.IngestSource(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("fetch failure must not surface: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
	if sources.lastFetched == nil {
		t.Error("last_fetched must be updated even after a failed fetch")
	}
}

func TestIngestSourceMalformedFeedDegrades(t *testing.T) {
	content := &fakeContentStore{}
	sources := &fakeSourceStore{source: testSource()}

	p := New(content, sources, &fakeFetcher{body: []byte("not a feed")}, &fakeOracle{}, 10)

	n, err := p.IngestSource(context.Background(), "src-1")
	if err != nil || n != 0 {
		t.Errorf("n=%d err=%v, want 0, nil", n, err)
	}
}

func TestIngestSourceLostInsertRace(t *testing.T) {
	content := &fakeContentStore{insertErr: store.ErrDuplicate}
	sources := &fakeSourceStore{source: testSource()}
	oracle := &fakeOracle{err: scoring.ErrNotConfigured}

	p := New(content, sources, &fakeFetcher{body: []byte(testFeed)}, oracle, 10)

	n, err := p.IngestSource(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("duplicate insert must not surface: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
}

func TestIngestManualWithoutOracle(t *testing.T) {
	content := &fakeContentStore{}
	oracle := &fakeOracle{err: scoring.ErrNotConfigured}

	p := New(content, &fakeSourceStore{}, &fakeFetcher{}, oracle, 10)

	id, err := p.IngestManual(context.Background(), "T", "B", "S")
	if err != nil {
		t.Fatalf("IngestManual: %v", err)
	}
	if id == "" {
		t.Fatal("expected a record id")
	}

	rec := content.records[0]
	if rec.KnowledgeDensityScore != 5.0 || rec.CredibilityScore != 5.0 || rec.DistractionScore != 5.0 {
		t.Errorf("scores = %v, %v, %v, want all 5.0",
			rec.KnowledgeDensityScore, rec.CredibilityScore, rec.DistractionScore)
	}
	if rec.CognitiveUtilityScore != 5.0 {
		t.Errorf("utility = %v, want 5.0", rec.CognitiveUtilityScore)
	}
	if rec.ContentType != model.ContentTypeManual {
		t.Errorf("content type = %q", rec.ContentType)
	}
	if rec.Summary != "T" {
		t.Errorf("summary = %q, want the title", rec.Summary)
	}
}

func TestIngestManualSkipsDedup(t *testing.T) {
	content := &fakeContentStore{}
	oracle := &fakeOracle{err: scoring.ErrNotConfigured}

	p := New(content, &fakeSourceStore{}, &fakeFetcher{}, oracle, 10)

	for i := 0; i < 2; i++ {
		if _, err := p.IngestManual(context.Background(), "Same Title", "B", "S"); err != nil {
			t.Fatalf("IngestManual: %v", err)
		}
	}
	if len(content.records) != 2 {
		t.Errorf("stored = %d records, want 2 (manual uploads bypass dedup)", len(content.records))
	}
}

func TestIngestSourceOracleFailureFallsBack(t *testing.T) {
	content := &fakeContentStore{}
	sources := &fakeSourceStore{source: testSource()}
	oracle := &fakeOracle{err: errors.New("rate limited")}

	p := New(content, sources, &fakeFetcher{body: []byte(testFeed)}, oracle, 10)

	n, err := p.IngestSource(context.Background(), "src-1")
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v, want 2, nil", n, err)
	}
	for _, rec := range content.records {
		if rec.KnowledgeDensityScore != 5.0 {
			t.Errorf("oracle failure should fall back to defaults, got %v", rec.KnowledgeDensityScore)
		}
	}
}

func TestAnalyzeTruncatesExcerpt(t *testing.T) {
	oracle := &fakeOracle{response: "{}"}
	p := New(&fakeContentStore{}, &fakeSourceStore{}, &fakeFetcher{}, oracle, 10)

	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}

	captured := ""
	capturing := &capturingOracle{inner: oracle, excerpt: &captured}
	p.oracle = capturing

	p.Analyze(context.Background(), "T", string(long), "S")
	if len(captured) != ExcerptLimit {
		t.Errorf("excerpt length = %d, want %d", len(captured), ExcerptLimit)
	}
}

type capturingOracle struct {
	inner   *fakeOracle
	excerpt *string
}

func (c *capturingOracle) Score(ctx context.Context, title, excerpt, source string) (string, error) {
	*c.excerpt = excerpt
	return c.inner.Score(ctx, title, excerpt, source)
}
