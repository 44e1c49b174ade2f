package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"aggregator-service/model"
	"aggregator-service/pipeline"
)

const (
	subjectFetchRequest = "ingest.fetch.request"
	subjectFetchResult  = "ingest.fetch.result"
	streamName          = "INGEST"
	durableName         = "aggregator-ingest-workers"
)

// FetchRequest asks the worker to ingest one configured source.
type FetchRequest struct {
	SourceID  string `json:"sourceId"`
	RequestID string `json:"requestId"`
}

// FetchResult reports the outcome of one ingestion job.
type FetchResult struct {
	SourceID       string    `json:"sourceId"`
	RequestID      string    `json:"requestId"`
	ProcessedCount int       `json:"processedCount"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
	FetchedAt      time.Time `json:"fetchedAt"`
}

// SourceLister enumerates sources eligible for scheduled fetching.
type SourceLister interface {
	ListEnabled(ctx context.Context) ([]model.FeedSource, error)
}

// Worker consumes fetch jobs from JetStream and schedules periodic fetches
// for sources that are due per their fetch frequency.
type Worker struct {
	js       nats.JetStreamContext
	pipeline *pipeline.Pipeline
	sources  SourceLister
	interval time.Duration
}

func NewWorker(nc *nats.Conn, p *pipeline.Pipeline, sources SourceLister, interval time.Duration) (*Worker, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	if err := setupStreams(js); err != nil {
		return nil, err
	}

	if interval <= 0 {
		interval = time.Minute
	}

	return &Worker{
		js:       js,
		pipeline: p,
		sources:  sources,
		interval: interval,
	}, nil
}

func (w *Worker) Start(ctx context.Context) error {
	_, err := w.js.Subscribe(subjectFetchRequest, w.handleFetchRequest,
		nats.Durable(durableName),
		nats.ManualAck(),
	)
	if err != nil {
		return err
	}

	go w.startScheduler(ctx)

	log.Println("Ingestion worker started")

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) handleFetchRequest(msg *nats.Msg) {
	var req FetchRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Printf("Failed to unmarshal fetch request: %v", err)
		msg.Nak()
		return
	}

	log.Printf("Processing fetch request: sourceId=%s requestId=%s", req.SourceID, req.RequestID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := FetchResult{
		SourceID:  req.SourceID,
		RequestID: req.RequestID,
		FetchedAt: time.Now().UTC(),
	}

	count, err := w.pipeline.IngestSource(ctx, req.SourceID)
	if err != nil {
		log.Printf("Ingestion failed for source %s: %v", req.SourceID, err)
		result.Error = err.Error()
		w.publishResult(result)
		// Unknown or deleted sources will never succeed; drop the job.
		msg.Ack()
		return
	}

	result.Success = true
	result.ProcessedCount = count
	w.publishResult(result)
	msg.Ack()
}

func (w *Worker) publishResult(result FetchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to marshal fetch result: %v", err)
		return
	}

	if _, err := w.js.Publish(subjectFetchResult, data); err != nil {
		log.Printf("Failed to publish fetch result: %v", err)
	}
}

func (w *Worker) startScheduler(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on startup
	w.scheduleDueFetches(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scheduleDueFetches(ctx)
		}
	}
}

func (w *Worker) scheduleDueFetches(ctx context.Context) {
	sources, err := w.sources.ListEnabled(ctx)
	if err != nil {
		log.Printf("Failed to list sources for scheduling: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, src := range sources {
		if !dueForFetch(src, now) {
			continue
		}

		req := FetchRequest{
			SourceID:  src.ID,
			RequestID: generateRequestID(src.ID),
		}

		data, err := json.Marshal(req)
		if err != nil {
			log.Printf("Failed to marshal fetch request for %s: %v", src.Name, err)
			continue
		}

		if _, err := w.js.Publish(subjectFetchRequest, data); err != nil {
			log.Printf("Failed to schedule fetch for %s: %v", src.Name, err)
		} else {
			log.Printf("Scheduled fetch for source %s", src.Name)
		}
	}
}

// dueForFetch reports whether a source's fetch frequency window has elapsed.
// A source never fetched before is always due.
func dueForFetch(src model.FeedSource, now time.Time) bool {
	if src.LastFetched == nil {
		return true
	}
	frequency := time.Duration(src.FetchFrequency) * time.Minute
	if frequency <= 0 {
		frequency = 15 * time.Minute
	}
	return now.Sub(*src.LastFetched) >= frequency
}

func generateRequestID(sourceID string) string {
	return sourceID + "-" + time.Now().Format("20060102-150405")
}

func setupStreams(js nats.JetStreamContext) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"ingest.>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return err
	}

	return nil
}
