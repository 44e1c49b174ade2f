package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aggregator-service/config"
	"aggregator-service/feed"
	"aggregator-service/metrics"
	"aggregator-service/pipeline"
	"aggregator-service/scoring"
	"aggregator-service/store"
	"aggregator-service/worker"
)

func main() {
	log.Println("Starting ingestion worker...")

	cfg := config.Load()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	log.Println("Connected to MongoDB")

	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		log.Fatal("Failed to connect to NATS:", err)
	}
	defer nc.Close()
	log.Println("Connected to NATS")

	contentStore := store.NewContentStore(db)
	sourceStore := store.NewSourceStore(db)

	oracle := scoring.NewOpenAIOracle(cfg.OpenAIAPIKey)
	fetcher := feed.NewHTTPFetcher(cfg.FetchTimeout)
	p := pipeline.New(contentStore, sourceStore, fetcher, oracle, cfg.FetchLimit)

	w, err := worker.NewWorker(nc, p, sourceStore, cfg.SchedulerInterval)
	if err != nil {
		log.Fatal("Failed to create worker:", err)
	}

	metrics.Init("aggregator-worker", "1.0", "production")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping...")
		cancel()
	}()

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"aggregator-worker"}`))
	})

	go func() {
		log.Println("Health check server starting on :8081")
		if err := http.ListenAndServe(":8081", nil); err != nil {
			log.Printf("Health check server error: %v", err)
		}
	}()

	log.Println("Ingestion worker is running...")
	if err := w.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal("Worker failed:", err)
	}

	log.Println("Ingestion worker stopped")
}
