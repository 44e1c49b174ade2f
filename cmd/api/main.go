package main

import (
	"context"
	"log"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aggregator-service/api"
	"aggregator-service/config"
	"aggregator-service/feed"
	"aggregator-service/metrics"
	"aggregator-service/pipeline"
	"aggregator-service/scoring"
	"aggregator-service/store"
	"aggregator-service/worker"
)

func main() {
	log.Println("Starting Knowledge Aggregator API...")

	cfg := config.Load()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	log.Println("Connected to MongoDB")

	contentStore := store.NewContentStore(db)
	sourceStore := store.NewSourceStore(db)
	feedbackStore := store.NewFeedbackStore(db)

	oracle := scoring.NewOpenAIOracle(cfg.OpenAIAPIKey)
	fetcher := feed.NewHTTPFetcher(cfg.FetchTimeout)
	p := pipeline.New(contentStore, sourceStore, fetcher, oracle, cfg.FetchLimit)

	// NATS is optional for the API: without it only the fetch-all queue
	// endpoint is disabled.
	var publisher api.FetchPublisher
	if nc, err := nats.Connect(cfg.NATSUrl); err != nil {
		log.Printf("NATS unavailable, fetch queue disabled: %v", err)
	} else {
		defer nc.Close()
		pub, err := worker.NewPublisher(nc)
		if err != nil {
			log.Printf("JetStream unavailable, fetch queue disabled: %v", err)
		} else {
			publisher = pub
		}
	}

	metrics.Init("aggregator-service", "1.0", "production")

	h := api.NewHandler(p, contentStore, sourceStore, feedbackStore, publisher)
	if err := api.StartServer(h, cfg.Port, cfg.CORSOrigins); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
