package worker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Publisher queues fetch jobs from the API process for the worker to consume.
type Publisher struct {
	js nats.JetStreamContext
}

func NewPublisher(nc *nats.Conn) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	if err := setupStreams(js); err != nil {
		return nil, err
	}
	return &Publisher{js: js}, nil
}

func (p *Publisher) PublishFetch(sourceID string) error {
	req := FetchRequest{
		SourceID:  sourceID,
		RequestID: generateRequestID(sourceID),
	}

	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(subjectFetchRequest, data)
	return err
}
