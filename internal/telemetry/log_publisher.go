// Package telemetry carries the two best-effort side channels of the request
// pipeline: usage-stats notifications and structured log records. Nothing in
// this package may surface an error to a caller; failures are logged locally
// and the event is dropped.
package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type Level string

const (
	LevelInfo    Level = "Information"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// LevelForStatus maps an HTTP status to a log severity.
func LevelForStatus(status int) Level {
	switch {
	case status >= 500:
		return LevelError
	case status >= 400:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// LogRecord is the structured record published to the broker after a
// response has been sent.
type LogRecord struct {
	Timestamp     string `json:"timestamp"`
	CorrelationID string `json:"correlationId"`
	URL           string `json:"url"`
	Message       string `json:"message"`
	ServiceName   string `json:"serviceName"`
	Level         Level  `json:"level"`
}

func NewLogRecord(correlationID, url, message, serviceName string, status int) LogRecord {
	return LogRecord{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		CorrelationID: correlationID,
		URL:           url,
		Message:       message,
		ServiceName:   serviceName,
		Level:         LevelForStatus(status),
	}
}

// LogPublisher writes log records to a fixed topic. The writer is process-wide
// state, created once at startup; when no brokers are configured the publisher
// has no writer and every record is dropped. At-most-once, no buffering, no
// retry.
type LogPublisher struct {
	writer *kafka.Writer
}

func NewLogPublisher(topic string, brokers ...string) *LogPublisher {
	if len(brokers) == 0 {
		return &LogPublisher{}
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &LogPublisher{writer: w}
}

func (p *LogPublisher) Available() bool {
	return p != nil && p.writer != nil
}

func (p *LogPublisher) Publish(ctx context.Context, rec LogRecord) {
	if !p.Available() {
		return
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		log.Printf("failed to marshal log record: %v", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		log.Printf("failed to publish log record: %v", err)
	}
}

func (p *LogPublisher) Close() {
	if p.Available() {
		if err := p.writer.Close(); err != nil {
			log.Printf("failed to close log writer: %v", err)
		}
	}
}
