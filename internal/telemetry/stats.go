package telemetry

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// StatsNotifier reports per-request usage to the external analytics endpoint.
type StatsNotifier struct {
	endpoint string
	client   *http.Client
}

func NewStatsNotifier(endpoint string) *StatsNotifier {
	return &StatsNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 3 * time.Second},
	}
}

type statsPayload struct {
	Method string `json:"method"`
	Route  string `json:"route"`
}

// Notify posts a {method, route} record. Callers run it on its own goroutine;
// failures are logged and dropped.
func (n *StatsNotifier) Notify(method, route string) {
	if n == nil || n.endpoint == "" {
		return
	}

	payload, err := json.Marshal(statsPayload{Method: method, Route: route})
	if err != nil {
		log.Printf("failed to marshal stats payload: %v", err)
		return
	}

	resp, err := n.client.Post(n.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("failed to send usage stats: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("usage stats endpoint returned %d", resp.StatusCode)
	}
}
