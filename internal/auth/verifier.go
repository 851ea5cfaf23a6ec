// Package auth gates destructive cart operations behind the external
// identity service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/techbuilddotgg/mycandys-carts-service/internal/correlation"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrUnauthorized = errors.New("unauthorized")

type Verifier interface {
	Verify(ctx context.Context, credential string) error
}

type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Verify forwards the caller's credential to the identity service. Any
// failure, including an unreachable service, is treated as unauthorized.
// There are no retries.
func (v *HTTPVerifier) Verify(ctx context.Context, credential string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/verify", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	req.Header.Set("Authorization", credential)
	correlation.SetHeader(ctx, req)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: identity service unreachable: %v", ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: identity service returned %d", ErrUnauthorized, resp.StatusCode)
	}

	return nil
}
