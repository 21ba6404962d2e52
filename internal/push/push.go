// Package push defines the delivery contract the notification dispatcher
// consumes, plus a thin HTTP implementation for the push gateway. Delivery
// semantics are deliberately minimal: one attempt, success or failure.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Payload is the content of one push notification.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender delivers one push notification to one device token.
type Sender interface {
	// Send attempts delivery once. A nil error means the gateway accepted
	// the notification; any error is a terminal delivery failure.
	Send(ctx context.Context, token string, p Payload) error
}

// GatewayOptions configures the HTTP push gateway sender.
type GatewayOptions struct {
	// Endpoint is the gateway's send URL.
	Endpoint string
	// APIKey authenticates this service with the gateway.
	APIKey string
	// HTTPClient overrides the default client (10s timeout) when set.
	HTTPClient *http.Client
}

// Gateway is an HTTP Sender. The wire shape follows the common
// token+notification+data push gateway convention.
type Gateway struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewGateway builds a Gateway sender.
func NewGateway(opts GatewayOptions) *Gateway {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Gateway{
		endpoint:   strings.TrimSpace(opts.Endpoint),
		apiKey:     opts.APIKey,
		httpClient: hc,
	}
}

// Send posts the notification to the gateway and treats any non-2xx response
// as a delivery failure.
func (g *Gateway) Send(ctx context.Context, token string, p Payload) error {
	body, err := json.Marshal(map[string]any{
		"to":           token,
		"notification": map[string]string{"title": p.Title, "body": p.Body},
		"data":         p.Data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push gateway: status %d", resp.StatusCode)
	}
	return nil
}
