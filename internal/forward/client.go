// Package forward ships processed documents to the downstream credit API.
package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"saleocr/internal/logger"
	"saleocr/internal/report"
)

// endpointPath is the ingestion route on the downstream API.
const endpointPath = "/api/public/sale-supplier"

// Client posts documents to the remote ingestion endpoint.
type Client struct {
	base   string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a forwarding client for the API at base, e.g.
// "https://credit.example.com".
func NewClient(base string) *Client {
	return &Client{
		base:   base,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger.WithComponent("forward"),
	}
}

// Send posts doc as JSON and fails on any non-2xx response.
func (c *Client) Send(ctx context.Context, doc *report.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+endpointPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("forward request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("forward rejected with %s: %s", resp.Status, bytes.TrimSpace(snippet))
	}

	c.log.Info().
		Str("endpoint", c.base+endpointPath).
		Int("items", len(doc.Items)).
		Int("status", resp.StatusCode).
		Msg("document forwarded")
	return nil
}
