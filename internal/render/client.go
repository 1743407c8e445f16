// Package render wraps the external card rendering service. The
// service is opaque: a document goes in, PNG bytes come out.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-erp/internal/config"
)

// Renderer produces a visual card for a document. Implementations must
// be timeout-bounded; a stalled render must not hang a handler.
type Renderer interface {
	RenderCard(ctx context.Context, payload interface{}) ([]byte, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Renderer {
	return &Client{
		baseURL:    cfg.RenderURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) RenderCard(ctx context.Context, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render service status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
