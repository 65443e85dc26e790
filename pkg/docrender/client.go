package docrender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taxdesk/correspond/pkg/assemble"
	"github.com/taxdesk/correspond/pkg/rules"
)

var (
	// ErrRenderRequest indicates the render service could not be reached.
	ErrRenderRequest = errors.New("render request failed")

	// ErrRenderStatus indicates the render service refused the document.
	ErrRenderStatus = errors.New("render service returned an error")
)

// Config holds render-service configuration.
type Config struct {
	URL     string        `env:"RENDER_URL"`
	Timeout time.Duration `env:"RENDER_TIMEOUT" envDefault:"30s"`
}

// Client drives the external PDF render service over HTTP. The service
// receives the assembled document with the issuing profile and client
// data and responds with the PDF payload.
type Client struct {
	http *http.Client
	cfg  Config
}

// NewClient creates a render-service client.
func NewClient(cfg Config) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

type renderRequest struct {
	Document assemble.Document   `json:"document"`
	Profile  rules.EntityProfile `json:"profile"`
	Client   rules.ClientFacts   `json:"client"`
}

// Render implements Renderer.
func (c *Client) Render(ctx context.Context, doc assemble.Document, profile rules.EntityProfile, client rules.ClientFacts) ([]byte, error) {
	body, err := json.Marshal(renderRequest{Document: doc, Profile: profile, Client: client})
	if err != nil {
		return nil, errors.Join(ErrRenderRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrRenderRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRenderRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRenderStatus, resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrRenderRequest, err)
	}
	return payload, nil
}

// Ping reports whether the render service is reachable. Any HTTP
// response counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.URL, nil)
	if err != nil {
		return errors.Join(ErrRenderRequest, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrRenderRequest, err)
	}
	resp.Body.Close()
	return nil
}
