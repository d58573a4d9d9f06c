package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/platinummonkey/ragstack/pkg/config"
)

// HTTPProbe issues a GET and expects a 2xx response
type HTTPProbe struct {
	name   string
	url    string
	header http.Header
	client *http.Client
}

// NewQdrantProbe checks the readiness endpoint under cfg.URL()
func NewQdrantProbe(cfg config.QdrantSettings, client *http.Client) *HTTPProbe {
	return newHTTPProbe(config.SectionQdrant, cfg.URL()+"/readyz", nil, client)
}

// NewOpenAIProbe lists models with the configured API key
func NewOpenAIProbe(cfg config.OpenAISettings, baseURL string, client *http.Client) *HTTPProbe {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)
	return newHTTPProbe(config.SectionOpenAI, strings.TrimRight(baseURL, "/")+"/models", header, client)
}

func newHTTPProbe(name, url string, header http.Header, client *http.Client) *HTTPProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProbe{name: name, url: url, header: header, client: client}
}

// Name returns the dependency name
func (p *HTTPProbe) Name() string { return p.name }

// URL returns the address the probe requests
func (p *HTTPProbe) URL() string { return p.url }

// Check issues the GET and fails on a non-2xx status
func (p *HTTPProbe) Check(ctx context.Context) error {
	return traced(ctx, p.name, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		for k, v := range p.header {
			req.Header[k] = v
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, p.url)
		}
		return nil
	})
}

// Close is a no-op
func (p *HTTPProbe) Close() error { return nil }
