// Package tunnel resolves the public URL of a locally running ngrok agent so
// the service can report how it is reachable from outside. The agent itself
// is external; failing to find one is never fatal.
package tunnel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultAgentURL is where the ngrok agent exposes its local API.
const DefaultAgentURL = "http://127.0.0.1:4040"

type agentTunnels struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// Resolver queries the ngrok agent API.
type Resolver struct {
	agentURL string
	client   *http.Client
}

// NewResolver creates a Resolver against agentURL; an empty value selects
// DefaultAgentURL.
func NewResolver(agentURL string) *Resolver {
	if agentURL == "" {
		agentURL = DefaultAgentURL
	}
	return &Resolver{
		agentURL: agentURL,
		client:   &http.Client{Timeout: 3 * time.Second},
	}
}

// PublicURL returns the agent's public tunnel URL, preferring https
// endpoints. Returns an error when no agent or no tunnel is reachable.
func (r *Resolver) PublicURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.agentURL+"/api/tunnels", nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ngrok agent: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ngrok agent: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tunnels agentTunnels
	if err := json.Unmarshal(body, &tunnels); err != nil {
		return "", fmt.Errorf("ngrok agent: decode tunnels: %w", err)
	}

	fallback := ""
	for _, t := range tunnels.Tunnels {
		if t.PublicURL == "" {
			continue
		}
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
		if fallback == "" {
			fallback = t.PublicURL
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("ngrok agent: no active tunnels")
	}
	return fallback, nil
}
