package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gameday-assistant/internal/types"
)

// DefaultEndpoint is used when no proxy URL is configured.
const DefaultEndpoint = "http://localhost:8787/assistant/respond"

// RemoteClient asks the assistant proxy for a response.
type RemoteClient struct {
	httpClient   *http.Client
	endpoint     string
	systemPrompt string
}

func NewRemoteClient(endpoint, systemPrompt string, timeout time.Duration) *RemoteClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RemoteClient{
		httpClient:   &http.Client{Timeout: timeout},
		endpoint:     endpoint,
		systemPrompt: systemPrompt,
	}
}

// Endpoint returns the URL requests are sent to.
func (c *RemoteClient) Endpoint() string { return c.endpoint }

func (c *RemoteClient) Respond(ctx context.Context, req Request) (types.AssistantResponse, error) {
	snap, err := json.Marshal(req.Snapshot)
	if err != nil {
		return types.AssistantResponse{}, fmt.Errorf("encode snapshot: %w", err)
	}
	body, err := json.Marshal(types.ProxyRequest{
		SystemPrompt: c.systemPrompt,
		Input:        req.Input,
		Snapshot:     snap,
	})
	if err != nil {
		return types.AssistantResponse{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return types.AssistantResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.AssistantResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return types.AssistantResponse{}, fmt.Errorf("assistant proxy failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.AssistantResponse{}, fmt.Errorf("decode assistant response: %w", err)
	}
	return out.shaped(), nil
}
