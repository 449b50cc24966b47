/**
 * @description
 * This file provides a client for the external durable-workflow engine that
 * runs the reminder sequences. The service triggers exactly one run per
 * created subscription; retries and timer steps are the engine's concern.
 */
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TriggerRequest describes a workflow run to start. URL is the callback
// endpoint the engine will invoke; Body is the JSON payload delivered to it.
type TriggerRequest struct {
	URL     string            `json:"url"`
	Body    any               `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

// TriggerRun is the engine's acknowledgement of a started run.
type TriggerRun struct {
	WorkflowRunID string `json:"workflowRunId"`
}

// Client talks to the workflow engine's trigger endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new workflow engine client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Trigger starts one workflow run and returns the run identifier. It makes a
// single attempt with no retry; the caller decides what a failure means.
func (c *Client) Trigger(ctx context.Context, trigger TriggerRequest) (*TriggerRun, error) {
	payload, err := json.Marshal(trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trigger request: %w", err)
	}

	url := fmt.Sprintf("%s/trigger", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call workflow engine: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("workflow engine returned status %d: %s", resp.StatusCode, string(body))
	}

	var run TriggerRun
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &run, nil
}
