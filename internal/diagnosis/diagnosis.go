// Package diagnosis calls the external defect-diagnosis service: a
// text-in/text-out collaborator that suggests likely mechanical causes for
// flagged inspection items. The call is best-effort enrichment and runs
// after the checklist is already persisted; an outage here never blocks
// trip recording.
package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RequestTimeout bounds a single diagnosis call.
const RequestTimeout = 15 * time.Second

// Request is the payload sent to the diagnosis service.
type Request struct {
	VehicleInfo        string `json:"vehicle_info"`
	ChecklistResponses string `json:"checklist_responses"`
}

// Response is the diagnosis service's answer.
type Response struct {
	PotentialProblems string `json:"potential_problems"`
}

// Client calls the diagnosis service over HTTP.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient creates a diagnosis client for the given endpoint URL.
// An empty URL disables diagnosis entirely.
func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{Timeout: RequestTimeout},
	}
}

// Enabled reports whether a diagnosis endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.URL != ""
}

// Diagnose sends the vehicle description and flagged inspection notes to
// the service and returns its free-text assessment.
func (c *Client) Diagnose(ctx context.Context, vehicleInfo, checklistResponses string) (string, error) {
	payload, err := json.Marshal(Request{
		VehicleInfo:        vehicleInfo,
		ChecklistResponses: checklistResponses,
	})
	if err != nil {
		return "", fmt.Errorf("encoding diagnosis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building diagnosis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling diagnosis service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("diagnosis service returned %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding diagnosis response: %w", err)
	}

	return result.PotentialProblems, nil
}
