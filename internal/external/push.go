package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "partyplan/internal/errors"
)

type PushClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

type PushConfig struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
}

// PushNotification is the payload of one push message
type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// PushRequest is the body accepted by the push-dispatch service
type PushRequest struct {
	UserIDs      []string         `json:"userIds"`
	Notification PushNotification `json:"notification"`
}

func NewPushClient(cfg PushConfig) *PushClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &PushClient{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send posts a notification to the push-dispatch service. Any non-2xx
// response is an error.
func (pc *PushClient) Send(ctx context.Context, req PushRequest) error {
	if pc.baseURL == "" {
		return apperrors.ErrPushNotConfigured
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if pc.serviceKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+pc.serviceKey)
	}

	resp, err := pc.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil
}
