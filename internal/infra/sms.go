package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SMSPayload is sent to the external SMS gateway.
type SMSPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SMSClient is an HTTP client for the external SMS gateway. Keeping delivery
// behind a plain HTTP boundary isolates gateway failures from the core
// backend; callers on the purchase path never wait on it directly.
type SMSClient struct {
	gatewayURL string
	token      string
	httpClient *http.Client
}

func NewSMSClient(gatewayURL, token string) *SMSClient {
	return &SMSClient{
		gatewayURL: gatewayURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a gateway has been configured. When false, Send
// is a silent no-op so deployments without SMS need no special casing.
func (c *SMSClient) Enabled() bool { return c.gatewayURL != "" }

// Send posts one message to the gateway.
func (c *SMSClient) Send(ctx context.Context, to, message string) error {
	if !c.Enabled() {
		return nil
	}

	body, err := json.Marshal(SMSPayload{To: to, Message: message})
	if err != nil {
		return fmt.Errorf("sms: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms: gateway returned %d", resp.StatusCode)
	}
	return nil
}
