package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nyaruka/phonenumbers"
)

// SMSGateway sends SMS through an HTTP gateway speaking a small JSON
// protocol: POST {to, body} -> {message_id}.
type SMSGateway struct {
	url    string
	apiKey string
	client *http.Client
}

// NewSMSGateway creates an SMS gateway client
func NewSMSGateway(url, apiKey string) *SMSGateway {
	return &SMSGateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{},
	}
}

type gatewayRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// Send delivers an SMS. The recipient must be a valid phone number in
// international format; invalid numbers fail without a network call.
func (g *SMSGateway) Send(ctx context.Context, recipient, content string) (string, error) {
	if err := ValidatePhone(recipient); err != nil {
		return "", err
	}
	return postGateway(ctx, g.client, g.url, g.apiKey, gatewayRequest{To: recipient, Body: content})
}

// ValidatePhone checks that a phone number parses and is valid. Numbers are
// expected in international format (leading +), so no default region applies.
func ValidatePhone(number string) error {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return fmt.Errorf("invalid phone number %q: %w", number, err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return fmt.Errorf("invalid phone number %q", number)
	}
	return nil
}

// postGateway performs the JSON round trip shared by the SMS and voice gateways
func postGateway(ctx context.Context, client *http.Client, url, apiKey string, payload gatewayRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := decoded.Error
		if reason == "" {
			reason = resp.Status
		}
		return "", fmt.Errorf("gateway rejected send: %s", reason)
	}

	return decoded.MessageID, nil
}
