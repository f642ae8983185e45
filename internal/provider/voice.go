package provider

import (
	"context"
	"net/http"
)

// VoiceGateway initiates outbound calls through an HTTP gateway. The
// rendered content is the script read by the gateway's text-to-speech.
// Same wire protocol as the SMS gateway.
type VoiceGateway struct {
	url    string
	apiKey string
	client *http.Client
}

// NewVoiceGateway creates a voice gateway client
func NewVoiceGateway(url, apiKey string) *VoiceGateway {
	return &VoiceGateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{},
	}
}

// Send places a call. The recipient must be a valid phone number in
// international format; invalid numbers fail without a network call.
func (g *VoiceGateway) Send(ctx context.Context, recipient, content string) (string, error) {
	if err := ValidatePhone(recipient); err != nil {
		return "", err
	}
	return postGateway(ctx, g.client, g.url, g.apiKey, gatewayRequest{To: recipient, Body: content})
}
