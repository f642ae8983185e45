package provider

import (
	"outreach/internal/config"
	"outreach/internal/models"
)

// Registry builds the channel provider set from configuration. In
// simulated mode every channel uses the fake provider; in live mode email
// goes through SendGrid and sms/voice through their HTTP gateways.
func Registry(cfg config.ProviderConfig) map[models.Channel]Provider {
	if cfg.Mode == "live" {
		return map[models.Channel]Provider{
			models.ChannelSMS:   NewSMSGateway(cfg.SMSGatewayURL, cfg.SMSGatewayKey),
			models.ChannelEmail: NewSendGridEmail(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr, cfg.EmailSubject),
			models.ChannelVoice: NewVoiceGateway(cfg.VoiceGatewayURL, cfg.VoiceGatewayKey),
		}
	}

	return map[models.Channel]Provider{
		models.ChannelSMS:   NewSimulated("sms", cfg.SimulatedRate),
		models.ChannelEmail: NewSimulated("email", cfg.SimulatedRate),
		models.ChannelVoice: NewSimulated("voice", cfg.SimulatedRate),
	}
}
