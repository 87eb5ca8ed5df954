package services

import (
	"fmt"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const maxSMSLength = 320

// MessageCreator is the part of the Twilio API used here. It is satisfied by
// (*twilio.RestClient).Api.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of each contact submission to the site owner.
type SMSNotifier struct {
	messages MessageCreator
	from     string
	to       string
}

// NewSMSNotifier returns nil unless TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// TWILIO_FROM_NUMBER and TWILIO_TO_NUMBER are all set.
func NewSMSNotifier(cfg map[string]string) *SMSNotifier {
	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	to := config.GetString(cfg, "TWILIO_TO_NUMBER", "")
	if sid == "" || token == "" || from == "" || to == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return NewSMSNotifierWith(client.Api, from, to)
}

func NewSMSNotifierWith(messages MessageCreator, from, to string) *SMSNotifier {
	return &SMSNotifier{messages: messages, from: from, to: to}
}

// ContactSMS is the text sent for msg, truncated to two SMS segments.
func ContactSMS(msg ContactMessage) string {
	body := fmt.Sprintf("Contact from %s <%s>: %s\n%s", msg.Name, msg.Email, msg.Subject, msg.Message)
	if runes := []rune(body); len(runes) > maxSMSLength {
		body = string(runes[:maxSMSLength-3]) + "..."
	}
	return body
}

// NotifyContact sends the SMS. A nil notifier does nothing.
func (n *SMSNotifier) NotifyContact(msg ContactMessage) error {
	if n == nil {
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(ContactSMS(msg))

	resp, err := n.messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send contact SMS: %w", err)
	}
	if resp.Sid != nil {
		log.Info().Str("sid", *resp.Sid).Msg("Sent contact SMS via Twilio")
	}
	return nil
}
