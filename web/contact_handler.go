package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxContactBodySize = 64 << 10

// ContactSender relays a contact message and returns the provider's answer.
type ContactSender interface {
	Send(ctx context.Context, msg services.ContactMessage) ([]byte, error)
}

// ContactNotifier is told about every relayed message.
type ContactNotifier interface {
	NotifyContact(msg services.ContactMessage) error
}

type contactHandler struct {
	responder api.Responder
	logger    zerolog.Logger
	sender    ContactSender
	notifier  ContactNotifier
	limiter   *Limiter
}

func newContactHandler(sender ContactSender, notifier ContactNotifier, limiter *Limiter) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: api.NewResponder(logger),
		logger:    logger,
		sender:    sender,
		notifier:  notifier,
		limiter:   limiter,
	}
}

type contactError struct {
	Error string `json:"error"`
}

// sendContact relays the contact form to the mail provider
// @Summary Send contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Success 200 {object} services.ResendEmailResponse "Provider response"
// @Failure 429 {object} contactError "Too many messages"
// @Failure 500 {object} contactError "Relay failed"
// @Router /api/send [post]
func (h contactHandler) sendContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
			h.responder.WriteJSONStatus(w, http.StatusTooManyRequests,
				contactError{Error: "Too many messages, please try again later"})
			return
		}

		var msg services.ContactMessage
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBodySize))
		if err := dec.Decode(&msg); err != nil {
			h.responder.WriteJSONStatus(w, http.StatusBadRequest, contactError{Error: "Invalid contact message"})
			return
		}
		msg.Name = strings.TrimSpace(msg.Name)
		msg.Email = strings.TrimSpace(msg.Email)
		msg.Subject = strings.TrimSpace(msg.Subject)
		if msg.Email == "" || strings.TrimSpace(msg.Message) == "" {
			h.responder.WriteJSONStatus(w, http.StatusBadRequest, contactError{Error: "email and message are required"})
			return
		}

		if h.sender == nil {
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, contactError{Error: "RESEND_API_KEY is not defined"})
			return
		}

		body, err := h.sender.Send(r.Context(), msg)
		if err != nil {
			h.logger.Error().Err(err).Msg("Email sending error")
			h.responder.WriteJSONStatus(w, http.StatusInternalServerError, contactError{Error: contactErrorMessage(err)})
			return
		}

		if h.notifier != nil {
			if err := h.notifier.NotifyContact(msg); err != nil {
				h.logger.Warn().Err(err).Msg("failed to send contact SMS notification")
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.logger.Error().Err(err).Msg("error writing response")
		}
	}
}

func contactErrorMessage(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Failed to send email"
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
