package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/mailrelay/internal"
	"github.com/dmitrymomot/mailrelay/pkg/mailer"
)

// Status texts of the send endpoint. Clients match on these strings.
const (
	StatusSent             = "Email sent"
	StatusDownloadFailed   = "Failed to download attachment"
	StatusSendFailed       = "Failed to send email"
	StatusEmpty            = "No email body or attachments provided"
	StatusInvalidBody      = "Invalid request body"
	StatusNotFound         = "Not found"
	StatusMethodNotAllowed = "Method not allowed"
	StatusRequestTimeout   = "Request timeout"
	StatusInternalError    = "Internal server error"
)

// EmailSender runs the send pipeline. *mailer.Mailer implements it.
type EmailSender interface {
	Send(ctx context.Context, p mailer.SendParams) error
}

// AttachmentRequest declares one attachment to download and attach.
type AttachmentRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// EmailRequest is the JSON body of POST /send_email.
type EmailRequest struct {
	RecipientEmail string              `json:"recipient_email"`
	RecipientName  string              `json:"recipient_name"`
	SenderEmail    string              `json:"sender_email"`
	SenderName     string              `json:"sender_name"`
	Subject        string              `json:"subject"`
	Body           string              `json:"body"`
	Attachments    []AttachmentRequest `json:"attachments,omitempty"`
}

// StatusResponse is the JSON body of every send outcome.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Email serves POST /send_email.
type Email struct {
	sender EmailSender
	strict bool
}

// EmailOption configures Email.
type EmailOption func(*Email)

// WithStrictStatus makes failures answer with 4xx/5xx codes. By default
// every outcome is 200 and only the status text tells them apart.
func WithStrictStatus(strict bool) EmailOption {
	return func(h *Email) {
		h.strict = strict
	}
}

// NewEmail creates the send-email handler.
func NewEmail(sender EmailSender, opts ...EmailOption) *Email {
	h := &Email{sender: sender}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Email) Routes(r internal.Router) {
	r.POST("/send_email", h.send)
}

func (h *Email) send(c internal.Context) error {
	var req EmailRequest
	if err := c.BindJSON(&req); err != nil {
		return internal.ErrBadRequest(StatusInvalidBody, internal.WithError(err))
	}

	err := h.sender.Send(c, req.params())
	if err == nil {
		return c.JSON(http.StatusOK, StatusResponse{Status: StatusSent})
	}

	code, resp := h.failure(err)
	return c.JSON(code, resp)
}

// failure maps a pipeline error to its status text and HTTP code.
func (h *Email) failure(err error) (int, StatusResponse) {
	var (
		code int
		resp StatusResponse
	)
	switch {
	case errors.Is(err, mailer.ErrFetchFailed):
		code, resp = http.StatusBadGateway, StatusResponse{Status: StatusDownloadFailed, Error: err.Error()}
	case errors.Is(err, mailer.ErrEmptyMessage):
		code, resp = http.StatusInternalServerError, StatusResponse{Status: StatusEmpty}
	case errors.Is(err, mailer.ErrInvalidAddress):
		code, resp = http.StatusBadRequest, StatusResponse{Status: StatusSendFailed, Error: err.Error()}
	case errors.Is(err, mailer.ErrDeliveryFailed):
		code, resp = http.StatusBadGateway, StatusResponse{Status: StatusSendFailed, Error: err.Error()}
	default:
		code, resp = http.StatusInternalServerError, StatusResponse{Status: StatusSendFailed, Error: err.Error()}
	}

	if !h.strict {
		code = http.StatusOK
	}
	return code, resp
}

func (r EmailRequest) params() mailer.SendParams {
	p := mailer.SendParams{
		FromName:  r.SenderName,
		FromEmail: r.SenderEmail,
		ToName:    r.RecipientName,
		ToEmail:   r.RecipientEmail,
		Subject:   r.Subject,
		Markdown:  r.Body,
	}
	if len(r.Attachments) > 0 {
		p.Attachments = make([]mailer.AttachmentSource, len(r.Attachments))
		for i, a := range r.Attachments {
			p.Attachments[i] = mailer.AttachmentSource{
				URL:         a.URL,
				Filename:    a.Filename,
				ContentType: a.MimeType,
			}
		}
	}
	return p
}
