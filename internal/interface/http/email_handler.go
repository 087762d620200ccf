package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/danisatya/asset-management-api/pkg/mailer"
	"github.com/danisatya/asset-management-api/pkg/response"
	"github.com/danisatya/asset-management-api/pkg/validation"
)

// EmailHandler exposes a synchronous test-send so operators can verify the
// Mailgun configuration without going through the queue.
type EmailHandler struct {
	Mailer *mailer.Mailgun
	Logger *logrus.Logger
}

func NewEmailHandler(m *mailer.Mailgun, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Mailer: m, Logger: logger}
}

type testEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Body    string `json:"body"`
}

// TestSend POST /api/email/test
func (h *EmailHandler) TestSend(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.Mailer == nil {
		response.Error[any](c, http.StatusBadGateway, "mail delivery is not configured", nil)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Asset Management API Test Email"
	}
	body := req.Body
	if body == "" {
		body = "This is a test email from the Asset Management API."
	}

	if err := h.Mailer.Send(c.Request.Context(), req.To, subject, body, ""); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("to", req.To).Error("test email send failed")
		}
		response.Error[any](c, http.StatusBadGateway, "email delivery failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"to": req.To}, "test email sent", nil)
}
