package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/dto"
	"github.com/spec-kit/it-manager/internal/service"
)

// SessionsHandler issues access tokens.
type SessionsHandler struct {
	sessions *service.SessionService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessions *service.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// Create handles POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.sessions.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SessionResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
	})
}
