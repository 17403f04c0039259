package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/api/dto"
	"github.com/spec-kit/member-center/internal/auth"
	"github.com/spec-kit/member-center/internal/service"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// ChatHandler forwards member messages to the assistant service.
type ChatHandler struct {
	assistant *service.AssistantService
}

// NewChatHandler constructs handler.
func NewChatHandler(assistant *service.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// Chat POST /api/chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Member == nil {
		return apperrors.NewUnauthorized("member authentication required")
	}
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	reply, err := h.assistant.Chat(c.UserContext(), principal.Member, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatResponse{Response: reply}})
}
