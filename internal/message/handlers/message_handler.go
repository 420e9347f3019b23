package handlers

import (
	"errors"

	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/app"
	"github.com/AsemAbuOthman/Forsah-sub000/internal/message/domain"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"
	"github.com/AsemAbuOthman/Forsah-sub000/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MessageHandler 处理 message store 的 HTTP 请求
type MessageHandler struct {
	uc app.MessageUseCase
}

// NewMessageHandler create MessageHandler
func NewMessageHandler(uc app.MessageUseCase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// errorResponse error body
type errorResponse struct {
	Error string `json:"error" example:"message not found"`
}

// messageResponse POST /send
type messageResponse struct {
	Message domain.Message `json:"message"`
}

// replyResponse POST /reply
type replyResponse struct {
	Reply domain.Message `json:"reply"`
}

type historyResponse struct {
	Messages []domain.Message `json:"messages"`
}

type contactsResponse struct {
	Contacts []domain.Contact `json:"contacts"`
}

func fail(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, domain.ErrReplyTargetNotFound):
		code = fiber.StatusUnprocessableEntity
	default:
		logger.Log.Error("message request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}

// Send 保存一则新消息
// @Summary Store a message
// @Description Persist a direct message, status starts at sent
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body domain.NewMessageInput true "message"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /send [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var in domain.NewMessageInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request"})
	}

	msg, err := h.uc.Send(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: msg})
}

// Reply 保存回覆並連結原訊息
// @Summary Store a reply
// @Description Persist a reply linked to an existing message
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body domain.NewReplyInput true "reply"
// @Success 201 {object} replyResponse
// @Failure 400 {object} errorResponse
// @Failure 422 {object} errorResponse "original message not found"
// @Router /reply [post]
func (h *MessageHandler) Reply(c *fiber.Ctx) error {
	var in domain.NewReplyInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request"})
	}

	reply, err := h.uc.Reply(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(replyResponse{Reply: reply})
}

// Delete 刪除自己送出的訊息
// @Summary Delete a message
// @Tags Messages
// @Produce json
// @Param id path string true "message id"
// @Param senderId query string true "sender id"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} errorResponse
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), c.Query("senderId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// UpdateStatus 狀態只能往前 sent -> delivered -> read
// @Summary Move a message status forward
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "message id"
// @Param request body domain.StatusUpdate true "status"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /messages/{id}/status [patch]
func (h *MessageHandler) UpdateStatus(c *fiber.Ctx) error {
	var u domain.StatusUpdate
	if err := c.BodyParser(&u); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request"})
	}

	updated, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// participant caller must be one side of the conversation, everyone passes when auth is off
func participant(c *fiber.Ctx, ids ...string) bool {
	if c.Locals(middlewares.TokenMemberID) == nil {
		return true
	}
	caller := middlewares.MemberID(c)
	for _, id := range ids {
		if id == caller {
			return true
		}
	}
	return false
}

// History 兩人之間的訊息, 依時間排序
// @Summary Conversation history
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param senderId path string true "user id"
// @Param receiverId path string true "contact id"
// @Param limit query int false "max messages (default 500)"
// @Success 200 {object} historyResponse
// @Failure 403 {object} errorResponse
// @Router /history/{senderId}/{receiverId} [get]
func (h *MessageHandler) History(c *fiber.Ctx) error {
	a, b := c.Params("senderId"), c.Params("receiverId")
	if !participant(c, a, b) {
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "not a participant"})
	}

	msgs, err := h.uc.History(c.UserContext(), a, b, c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(historyResponse{Messages: msgs})
}

// Contacts 聯絡人列表, 最後訊息時間與未讀數
// @Summary Contacts of a user
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param userId path string true "user id"
// @Success 200 {object} contactsResponse
// @Failure 403 {object} errorResponse
// @Router /contacts/{userId} [get]
func (h *MessageHandler) Contacts(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !participant(c, userID) {
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "not a participant"})
	}

	contacts, err := h.uc.Contacts(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(contactsResponse{Contacts: contacts})
}
