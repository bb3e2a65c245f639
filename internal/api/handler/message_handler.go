package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// MessageHandler serves task chat. Clients poll; there is no push channel.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	TaskID   string `json:"taskId" validate:"required"`
	ToUserID string `json:"toUserId" validate:"required"`
	Text     string `json:"text" validate:"required,max=2000"`
}

type messageEnvelope struct {
	Success bool            `json:"success"`
	Message *domain.Message `json:"message"`
}

// Send handles POST /messages.
//
// @Summary      Send a chat message about a task
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  messageEnvelope
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Send(c.Request().Context(), ports.SendMessageInput{
		TaskID:     req.TaskID,
		FromUserID: userID,
		ToUserID:   req.ToUserID,
		Text:       req.Text,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageEnvelope{Success: true, Message: msg})
}

// TaskChat handles GET /messages/task/:taskId.
//
// @Summary      List a task's chat, oldest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  listResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /messages/task/{taskId} [get]
func (h *MessageHandler) TaskChat(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	msgs, err := h.messages.TaskChat(c.Request().Context(), c.Param("taskId"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: msgs, Count: len(msgs)})
}

// Conversations handles GET /messages/conversations.
//
// @Summary      Latest message per counterpart
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Router       /messages/conversations [get]
func (h *MessageHandler) Conversations(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	convs, err := h.messages.Conversations(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Data: convs, Count: len(convs)})
}

// MarkSeen handles PUT /messages/:messageId/seen.
//
// @Summary      Mark a received message as seen
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        messageId  path      string  true  "Message id"
// @Success      200        {object}  messageResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /messages/{messageId}/seen [put]
func (h *MessageHandler) MarkSeen(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.messages.MarkSeen(c.Request().Context(), c.Param("messageId"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "message marked as seen"})
}
