package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// MessageHandler serves the direct-message endpoints. Conversations
// are keyed by the unordered user pair; system messages emitted by
// the booking lifecycle show up in the same thread.
type MessageHandler struct {
	MessageRepo *repository.MessageRepo
	UserRepo    *repository.UserRepo
}

// NewMessageHandler constructs a new MessageHandler.
func NewMessageHandler(messageRepo *repository.MessageRepo, userRepo *repository.UserRepo) *MessageHandler {
	if messageRepo == nil || userRepo == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{MessageRepo: messageRepo, UserRepo: userRepo}
}

// Send handles POST /v1/messages. The body carries receiver_id, the
// text body and an optional booking_id to anchor the message to a
// booking.
func (h *MessageHandler) Send(c echo.Context) error {
	senderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ReceiverID uint64  `json:"receiver_id"`
		Body       string  `json:"body"`
		BookingID  *uint64 `json:"booking_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Body)
	if body.ReceiverID == 0 || text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "receiver_id and body are required"})
	}
	if body.ReceiverID == senderID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
	}
	ctx := c.Request().Context()
	if _, err := h.UserRepo.GetByID(ctx, body.ReceiverID); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "receiver not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	m := model.Message{
		SenderID:   senderID,
		ReceiverID: body.ReceiverID,
		BookingID:  body.BookingID,
		Body:       text,
	}
	if err := h.MessageRepo.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// Conversation handles GET /v1/messages/:user_id, the full thread
// between the caller and the given user, oldest first.
func (h *MessageHandler) Conversation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	otherID, err := parseID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	msgs, err := h.MessageRepo.Conversation(c.Request().Context(), userID, otherID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// MarkRead handles POST /v1/messages/:user_id/read and flags every
// message from that user to the caller as read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	otherID, err := parseID(c, "user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	n, err := h.MessageRepo.MarkConversationRead(c.Request().Context(), userID, otherID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"marked_read": n})
}

// UnreadCount handles GET /v1/messages/unread/count for the badge in
// the client's navigation bar.
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.MessageRepo.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}
