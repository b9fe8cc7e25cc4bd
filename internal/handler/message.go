package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-backend/internal/dto"
	"github.com/iliyamo/marketplace-backend/internal/model"
	"github.com/iliyamo/marketplace-backend/internal/repository"
)

const (
	defaultConversationLimit = 10
	defaultMessageLimit      = 50
)

// MessageHandler serves two-party conversations and their messages.
type MessageHandler struct {
	Conversations ConversationStore
	Messages      MessageStore
}

func NewMessageHandler(conversations ConversationStore, messages MessageStore) *MessageHandler {
	if conversations == nil || messages == nil {
		panic("nil store passed to NewMessageHandler")
	}
	return &MessageHandler{Conversations: conversations, Messages: messages}
}

func (h *MessageHandler) ListConversations(c echo.Context) error {
	uid, err := queryID(c, "user_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Conversations.ListForUser(ctx, uid, pageFrom(c, defaultConversationLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewConversations(list))
}

// CreateConversation returns the existing conversation between the two
// users, in either order, or starts a new one.
func (h *MessageHandler) CreateConversation(c echo.Context) error {
	var req dto.ConversationCreate
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.User1ID == req.User2ID {
		return errorJSON(c, http.StatusBadRequest, "Cannot start a conversation with yourself")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	existing, err := h.Conversations.FindBetween(ctx, req.User1ID, req.User2ID)
	if err == nil {
		return c.JSON(http.StatusOK, dto.NewConversation(existing))
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return respondError(c, err)
	}

	conv := &model.Conversation{User1ID: req.User1ID, User2ID: req.User2ID}
	if err := h.Conversations.Create(ctx, conv); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return respondError(c, err)
		}
		// lost a race with a concurrent create for the same pair
		if existing, err = h.Conversations.FindBetween(ctx, req.User1ID, req.User2ID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewConversation(existing))
	}
	return c.JSON(http.StatusCreated, dto.NewConversation(conv))
}

func (h *MessageHandler) GetConversation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	conv, err := h.Conversations.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewConversationDetail(conv))
}

func (h *MessageHandler) ListMessages(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Conversations.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	list, err := h.Messages.ListByConversation(ctx, id, pageFrom(c, defaultMessageLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewMessages(list))
}

// CreateMessage posts into an existing conversation.  The sender must be
// one of its two parties.
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	var req dto.MessageCreate
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	conv, err := h.Conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		return respondError(c, err)
	}
	if !conv.Involves(req.SenderID) {
		return errorJSON(c, http.StatusBadRequest, "Sender is not part of this conversation")
	}

	m := &model.Message{ConversationID: conv.ID, SenderID: req.SenderID, Content: req.Content}
	if err := h.Messages.Create(ctx, m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewMessage(m))
}

func (h *MessageHandler) GetMessage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Messages.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewMessage(m))
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := h.Messages.MarkRead(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewMessage(m))
}

func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Messages.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
