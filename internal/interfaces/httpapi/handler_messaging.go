package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartConversation")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req startConversationRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	conv, created, err := h.messagingService.StartConversation(ctx, usecase.StartConversationInput{
		Principal:     principal,
		ParticipantID: req.ParticipantID,
		CampaignID:    req.CampaignID,
	})
	if err != nil {
		h.logFailure(ctx, "start conversation failed", err, "user_id", principal.UserID, "participant_id", req.ParticipantID)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, conversationToDTO(conv))
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListConversations")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	summaries, err := h.messagingService.ListConversations(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list conversations failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]conversationDTO, 0, len(summaries))
	for _, summary := range summaries {
		dto := conversationToDTO(summary.Conversation)
		if summary.LastMessage != nil {
			last := messageToDTO(*summary.LastMessage)
			dto.LastMessage = &last
		}
		unread := summary.UnreadCount
		dto.UnreadCount = &unread
		items = append(items, dto)
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendMessage")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	conversationID := strings.TrimSpace(r.PathValue("conversationID"))

	var req sendMessageRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	msg, created, err := h.messagingService.Send(ctx, usecase.SendMessageInput{
		Principal:       principal,
		ConversationID:  conversationID,
		Body:            req.Body,
		ClientMessageID: req.ClientMessageID,
	})
	if err != nil {
		h.logFailure(ctx, "send message failed", err, "user_id", principal.UserID, "conversation_id", conversationID)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, messageToDTO(msg))
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMessages")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	conversationID := strings.TrimSpace(r.PathValue("conversationID"))

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var after time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
		after, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: after must be an RFC3339 timestamp", usecase.ErrInvalidInput))
			return
		}
	}

	page, err := h.messagingService.ListMessages(ctx, usecase.ListMessagesInput{
		Principal:      principal,
		ConversationID: conversationID,
		After:          after,
		Limit:          limit,
	})
	if err != nil {
		h.logFailure(ctx, "list messages failed", err, "user_id", principal.UserID, "conversation_id", conversationID)
		writeError(ctx, w, err)
		return
	}

	items := make([]messageDTO, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, messageToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, messagePageDTO{
		Items:       items,
		PollAfterMS: page.PollAfter.Milliseconds(),
	})
}

func (h *Handler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkConversationRead")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	conversationID := strings.TrimSpace(r.PathValue("conversationID"))

	updated, err := h.messagingService.MarkRead(ctx, principal, conversationID)
	if err != nil {
		h.logFailure(ctx, "mark conversation read failed", err, "user_id", principal.UserID, "conversation_id", conversationID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"updated": updated})
}
