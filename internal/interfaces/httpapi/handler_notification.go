package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const sseRetryMillis = 3000

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	unreadOnly, err := queryBool(r, "unread")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	list, err := h.notificationService.List(ctx, usecase.ListNotificationsInput{
		UserID:     principal.UserID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Visibility: r.URL.Query().Get("visibility"),
	})
	if err != nil {
		h.logFailure(ctx, "list notifications failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]notificationDTO, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, notificationToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, notificationListDTO{
		Items:       items,
		UnreadCount: list.UnreadCount,
		PollAfterMS: list.PollAfter.Milliseconds(),
	})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	notificationID := strings.TrimSpace(r.PathValue("notificationID"))

	if err := h.notificationService.MarkRead(ctx, principal.UserID, notificationID); err != nil {
		h.logFailure(ctx, "mark notification read failed", err, "user_id", principal.UserID, "notification_id", notificationID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"read": true})
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAllNotificationsRead")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "mark all notifications read failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"updated": updated})
}

// StreamNotifications pushes newly stored notifications as server-sent
// events. Event ids carry the row timestamp so a reconnecting client resumes
// through Last-Event-ID.
func (h *Handler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamNotifications")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	cursor := time.Now().UTC()
	if raw := strings.TrimSpace(r.Header.Get("Last-Event-ID")); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			cursor = parsed
		}
	}

	rc := http.NewResponseController(w)
	// Each write gets its own deadline in place of the server write timeout,
	// so a stalled client ends the stream instead of pinning this goroutine.
	armDeadline := func() { _ = rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)) }
	armDeadline()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "retry: %d\n\n", sseRetryMillis); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.logger.WarnContext(ctx, "notification stream cannot flush", "user_id", principal.UserID, "error", err)
		return
	}

	poll := time.NewTicker(h.streamPoll)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			armDeadline()
			if err := writeSSEComment(w, "heartbeat"); err != nil {
				return
			}
		case <-poll.C:
			items, err := h.notificationService.ListSince(ctx, principal.UserID, cursor)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				h.logger.WarnContext(ctx, "notification stream poll failed", "user_id", principal.UserID, "error", err)
				continue
			}
			if len(items) > 0 {
				armDeadline()
			}
			for _, item := range items {
				id := item.CreatedAt.UTC().Format(time.RFC3339Nano)
				if err := writeSSEEvent(w, id, "notification", notificationToDTO(item)); err != nil {
					return
				}
				if item.CreatedAt.After(cursor) {
					cursor = item.CreatedAt
				}
			}
			if len(items) == 0 {
				continue
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
