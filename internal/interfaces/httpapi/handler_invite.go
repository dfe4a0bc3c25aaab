package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateInvite")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createInviteRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.inviteService.Create(ctx, principal.UserID, req.ParentEmail)
	if err != nil {
		h.logFailure(ctx, "create invite failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createdInviteDTO{
		Invite:    inviteToDTO(usecase.InviteView{Invite: created.Invite, Status: invite.StatusPending}),
		AcceptURL: created.AcceptURL,
	})
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInvites")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	views, err := h.inviteService.List(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list invites failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]inviteDTO, 0, len(views))
	for _, view := range views {
		items = append(items, inviteToDTO(view))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptInvite")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req acceptInviteRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	linked, err := h.inviteService.Accept(ctx, principal.UserID, req.Token)
	if err != nil {
		h.logFailure(ctx, "accept invite failed", err, "parent_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"linked":  true,
		"athlete": athleteToDTO(linked, false),
	})
}

func (h *Handler) ListLinkedAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLinkedAthletes")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	athletes, err := h.inviteService.ListLinkedAthletes(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list linked athletes failed", err, "parent_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, athletesToDTO(athletes))
}

func (h *Handler) GetParentDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParentDashboard")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	dashboard, err := h.parentDashboardService.Get(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "get parent dashboard failed", err, "parent_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, parentDashboardDTO{
		Athletes:            athletesToDTO(dashboard.Athletes),
		PendingDeals:        dealsToDTO(dashboard.PendingDeals),
		RecentApprovedDeals: dealsToDTO(dashboard.RecentApprovedDeals),
		UnreadNotifications: dashboard.UnreadNotifications,
	})
}
