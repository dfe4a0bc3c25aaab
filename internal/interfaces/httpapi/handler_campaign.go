package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func campaignInputFromRequest(agencyID string, req campaignRequest) usecase.CampaignInput {
	return usecase.CampaignInput{
		AgencyID:       agencyID,
		Title:          req.Title,
		Description:    req.Description,
		Sports:         req.Sports,
		TargetStates:   req.TargetStates,
		MinFollowers:   req.MinFollowers,
		MinEngagement:  req.MinEngagement,
		BudgetMinCents: req.BudgetMinCents,
		BudgetMaxCents: req.BudgetMaxCents,
		Status:         req.Status,
	}
}

func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCampaign")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req campaignRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.campaignService.Create(ctx, campaignInputFromRequest(principal.UserID, req))
	if err != nil {
		h.logFailure(ctx, "create campaign failed", err, "agency_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, campaignToDTO(created))
}

func (h *Handler) ListMyCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyCampaigns")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	campaigns, err := h.campaignService.ListMine(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list campaigns failed", err, "agency_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]campaignDTO, 0, len(campaigns))
	for _, item := range campaigns {
		items = append(items, campaignToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCampaign")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	campaignID := strings.TrimSpace(r.PathValue("campaignID"))

	item, err := h.campaignService.Get(ctx, principal.UserID, campaignID)
	if err != nil {
		h.logFailure(ctx, "get campaign failed", err, "campaign_id", campaignID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, campaignToDTO(item))
}

func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateCampaign")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	campaignID := strings.TrimSpace(r.PathValue("campaignID"))

	var req campaignRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.campaignService.Update(ctx, campaignID, campaignInputFromRequest(principal.UserID, req))
	if err != nil {
		h.logFailure(ctx, "update campaign failed", err, "agency_id", principal.UserID, "campaign_id", campaignID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, campaignToDTO(updated))
}

func (h *Handler) CloseCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseCampaign")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	campaignID := strings.TrimSpace(r.PathValue("campaignID"))

	closed, err := h.campaignService.Close(ctx, principal.UserID, campaignID)
	if err != nil {
		h.logFailure(ctx, "close campaign failed", err, "agency_id", principal.UserID, "campaign_id", campaignID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, campaignToDTO(closed))
}

func (h *Handler) ListCampaignMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCampaignMatches")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	campaignID := strings.TrimSpace(r.PathValue("campaignID"))

	paging, err := queryPaging(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minScore, err := queryInt(r, "min_score")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.matchService.ListCampaignMatches(ctx, usecase.ListCampaignMatchesInput{
		AgencyID:   principal.UserID,
		CampaignID: campaignID,
		MinScore:   minScore,
		Paging:     paging,
	})
	if err != nil {
		h.logFailure(ctx, "list campaign matches failed", err, "agency_id", principal.UserID, "campaign_id", campaignID)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(page.Items))
	for _, view := range page.Items {
		dto := matchToDTO(view.Match)
		athleteView := athleteToDTO(view.Athlete, false)
		dto.Athlete = &athleteView
		items = append(items, dto)
	}
	writeSuccess(ctx, w, http.StatusOK, pageDTO[matchDTO]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	campaignID := strings.TrimSpace(r.PathValue("campaignID"))
	athleteID := strings.TrimSpace(r.PathValue("athleteID"))

	var req updateMatchStatusRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.UpdateMatchStatus(ctx, principal.UserID, campaignID, athleteID, req.Status)
	if err != nil {
		h.logFailure(ctx, "update match status failed", err, "campaign_id", campaignID, "athlete_id", athleteID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) ListMyAthleteMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyAthleteMatches")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	views, err := h.matchService.ListAthleteMatches(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list athlete matches failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(views))
	for _, view := range views {
		dto := matchToDTO(view.Match)
		c := campaignToDTO(view.Campaign)
		dto.Campaign = &c
		items = append(items, dto)
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
