package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func (h *Handler) UpsertMyAthleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMyAthleteProfile")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req upsertAthleteProfileRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	email := req.Email
	if email == "" {
		email = principal.Email
	}
	profile, err := h.athleteService.UpsertMyProfile(ctx, usecase.UpsertProfileInput{
		UserID:             principal.UserID,
		Email:              email,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Sport:              req.Sport,
		Position:           req.Position,
		School:             req.School,
		State:              req.State,
		GraduationYear:     req.GraduationYear,
		InstagramFollowers: req.InstagramFollowers,
		TikTokFollowers:    req.TikTokFollowers,
		TwitterFollowers:   req.TwitterFollowers,
		EngagementRate:     req.EngagementRate,
		Bio:                req.Bio,
		OpenToDeals:        req.OpenToDeals,
	})
	if err != nil {
		h.logFailure(ctx, "upsert athlete profile failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, athleteToDTO(profile, true))
}

func (h *Handler) GetMyAthleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyAthleteProfile")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	profile, err := h.athleteService.GetMyProfile(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "get my athlete profile failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, athleteToDTO(profile, true))
}

func (h *Handler) GetAthleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAthleteProfile")
	defer span.End()

	athleteID := strings.TrimSpace(r.PathValue("athleteID"))
	profile, err := h.athleteService.GetProfile(ctx, athleteID)
	if err != nil {
		h.logFailure(ctx, "get athlete profile failed", err, "athlete_id", athleteID)
		writeError(ctx, w, err)
		return
	}

	principal, _ := principalFromContext(ctx)
	writeSuccess(ctx, w, http.StatusOK, athleteToDTO(profile, profile.UserID != "" && profile.UserID == principal.UserID))
}

func (h *Handler) DiscoverAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscoverAthletes")
	defer span.End()

	paging, err := queryPaging(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minFollowers, err := queryInt64(r, "min_followers")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	maxFMV, err := queryInt64(r, "max_fmv")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	page, err := h.athleteService.Discover(ctx, usecase.DiscoverInput{
		Sport:        query.Get("sport"),
		State:        query.Get("state"),
		MinFollowers: minFollowers,
		MaxFMVCents:  maxFMV,
		Query:        query.Get("q"),
		Paging:       paging,
	})
	if err != nil {
		h.logFailure(ctx, "discover athletes failed", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageDTO[athleteDTO]{
		Items:      athletesToDTO(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) SaveAthlete(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveAthlete")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req saveAthleteRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.athleteService.SaveAthlete(ctx, principal.UserID, req.AthleteID, req.Note)
	if err != nil {
		h.logFailure(ctx, "save athlete failed", err, "agency_id", principal.UserID, "athlete_id", req.AthleteID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"athlete_id": saved.AthleteID,
		"note":       saved.Note,
		"created_at": saved.CreatedAt,
	})
}

func (h *Handler) ListSavedAthletes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSavedAthletes")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	views, err := h.athleteService.ListSaved(ctx, principal.UserID)
	if err != nil {
		h.logFailure(ctx, "list saved athletes failed", err, "agency_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	items := make([]savedAthleteDTO, 0, len(views))
	for _, view := range views {
		items = append(items, savedAthleteDTO{
			AthleteID: view.Saved.AthleteID,
			Note:      view.Saved.Note,
			CreatedAt: view.Saved.CreatedAt,
			Athlete:   athleteToDTO(view.Athlete, false),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RemoveSavedAthlete(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveSavedAthlete")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	athleteID := strings.TrimSpace(r.PathValue("athleteID"))

	if err := h.athleteService.RemoveSaved(ctx, principal.UserID, athleteID); err != nil {
		h.logFailure(ctx, "remove saved athlete failed", err, "agency_id", principal.UserID, "athlete_id", athleteID)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
