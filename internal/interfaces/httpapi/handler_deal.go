package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const multipartOverheadBytes = 1 << 20

func (h *Handler) SubmitDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitDeal")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req submitDealRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	endDate, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	submitted, err := h.dealService.Submit(ctx, usecase.SubmitDealInput{
		UserID:            principal.UserID,
		AgencyID:          req.AgencyID,
		BrandName:         req.BrandName,
		Description:       req.Description,
		CompensationCents: req.CompensationCents,
		Deliverables:      req.Deliverables,
		StartDate:         startDate,
		EndDate:           endDate,
	})
	if err != nil {
		h.logFailure(ctx, "submit deal failed", err, "user_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, dealToDTO(submitted))
}

func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDeals")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var statuses []string
	for _, raw := range r.URL.Query()["status"] {
		statuses = append(statuses, strings.Split(raw, ",")...)
	}

	deals, err := h.dealService.List(ctx, usecase.ListDealsInput{
		Principal: principal,
		Statuses:  statuses,
		Limit:     limit,
	})
	if err != nil {
		h.logFailure(ctx, "list deals failed", err, "user_id", principal.UserID, "role", principal.Role)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dealsToDTO(deals))
}

func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDeal")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	dealID := strings.TrimSpace(r.PathValue("dealID"))

	item, err := h.dealService.Get(ctx, principal, dealID)
	if err != nil {
		h.logFailure(ctx, "get deal failed", err, "user_id", principal.UserID, "deal_id", dealID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dealToDTO(item))
}

func (h *Handler) ReviewDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReviewDeal")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	dealID := strings.TrimSpace(r.PathValue("dealID"))

	var req reviewDealRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reviewed, err := h.dealService.Review(ctx, usecase.ReviewDealInput{
		ReviewerID: principal.UserID,
		DealID:     dealID,
		Decision:   req.Decision,
		Note:       req.Note,
	})
	if err != nil {
		h.logFailure(ctx, "review deal failed", err, "reviewer_id", principal.UserID, "deal_id", dealID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dealToDTO(reviewed))
}

func (h *Handler) ListComplianceActionItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListComplianceActionItems")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	actionItems, err := h.dealService.ActionItems(ctx, limit)
	if err != nil {
		h.logFailure(ctx, "list compliance action items failed", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]actionItemDTO, 0, len(actionItems))
	for _, item := range actionItems {
		items = append(items, actionItemDTO{
			Deal:        dealToDTO(item.Deal),
			AthleteName: item.Athlete.FullName(),
			Reasons:     nonNil(item.Reasons),
			AgeHours:    item.AgeHours,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AnalyzeDealDocument(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeDealDocument")
	defer span.End()

	var input usecase.DocumentInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		parsed, err := readDocumentUpload(w, r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		input = parsed
	} else {
		var req analyzeDealRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		input.Text = req.Text
	}

	analysis, err := h.dealAnalysisService.Analyze(ctx, input)
	if err != nil {
		h.logFailure(ctx, "analyze deal document failed", err, "mime_type", input.MIMEType, "bytes", len(input.Data))
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dealAnalysisDTO{
		Source:            analysis.Source,
		BrandName:         analysis.BrandName,
		CompensationCents: analysis.CompensationCents,
		Deliverables:      nonNil(analysis.Deliverables),
		TermMonths:        analysis.TermMonths,
		Exclusivity:       analysis.Exclusivity,
		RedFlags:          nonNil(analysis.RedFlags),
		Summary:           analysis.Summary,
	})
}

// readDocumentUpload reads the "file" part and an optional "text" field.
func readDocumentUpload(w http.ResponseWriter, r *http.Request) (usecase.DocumentInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxDealDocumentBytes+multipartOverheadBytes)
	if err := r.ParseMultipartForm(usecase.MaxDealDocumentBytes); err != nil {
		return usecase.DocumentInput{}, fmt.Errorf("%w: invalid multipart upload: %v", usecase.ErrInvalidInput, err)
	}

	input := usecase.DocumentInput{Text: r.FormValue("text")}
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && strings.TrimSpace(input.Text) != "" {
			return input, nil
		}
		return usecase.DocumentInput{}, fmt.Errorf("%w: file is required", usecase.ErrInvalidInput)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, usecase.MaxDealDocumentBytes+1))
	if err != nil {
		return usecase.DocumentInput{}, fmt.Errorf("%w: read upload: %v", usecase.ErrInvalidInput, err)
	}
	if len(data) > usecase.MaxDealDocumentBytes {
		return usecase.DocumentInput{}, fmt.Errorf("%w: file exceeds %d bytes", usecase.ErrInvalidInput, usecase.MaxDealDocumentBytes)
	}

	input.Data = data
	input.MIMEType = header.Header.Get("Content-Type")
	if input.MIMEType == "" || input.MIMEType == "application/octet-stream" {
		input.MIMEType = http.DetectContentType(data)
	}
	return input, nil
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", usecase.ErrInvalidInput, field)
	}
	return &parsed, nil
}
