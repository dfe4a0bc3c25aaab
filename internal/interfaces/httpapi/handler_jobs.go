package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func (h *Handler) RunSendEmailJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSendEmailJob")
	defer span.End()

	if h.jobDispatcher == nil {
		writeError(ctx, w, fmt.Errorf("%w: job dispatcher is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req usecase.Email
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.jobDispatcher.RunEmail(ctx, req); err != nil {
		h.logFailure(ctx, "run send email job failed", err, jobLogFields(r, "to", req.To)...)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "send email job completed", jobLogFields(r, "to", req.To)...)
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *Handler) RunRecomputeMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeMatchesJob")
	defer span.End()

	if h.jobDispatcher == nil {
		writeError(ctx, w, fmt.Errorf("%w: job dispatcher is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req usecase.MatchRecomputeJob
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobDispatcher.RunMatchRecompute(ctx, req)
	if err != nil {
		h.logFailure(ctx, "run recompute matches job failed", err,
			jobLogFields(r, "campaign_id", req.CampaignID, "athlete_id", req.AthleteID)...)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "recompute matches job completed",
		jobLogFields(r, "campaign_id", req.CampaignID, "athlete_id", req.AthleteID)...)
	writeSuccess(ctx, w, http.StatusOK, result)
}

// jobLogFields adds the QStash delivery headers to job log lines.
func jobLogFields(r *http.Request, args ...any) []any {
	if messageID := strings.TrimSpace(r.Header.Get("Upstash-Message-Id")); messageID != "" {
		args = append(args, "message_id", messageID)
	}
	if retried := strings.TrimSpace(r.Header.Get("Upstash-Retried")); retried != "" {
		args = append(args, "retried", retried)
	}
	return args
}
