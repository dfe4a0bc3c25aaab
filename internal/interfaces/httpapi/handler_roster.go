package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const maxRosterUploadBytes = 5 << 20

func (h *Handler) ValidateRosterImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateRosterImport")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	paging, err := queryPaging(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	body, closeBody, err := rosterBody(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer closeBody()

	preview, err := h.rosterService.Validate(ctx, principal.UserID, body, paging.Page, paging.PageSize)
	if err != nil {
		h.logFailure(ctx, "validate roster import failed", err, "agency_id", principal.UserID)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "roster validated",
		"agency_id", principal.UserID,
		"import_id", preview.Import.ID,
		"total_rows", preview.Import.TotalRows,
		"invalid_rows", preview.Import.InvalidRows,
	)
	writeSuccess(ctx, w, http.StatusOK, rosterPreviewToDTO(preview))
}

func (h *Handler) GetRosterImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterImport")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	importID := strings.TrimSpace(r.PathValue("importID"))
	paging, err := queryPaging(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	preview, err := h.rosterService.Get(ctx, principal.UserID, importID, paging.Page, paging.PageSize)
	if err != nil {
		h.logFailure(ctx, "get roster import failed", err, "agency_id", principal.UserID, "import_id", importID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterPreviewToDTO(preview))
}

func (h *Handler) CommitRosterImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitRosterImport")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}
	importID := strings.TrimSpace(r.PathValue("importID"))

	result, err := h.rosterService.Commit(ctx, principal.UserID, importID)
	if err != nil {
		h.logFailure(ctx, "commit roster import failed", err, "agency_id", principal.UserID, "import_id", importID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// rosterBody returns the CSV stream from either a multipart "file" part or
// a raw text/csv body.
func rosterBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRosterUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxRosterUploadBytes); err != nil {
			return nil, nil, fmt.Errorf("%w: invalid multipart upload: %v", usecase.ErrInvalidInput, err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, fmt.Errorf("%w: file is required", usecase.ErrInvalidInput)
		}
		return file, func() { _ = file.Close() }, nil
	case "text/csv", "text/plain", "application/csv", "":
		return r.Body, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: send text/csv or multipart/form-data", usecase.ErrInvalidInput)
	}
}
