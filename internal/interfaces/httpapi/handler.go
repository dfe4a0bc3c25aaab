package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const (
	maxJSONBodyBytes       = 1 << 20
	defaultStreamPoll      = 3 * time.Second
	defaultStreamHeartbeat = 15 * time.Second
)

type Handler struct {
	identityService        *usecase.IdentityService
	athleteService         *usecase.AthleteService
	campaignService        *usecase.CampaignService
	matchService           *usecase.MatchService
	dealService            *usecase.DealService
	dealAnalysisService    *usecase.DealAnalysisService
	rosterService          *usecase.RosterService
	inviteService          *usecase.InviteService
	parentDashboardService *usecase.ParentDashboardService
	notificationService    *usecase.NotificationService
	messagingService       *usecase.MessagingService
	jobDispatcher          *usecase.JobDispatcher
	logger                 *logging.Logger
	validator              *validator.Validate
	streamPoll             time.Duration
	streamHeartbeat        time.Duration
}

func NewHandler(
	identityService *usecase.IdentityService,
	athleteService *usecase.AthleteService,
	campaignService *usecase.CampaignService,
	matchService *usecase.MatchService,
	dealService *usecase.DealService,
	dealAnalysisService *usecase.DealAnalysisService,
	rosterService *usecase.RosterService,
	inviteService *usecase.InviteService,
	parentDashboardService *usecase.ParentDashboardService,
	notificationService *usecase.NotificationService,
	messagingService *usecase.MessagingService,
	jobDispatcher *usecase.JobDispatcher,
	streamPoll time.Duration,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if streamPoll <= 0 {
		streamPoll = defaultStreamPoll
	}

	return &Handler{
		identityService:        identityService,
		athleteService:         athleteService,
		campaignService:        campaignService,
		matchService:           matchService,
		dealService:            dealService,
		dealAnalysisService:    dealAnalysisService,
		rosterService:          rosterService,
		inviteService:          inviteService,
		parentDashboardService: parentDashboardService,
		notificationService:    notificationService,
		messagingService:       messagingService,
		jobDispatcher:          jobDispatcher,
		logger:                 logger,
		validator:              newValidator(),
		streamPoll:             streamPoll,
		streamHeartbeat:        defaultStreamHeartbeat,
	}
}

// newValidator reports fields by their JSON names so error messages match
// the request body the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, strings.Join(msgs, "; "))
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}

func queryInt(r *http.Request, key string) (int, error) {
	return queryValue(r, key, "an integer", strconv.Atoi)
}

func queryInt64(r *http.Request, key string) (int64, error) {
	return queryValue(r, key, "an integer", func(raw string) (int64, error) {
		return strconv.ParseInt(raw, 10, 64)
	})
}

func queryBool(r *http.Request, key string) (bool, error) {
	return queryValue(r, key, "a boolean", strconv.ParseBool)
}

// queryValue parses an optional query parameter; absent keys yield the zero value.
func queryValue[T any](r *http.Request, key, kind string, parse func(string) (T, error)) (T, error) {
	var zero T
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return zero, nil
	}
	v, err := parse(raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %s must be %s", usecase.ErrInvalidInput, key, kind)
	}
	return v, nil
}

func queryPaging(r *http.Request) (usecase.Paging, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return usecase.Paging{}, err
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		return usecase.Paging{}, err
	}
	return usecase.Paging{Page: page, PageSize: pageSize}, nil
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
