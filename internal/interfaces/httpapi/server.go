package httpapi

import (
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// InternalJobToken guards /internal/jobs; an empty token rejects every job call.
	InternalJobToken string
}

func NewRouter(handler *Handler, auth Authenticator, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.SwaggerEnabled)
	registerAuthorizedRoutes(mux, handler, auth)
	registerInternalJobRoutes(mux, handler, opts.InternalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "route", requestRoute(r), "stack", string(debug.Stack()))
			writeInternalError(r.Context(), w)
		}()
		next.ServeHTTP(w, r)
	})
}
