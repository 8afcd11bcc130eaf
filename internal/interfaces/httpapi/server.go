package httpapi

import (
	"net/http"

	"github.com/riskibarqy/bet-pool/internal/platform/logging"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string

	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	resolver PrincipalResolver,
	logger *logging.Logger,
	opts RouterOptions,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerPlayerRoutes(mux, handler, verifier, resolver)
	registerAdminRoutes(mux, handler, verifier, resolver)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
