package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/bet-pool/internal/config"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// tracingDisabledReason returns "" when spans should be exported.
func tracingDisabledReason(cfg config.Config) string {
	if !cfg.UptraceEnabled {
		return "UPTRACE_ENABLED=false"
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		return "UPTRACE_DSN empty"
	}
	return ""
}

// InitUptrace installs the global OpenTelemetry providers. Without them the
// spans started by httpapi and usecase stay non-recording.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if reason := tracingDisabledReason(cfg); reason != "" {
		logger.Info("uptrace disabled", "reason", reason)
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)

	return uptrace.Shutdown, nil
}
