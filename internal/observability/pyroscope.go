package observability

import (
	"fmt"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/bet-pool/internal/config"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
)

// pyroscopeConfig tags profiles with the storage driver so memory and
// postgres runs of the same version can be compared.
func pyroscopeConfig(cfg config.Config) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
			"storage": cfg.StorageDriver,
		},
		// Scoring contention shows up in mutex and block profiles.
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockDuration,
		},
	}
}

// InitPyroscope starts continuous profiling. The returned stop func is
// always safe to call.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscopeConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler for %s: %w", cfg.PyroscopeServerAddress, err)
	}

	logger.Info("pyroscope enabled", "application", cfg.PyroscopeAppName, "storage", cfg.StorageDriver)
	return func() error {
		if err := profiler.Stop(); err != nil {
			return fmt.Errorf("stop pyroscope profiler: %w", err)
		}
		return nil
	}, nil
}
