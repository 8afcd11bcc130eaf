package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/bet-pool/internal/config"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
)

func TestInitUptrace_DisabledReturnsNoopShutdown(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "flag off", cfg: config.Config{UptraceEnabled: false, ServiceName: "bet-pool-api"}},
		{name: "empty dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "bet-pool-api"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := InitUptrace(tc.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init uptrace: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown uptrace: %v", err)
			}
		})
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected no pprof server when disabled")
	}
	if err := StopPprofServer(srv, logging.NewNop(), 0); err != nil {
		t.Fatalf("stop nil pprof server: %v", err)
	}
}

func TestTracingDisabledReason(t *testing.T) {
	tests := map[string]struct {
		cfg  config.Config
		want string
	}{
		"flag off":   {cfg: config.Config{UptraceDSN: "https://token@uptrace.dev/1"}, want: "UPTRACE_ENABLED=false"},
		"blank dsn":  {cfg: config.Config{UptraceEnabled: true, UptraceDSN: " "}, want: "UPTRACE_DSN empty"},
		"configured": {cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://token@uptrace.dev/1"}, want: ""},
	}
	for name, tc := range tests {
		if got := tracingDisabledReason(tc.cfg); got != tc.want {
			t.Fatalf("%s: got %q want %q", name, got, tc.want)
		}
	}
}

func TestPyroscopeConfig_TagsAndContentionProfiles(t *testing.T) {
	got := pyroscopeConfig(config.Config{
		AppEnv:         config.EnvStage,
		ServiceName:    "bet-pool-api",
		ServiceVersion: "1.2.0",
		StorageDriver:  config.StorageMemory,
	})

	if got.Tags["storage"] != config.StorageMemory || got.Tags["env"] != config.EnvStage {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	want := map[pyroscope.ProfileType]bool{
		pyroscope.ProfileMutexDuration: false,
		pyroscope.ProfileBlockDuration: false,
	}
	for _, p := range got.ProfileTypes {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Fatalf("profile %s is not collected", p)
		}
	}
}

func TestPprofMux_ServesRuntimeProfiles(t *testing.T) {
	mux := pprofMux()
	for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline", "/debug/pprof/mutex?debug=1", "/debug/pprof/goroutine?debug=1"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestStartPprofServer_BindsBeforeReturning(t *testing.T) {
	logger := logging.NewNop()

	srv, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logger)
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv == nil || srv.Addr == "127.0.0.1:0" {
		t.Fatalf("expected the bound address, got %+v", srv)
	}
	if err := StopPprofServer(srv, logger, 0); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}

	if _, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "not::an::addr"}, logger); err == nil {
		t.Fatalf("expected listen error for an invalid address")
	}
}
