package accident

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bhavisha4779/accident-relay/config"
	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/service"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Buzzer.Enabled = false
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuild_EmptyRegistry(t *testing.T) {
	cfg := testConfig()
	cfg.Hospitals = nil

	_, err := Build(context.Background(), cfg, nil, nil, discardLogger())
	if !errors.Is(err, service.ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
}

func TestBuild_ReportReflectedOnData(t *testing.T) {
	m, err := Build(context.Background(), testConfig(), nil, nil, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	if got := m.State.Latest(); got != domain.EmptyAlertState() {
		t.Fatalf("expected empty state before any event, got %+v", got)
	}

	m.AccidentSvc.Report(ctx, &domain.LocationEvent{DeviceID: "bike_001", Lat: 30.06, Lon: 75.77})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	m.RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/data", nil)
	r.ServeHTTP(w, req)

	var got domain.AlertState
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := domain.AlertState{Lat: 30.06, Lon: 75.77, Hospital: "City Hospital Sunam", DistanceKm: 0}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if m.State.Latest() != want {
		t.Errorf("expected module state %+v, got %+v", want, m.State.Latest())
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/history", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 with history disabled, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected metrics 200, got %d", w.Code)
	}
}
