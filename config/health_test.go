package config

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakeAMQP struct{ closed bool }

func (f fakeAMQP) IsClosed() bool { return f.closed }

type fakeMQTT struct{ connected bool }

func (f fakeMQTT) IsConnected() bool { return f.connected }

type healthResponse struct {
	Status       string                       `json:"status"`
	Dependencies map[string]map[string]string `json:"dependencies"`
}

func runHealth(t *testing.T, h *HealthChecker) (int, healthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	r.ServeHTTP(w, req)

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, resp
}

func TestHealth_OnlyMQTTConfigured(t *testing.T) {
	code, resp := runHealth(t, &HealthChecker{mqtt: fakeMQTT{connected: true}})

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Dependencies["postgres"]["status"] != "disabled" {
		t.Errorf("expected postgres disabled, got %v", resp.Dependencies["postgres"])
	}
	if resp.Dependencies["rabbitmq"]["status"] != "disabled" {
		t.Errorf("expected rabbitmq disabled, got %v", resp.Dependencies["rabbitmq"])
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestHealth_MQTTDisconnected(t *testing.T) {
	code, resp := runHealth(t, &HealthChecker{mqtt: fakeMQTT{connected: false}})

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if resp.Dependencies["mqtt"]["status"] != "down" {
		t.Errorf("expected mqtt down, got %v", resp.Dependencies["mqtt"])
	}
}

func TestHealth_AllUp(t *testing.T) {
	code, resp := runHealth(t, &HealthChecker{
		db:       fakePinger{},
		amqpConn: fakeAMQP{},
		mqtt:     fakeMQTT{connected: true},
	})

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	for _, dep := range []string{"postgres", "rabbitmq", "mqtt"} {
		if resp.Dependencies[dep]["status"] != "up" {
			t.Errorf("expected %s up, got %v", dep, resp.Dependencies[dep])
		}
	}
}

func TestHealth_StoreDown(t *testing.T) {
	code, resp := runHealth(t, &HealthChecker{
		db:       fakePinger{err: errors.New("refused")},
		amqpConn: fakeAMQP{closed: true},
		mqtt:     fakeMQTT{connected: true},
	})

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if resp.Dependencies["postgres"]["status"] != "down" {
		t.Errorf("expected postgres down, got %v", resp.Dependencies["postgres"])
	}
	if resp.Dependencies["rabbitmq"]["status"] != "down" {
		t.Errorf("expected rabbitmq down, got %v", resp.Dependencies["rabbitmq"])
	}
}
