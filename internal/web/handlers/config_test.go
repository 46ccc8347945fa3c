package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewConfigHandler(t *testing.T) {
	cfg := testConfig()

	handler := NewConfigHandler(cfg)

	if handler == nil {
		t.Fatal("expected non-nil handler")
		return
	}
	if handler.config != cfg {
		t.Error("expected handler to hold reference to config")
	}
}

func TestConfigHandler_Get(t *testing.T) {
	cfg := testConfig()
	cfg.Face.IndexMinSize = 500
	cfg.MQTT.Broker = "tcp://localhost:1883"
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)

	if result.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", result.Threshold)
	}
	if result.Metric != "euclidean" {
		t.Errorf("expected metric euclidean, got %q", result.Metric)
	}
	if result.MaxWidth != 1200 || result.IndexMinSize != 500 {
		t.Errorf("unexpected sizes %+v", result)
	}
	if result.SessionTTLSeconds != 3600 {
		t.Errorf("expected ttl 3600, got %d", result.SessionTTLSeconds)
	}
	if !result.NotificationsOn {
		t.Error("expected notifications enabled when a broker is set")
	}
}
