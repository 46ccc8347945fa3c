package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Threshold         float64 `json:"threshold"`
	Metric            string  `json:"metric"`
	MaxWidth          int     `json:"max_width"`
	IndexMinSize      int     `json:"index_min_size"`
	SessionTTLSeconds int64   `json:"session_ttl_seconds"`
	NotificationsOn   bool    `json:"notifications_enabled"`
}

// Get returns the matching settings clients need to interpret results
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := ConfigResponse{
		Threshold:         h.config.Face.Threshold,
		Metric:            h.config.Face.Metric,
		MaxWidth:          h.config.Face.MaxWidth,
		IndexMinSize:      h.config.Face.IndexMinSize,
		SessionTTLSeconds: int64(h.config.Web.SessionTTL.Seconds()),
		NotificationsOn:   h.config.MQTT.Enabled(),
	}

	respondJSON(w, http.StatusOK, response)
}
