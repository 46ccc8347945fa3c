package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/facematch"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Face FaceConfig `yaml:"face"`
	Web  WebConfig  `yaml:"web"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// FaceConfig configures the face-analysis service and the matcher built on top of it.
type FaceConfig struct {
	ServiceURL   string        `yaml:"service_url"`
	Threshold    float64       `yaml:"threshold"`      // maximum descriptor distance for a match
	Metric       string        `yaml:"metric"`         // euclidean or cosine
	MaxWidth     int           `yaml:"max_width"`      // group photos wider than this are downscaled
	IndexMinSize int           `yaml:"index_min_size"` // roster size from which an HNSW index is built, 0 disables
	CandidateK   int           `yaml:"candidate_k"`
	MinDetScore  float64       `yaml:"min_det_score"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
}

type WebConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// MQTTConfig enables attendance outcome notifications when Broker is set.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
	ClientID    string `yaml:"client_id"`
}

// Enabled reports whether outcomes should be published.
func (c *MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envNonNegativeInt is envInt that also accepts zero.
func envNonNegativeInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping empty items.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Defaults returns the configuration embedded in defaults.yaml.
func Defaults() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return cfg
}

// Load returns the embedded defaults overridden by environment variables.
func Load() *Config {
	d := Defaults()

	return &Config{
		Face: FaceConfig{
			ServiceURL:   envString("FACE_SERVICE_URL", d.Face.ServiceURL),
			Threshold:    envFloat("FACE_MATCH_THRESHOLD", d.Face.Threshold),
			Metric:       strings.ToLower(envString("FACE_DISTANCE_METRIC", d.Face.Metric)),
			MaxWidth:     envInt("FACE_MAX_WIDTH", d.Face.MaxWidth),
			IndexMinSize: envNonNegativeInt("FACE_INDEX_MIN_SIZE", d.Face.IndexMinSize),
			CandidateK:   envInt("FACE_CANDIDATE_K", d.Face.CandidateK),
			MinDetScore:  envFloat("FACE_MIN_DET_SCORE", d.Face.MinDetScore),
			ReadyTimeout: envDuration("FACE_READY_TIMEOUT", d.Face.ReadyTimeout),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", d.Web.Host),
			Port:           envInt("WEB_PORT", d.Web.Port),
			SessionTTL:     envDuration("WEB_SESSION_TTL", d.Web.SessionTTL),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS", d.Web.AllowedOrigins),
		},
		MQTT: MQTTConfig{
			Broker:      os.Getenv("MQTT_BROKER"),
			TopicPrefix: envString("MQTT_TOPIC_PREFIX", d.MQTT.TopicPrefix),
			ClientID:    os.Getenv("MQTT_CLIENT_ID"),
		},
	}
}

// Validate checks values that cannot be repaired with a default.
func (c *Config) Validate() error {
	if _, err := facematch.ParseMetric(c.Face.Metric); err != nil {
		return fmt.Errorf("invalid face config: %w", err)
	}
	if c.Face.Threshold <= 0 {
		return fmt.Errorf("match threshold must be positive, got %v", c.Face.Threshold)
	}
	if c.Face.ServiceURL == "" {
		return errors.New("FACE_SERVICE_URL is required")
	}
	return nil
}
