package constants

import "time"

// Session constants
const (
	// SessionSweepInterval is how often expired sessions are cleared
	SessionSweepInterval = 5 * time.Minute
)

// File upload constants
const (
	// MaxUploadSize is the maximum file upload size in bytes (32MB)
	MaxUploadSize = 32 << 20
)

// Notification constants
const (
	// DefaultMQTTTopicPrefix prefixes every published attendance topic
	DefaultMQTTTopicPrefix = "attendance"

	// MQTTPublishTimeout bounds a single outcome publish
	MQTTPublishTimeout = 5 * time.Second
)
