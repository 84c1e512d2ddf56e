package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventUploadRejected     EventType = "upload_rejected"
	EventValidationFailed   EventType = "validation_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventAdminLoginFailed   EventType = "admin_login_failed"
	EventAdminLoginSuccess  EventType = "admin_login_success"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventStatusOverride     EventType = "status_override"
)

// AuditEvent is one structured audit record
type AuditEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "application_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// AuditLogger writes audit events as JSON through Zap
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewAuditLogger builds a production Zap logger writing to stdout
func NewAuditLogger(serviceName, environment string) *AuditLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewAuditLoggerWith(logger, serviceName, environment)
}

// NewAuditLoggerWith wraps an existing Zap logger
func NewAuditLoggerWith(logger *zap.Logger, serviceName, environment string) *AuditLogger {
	return &AuditLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopAuditLogger discards every event
func NopAuditLogger() *AuditLogger {
	return NewAuditLoggerWith(zap.NewNop(), "", "")
}

// Log writes an audit event
func (al *AuditLogger) Log(ctx context.Context, event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = al.serviceName
	event.Environment = al.environment

	level := zapcore.WarnLevel
	switch event.Event {
	case EventAdminLoginSuccess, EventStatusOverride:
		level = zapcore.InfoLevel
	case EventUnauthorizedAccess:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	al.zapLogger.Log(level, string(event.Event), fields...)
}

// LogUploadRejected records a refused document upload
func (al *AuditLogger) LogUploadRejected(ctx context.Context, email, field, filename, reason string) {
	al.Log(ctx, AuditEvent{
		Event:        EventUploadRejected,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details: map[string]interface{}{
			"field":    field,
			"filename": filename,
			"reason":   reason,
		},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (al *AuditLogger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	al.Log(ctx, AuditEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogAdminLogin records an admin login attempt
func (al *AuditLogger) LogAdminLogin(ctx context.Context, username string, success bool, reason string) {
	event := AuditEvent{
		Event:        EventAdminLoginSuccess,
		SubjectType:  "username",
		SubjectValue: HashValue(username),
	}
	if !success {
		event.Event = EventAdminLoginFailed
		event.Details = map[string]interface{}{"reason": reason}
	}
	al.Log(ctx, event)
}

// LogStatusOverride records a manual status change by an admin
func (al *AuditLogger) LogStatusOverride(ctx context.Context, applicationID, from, to, admin string) {
	al.Log(ctx, AuditEvent{
		Event:        EventStatusOverride,
		SubjectType:  "application_id",
		SubjectValue: applicationID,
		Details: map[string]interface{}{
			"from":  from,
			"to":    to,
			"admin": admin,
		},
	})
}

// Sync flushes any buffered log entries
func (al *AuditLogger) Sync() error {
	return al.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

// Environment maps GIN_MODE to an environment label
func Environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
