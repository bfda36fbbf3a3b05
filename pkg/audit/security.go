// Package audit provides security audit logging for SIEM consumption.
// Events are emitted as structured JSON so they can be parsed and correlated
// by security tooling without scraping free-form log lines.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags an argument value.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventValidationFailure is logged when argument validation rejects a call.
	EventValidationFailure SecurityEventType = "parameter_validation_failure"
)

// SecurityEvent is one auditable event with the context needed for analysis.
type SecurityEvent struct {
	EventID   uuid.UUID         `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	ItemKey   string            `json:"item_key"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails carries the specifics of a flagged argument value.
type InjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// SecurityAuditor logs security events on a dedicated logger namespace.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates an auditor. The logger gets a "security_audit"
// namespace so SIEM pipelines can filter on it.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records a flagged argument value at ERROR level with
// critical severity. The call that produced it has already been rejected.
func (a *SecurityAuditor) LogInjectionAttempt(itemKey string, details InjectionDetails) {
	event := SecurityEvent{
		EventID:   uuid.New(),
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		ItemKey:   itemKey,
		Details:   details,
		Severity:  "critical",
	}

	// Marshaling known types does not fail; the error is deliberately dropped.
	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("event_id", event.EventID.String()),
		zap.String("item_key", itemKey),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", "critical"),
	)
}

// LogValidationFailure records a rejected call at WARN level. Validation
// failures are caller mistakes, not attacks, but a burst of them against one
// item key is worth alerting on.
func (a *SecurityAuditor) LogValidationFailure(itemKey string, reason string) {
	event := SecurityEvent{
		EventID:   uuid.New(),
		Timestamp: time.Now().UTC(),
		EventType: EventValidationFailure,
		ItemKey:   itemKey,
		Details:   map[string]string{"reason": reason},
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Parameter validation failure",
		zap.String("event_json", string(eventJSON)),
		zap.String("event_id", event.EventID.String()),
		zap.String("item_key", itemKey),
		zap.String("reason", reason),
		zap.String("severity", "warning"),
	)
}
