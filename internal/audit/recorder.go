// Package audit handles durable audit trail recording for security-relevant
// events: logins, key lifecycle operations, user and project mutations. Audit
// entries are intentionally separate from application logs because they have
// different consumers and retention requirements — application logs are
// ephemeral debug output consumed by on-call engineers, while audit entries are
// immutable records consumed by security teams and may be subject to compliance
// retention policies measured in years. Entries are persisted to the audit_logs
// table and optionally fanned out to external destinations (file, webhook)
// through the Shipper interface.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/safego"
	"github.com/saasbase/saasbase/internal/telemetry"
)

// Action tags. Kept as a small fixed vocabulary so audit consumers (and the
// audit_events_total metric) can rely on bounded values.
const (
	ActionUserRegistered  = "USER_REGISTERED"
	ActionUserLogin       = "USER_LOGIN"
	ActionUserCreated     = "USER_CREATED"
	ActionUserUpdated     = "USER_UPDATED"
	ActionUserDeactivated = "USER_DEACTIVATED"
	ActionPasswordChanged = "PASSWORD_CHANGED"
	ActionAPIKeyCreated   = "API_KEY_CREATED"
	ActionAPIKeyRotated   = "API_KEY_ROTATED"
	ActionAPIKeyRevoked   = "API_KEY_REVOKED"
	ActionAPIKeyUsed      = "API_KEY_USED"
	ActionProjectCreated  = "PROJECT_CREATED"
	ActionProjectUpdated  = "PROJECT_UPDATED"
	ActionProjectDeleted  = "PROJECT_DELETED"
)

// writeTimeout bounds the detached audit write so a stalled database cannot
// accumulate goroutines forever.
const writeTimeout = 5 * time.Second

// store is the persistence dependency of the Recorder.
type store interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// Event is one security-relevant occurrence to record.
type Event struct {
	ActorUserID    *string // nil when the actor is an API key or system action
	OrganizationID string
	Action         string
	Resource       string
	Details        map[string]interface{}
	IPAddress      string
	UserAgent      string
}

// Recorder writes audit entries best-effort. Record never blocks its caller
// and never returns an error: audit logging is a side effect, not a
// precondition, of business success. Failures are logged and counted, nothing
// more.
type Recorder struct {
	store   store
	shipper Shipper // optional fan-out to external destinations
}

// NewRecorder creates a Recorder. shipper may be nil.
func NewRecorder(store store, shipper Shipper) *Recorder {
	return &Recorder{store: store, shipper: shipper}
}

// Record persists the event asynchronously. The write runs on a detached
// context with its own timeout: a client disconnect during the triggering
// request must not abandon an in-flight audit write.
func (r *Recorder) Record(event Event) {
	safego.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		entry := &models.AuditLog{
			UserID:         event.ActorUserID,
			OrganizationID: event.OrganizationID,
			Action:         event.Action,
			Resource:       event.Resource,
			Details:        event.Details,
			IPAddress:      event.IPAddress,
			UserAgent:      event.UserAgent,
		}

		if err := r.store.Create(ctx, entry); err != nil {
			telemetry.AuditWriteFailuresTotal.Inc()
			slog.Error("audit write failed",
				"action", event.Action,
				"organization_id", event.OrganizationID,
				"error", err)
			return
		}
		telemetry.AuditEventsTotal.WithLabelValues(event.Action).Inc()

		if r.shipper != nil {
			if err := r.shipper.Ship(ctx, &LogEntry{
				Timestamp:      entry.CreatedAt,
				Action:         entry.Action,
				UserID:         stringOrEmpty(entry.UserID),
				OrganizationID: entry.OrganizationID,
				Resource:       entry.Resource,
				IPAddress:      entry.IPAddress,
				UserAgent:      entry.UserAgent,
				Details:        entry.Details,
			}); err != nil {
				slog.Warn("audit shipper failed", "action", event.Action, "error", err)
			}
		}
	})
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
