package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/services"
)

// errDB stands in for any driver-level failure in the tests below.
var errDB = errors.New("db failure")

// discardStore satisfies the audit recorder's persistence dependency without
// touching the sqlmock connection, keeping recorder goroutines out of the
// repositories' expectation sequence.
type discardStore struct{}

func (discardStore) Create(ctx context.Context, log *models.AuditLog) error { return nil }

func testRecorder() *audit.Recorder {
	return audit.NewRecorder(discardStore{}, nil)
}

var testMeta = services.RequestMeta{IPAddress: "203.0.113.9", UserAgent: "test-agent"}

// testTime is a fixed timestamp for sample rows.
var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
