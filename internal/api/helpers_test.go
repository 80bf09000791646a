package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// discardStore satisfies the recorder's persistence dependency without
// touching the sqlmock expectation sequence.
type discardStore struct{}

func (discardStore) Create(context.Context, *models.AuditLog) error { return nil }

func testRecorder() *audit.Recorder {
	return audit.NewRecorder(discardStore{}, nil)
}

// asIdentity injects an authenticated identity the way the auth middleware
// would, so handler tests run without real credentials.
func asIdentity(userID, orgID string, role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxOrganizationID, orgID)
		c.Set(middleware.CtxRole, role)
		c.Next()
	}
}

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

func getJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid response JSON: %v (%s)", err, w.Body.String())
	}
	return m
}

// dataOf returns the envelope's data field as a map, failing the test when
// it is absent or not an object.
func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := getJSON(t, w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response data is not an object: %s", w.Body.String())
	}
	return data
}

// listOf returns the envelope's data field as a slice.
func listOf(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	resp := getJSON(t, w)
	data, ok := resp["data"].([]interface{})
	if !ok {
		t.Fatalf("response data is not an array: %s", w.Body.String())
	}
	return data
}
