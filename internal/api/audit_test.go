package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/services"
)

// ---------------------------------------------------------------------------
// Test setup
// ---------------------------------------------------------------------------

var auditSQLCols = []string{"id", "user_id", "organization_id", "action", "resource", "details", "ip_address", "user_agent", "created_at"}

func newAuditRouter(t *testing.T, callerID string, role auth.Role) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := services.NewAuditService(repositories.NewAuditRepository(db))
	h := NewAuditHandlers(svc)

	r := gin.New()
	r.Use(asIdentity(callerID, "org-1", role))
	r.GET("/audit", h.ListOrganization)
	r.GET("/audit/:userId", h.ListUser)
	return mock, r
}

func auditRow(action string) *sqlmock.Rows {
	userID := "user-1"
	return sqlmock.NewRows(auditSQLCols).
		AddRow("log-1", userID, "org-1", action, "users/user-1", []byte(`{}`), "203.0.113.9", "curl/8.0", testTime)
}

// ---------------------------------------------------------------------------
// Organization trail
// ---------------------------------------------------------------------------

func TestListOrganizationAudit_Success(t *testing.T) {
	mock, r := newAuditRouter(t, "user-1", auth.RoleAdmin)

	mock.ExpectQuery("SELECT.*FROM audit_logs.*WHERE organization_id").
		WithArgs("org-1", 100).
		WillReturnRows(auditRow("USER_LOGIN"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/audit", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	list := listOf(t, w)
	if len(list) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(list))
	}
	if entry := list[0].(map[string]interface{}); entry["action"] != "USER_LOGIN" {
		t.Errorf("action = %v, want USER_LOGIN", entry["action"])
	}
}

func TestListOrganizationAudit_LimitPassedThrough(t *testing.T) {
	mock, r := newAuditRouter(t, "user-1", auth.RoleAdmin)

	mock.ExpectQuery("SELECT.*FROM audit_logs.*WHERE organization_id").
		WithArgs("org-1", 25).
		WillReturnRows(sqlmock.NewRows(auditSQLCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/audit?limit=25", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Per-user history: self or admin
// ---------------------------------------------------------------------------

func TestListUserAudit_Self(t *testing.T) {
	mock, r := newAuditRouter(t, "user-1", auth.RoleUser)

	mock.ExpectQuery("SELECT.*FROM audit_logs").
		WithArgs("org-1", "user-1", 100).
		WillReturnRows(auditRow("PASSWORD_CHANGED"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/audit/user-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListUserAudit_AdminReadsOthers(t *testing.T) {
	mock, r := newAuditRouter(t, "admin-1", auth.RoleAdmin)

	mock.ExpectQuery("SELECT.*FROM audit_logs").
		WithArgs("org-1", "user-1", 100).
		WillReturnRows(auditRow("USER_LOGIN"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/audit/user-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestListUserAudit_NonAdminReadingOthersIsForbidden(t *testing.T) {
	_, r := newAuditRouter(t, "user-2", auth.RoleManager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/audit/user-1", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
