package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/services"
)

// ---------------------------------------------------------------------------
// Test setup
// ---------------------------------------------------------------------------

func newUserRouter(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := services.NewUserService(repositories.NewUserRepository(db), testRecorder())
	h := NewUserHandlers(svc)

	r := gin.New()
	r.Use(asIdentity("user-1", "org-1", auth.RoleAdmin))
	r.POST("/users", h.Create)
	r.GET("/users", h.List)
	r.POST("/users/password", h.ChangePassword)
	r.GET("/users/:userId", h.Get)
	r.PUT("/users/:userId", h.Update)
	r.DELETE("/users/:userId", h.Deactivate)
	return mock, r
}

func memberRow(t *testing.T, id, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows(userSQLCols).
		AddRow(id, "org-1", email, "Bob", "Jones", string(hash), "user", true, testTime, testTime)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateUser_Success(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(sqlmock.NewRows(userSQLCols))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", jsonBody(map[string]string{
		"email":     "bob@example.com",
		"password":  "long enough",
		"firstName": "Bob",
		"lastName":  "Jones",
		"role":      "user",
	})))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	data := dataOf(t, w)
	if data["email"] != "bob@example.com" {
		t.Errorf("email = %v, want bob@example.com", data["email"])
	}
	if data["organizationId"] != "org-1" {
		t.Errorf("organizationId = %v, want org-1 (from identity, not body)", data["organizationId"])
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(memberRow(t, "user-2", "bob@example.com", "pw"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", jsonBody(map[string]string{
		"email":     "bob@example.com",
		"password":  "long enough",
		"firstName": "Bob",
		"lastName":  "Jones",
		"role":      "user",
	})))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestGetUser_NotFound(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(sqlmock.NewRows(userSQLCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListUsers_Success(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(memberRow(t, "user-2", "bob@example.com", "pw"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users?limit=10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if list := listOf(t, w); len(list) != 1 {
		t.Errorf("len(data) = %d, want 1", len(list))
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdateUser_Role(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(memberRow(t, "user-2", "bob@example.com", "pw"))
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/users/user-2", jsonBody(map[string]string{
		"role": "manager",
	})))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	data := dataOf(t, w)
	if data["role"] != "manager" {
		t.Errorf("role = %v, want manager", data["role"])
	}
	// Untouched fields survive a partial update.
	if data["firstName"] != "Bob" {
		t.Errorf("firstName = %v, want Bob", data["firstName"])
	}
}

// ---------------------------------------------------------------------------
// ChangePassword
// ---------------------------------------------------------------------------

func TestChangePassword_Success(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(memberRow(t, "user-1", "alice@example.com", "old password"))
	mock.ExpectExec("UPDATE users.*password_hash").WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users/password", jsonBody(map[string]string{
		"currentPassword": "old password",
		"newPassword":     "new password",
	})))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectQuery("SELECT.*FROM users.*organization_id").
		WillReturnRows(memberRow(t, "user-1", "alice@example.com", "old password"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users/password", jsonBody(map[string]string{
		"currentPassword": "not it",
		"newPassword":     "new password",
	})))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Deactivate
// ---------------------------------------------------------------------------

func TestDeactivateUser_Success(t *testing.T) {
	mock, r := newUserRouter(t)

	mock.ExpectExec("UPDATE users.*is_active").WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/users/user-2", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
