package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/saasbase/saasbase/internal/db/models"
)

var projectCols = []string{
	"id", "organization_id", "name", "description", "created_by",
	"is_active", "created_at", "updated_at",
}

func sampleProjectRow() *sqlmock.Rows {
	now := time.Now()
	creator := "user-1"
	return sqlmock.NewRows(projectCols).
		AddRow("proj-1", "org-1", "Billing", "billing backend", &creator, true, now, now)
}

func newProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProjectRepository(sqlx.NewDb(db, "sqlmock")), mock
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProjectCreate_Success(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnResult(sqlmock.NewResult(1, 1))

	creator := "user-1"
	project := &models.Project{
		OrganizationID: "org-1",
		Name:           "Billing",
		Description:    "billing backend",
		CreatedBy:      &creator,
		IsActive:       true,
	}
	if err := repo.Create(context.Background(), project); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.ID == "" {
		t.Error("Create should assign a UUID")
	}
}

func TestProjectCreate_DBError(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(errDB)

	if err := repo.Create(context.Background(), &models.Project{}); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetByID / GetByName
// ---------------------------------------------------------------------------

func TestProjectGetByID_Found(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT.*FROM projects.*WHERE organization_id").
		WithArgs("org-1", "proj-1").
		WillReturnRows(sampleProjectRow())

	project, err := repo.GetByID(context.Background(), "org-1", "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project == nil {
		t.Fatal("expected project, got nil")
	}
	if project.Name != "Billing" {
		t.Errorf("Name = %s, want Billing", project.Name)
	}
}

func TestProjectGetByID_CrossTenantBehavesAsMissing(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT.*FROM projects.*WHERE organization_id").
		WithArgs("org-OTHER", "proj-1").
		WillReturnRows(sqlmock.NewRows(projectCols))

	project, err := repo.GetByID(context.Background(), "org-OTHER", "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project != nil {
		t.Error("cross-tenant lookup should return nil")
	}
}

func TestProjectGetByName(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT.*FROM projects.*WHERE organization_id.*name").
		WithArgs("org-1", "Billing").
		WillReturnRows(sampleProjectRow())

	project, err := repo.GetByName(context.Background(), "org-1", "Billing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project == nil {
		t.Fatal("expected project, got nil")
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProjectList(t *testing.T) {
	repo, mock := newProjectRepo(t)
	now := time.Now()
	rows := sqlmock.NewRows(projectCols).
		AddRow("proj-1", "org-1", "Billing", "", nil, true, now, now).
		AddRow("proj-2", "org-1", "Website", "", nil, true, now, now)
	mock.ExpectQuery("SELECT.*FROM projects.*WHERE organization_id").
		WithArgs("org-1", 50, 0).
		WillReturnRows(rows)

	projects, err := repo.List(context.Background(), "org-1", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("len(projects) = %d, want 2", len(projects))
	}
}

// ---------------------------------------------------------------------------
// Update / SoftDelete
// ---------------------------------------------------------------------------

func TestProjectUpdate_ZeroRows(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("UPDATE projects").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Update(context.Background(), &models.Project{ID: "missing", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for zero rows affected")
	}
}

func TestProjectSoftDelete_Found(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("UPDATE projects.*SET is_active").
		WithArgs("org-1", "proj-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SoftDelete(context.Background(), "org-1", "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected ok=true")
	}
}

func TestProjectSoftDelete_AlreadyDeleted(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("UPDATE projects.*SET is_active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.SoftDelete(context.Background(), "org-1", "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("soft delete of an inactive project should report not-found")
	}
}
