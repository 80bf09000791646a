package services_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/services"
)

func newProjectService(t *testing.T) (*services.ProjectService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	svc := services.NewProjectService(repositories.NewProjectRepository(sqlxDB), testRecorder())
	return svc, mock
}

var projectCols = []string{"id", "organization_id", "name", "description", "created_by", "is_active", "created_at", "updated_at"}

func projectRow(id, name string) *sqlmock.Rows {
	creator := "user-1"
	return sqlmock.NewRows(projectCols).
		AddRow(id, "org-1", name, "a description", creator, true, testTime, testTime)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProjectService_Create(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*name").
		WillReturnRows(sqlmock.NewRows(projectCols))
	mock.ExpectExec("INSERT INTO projects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	project, err := svc.Create(context.Background(), "org-1", "user-1", "billing", "billing pipeline", testMeta)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if project.ID == "" {
		t.Error("created project has empty id")
	}
	if project.CreatedBy == nil || *project.CreatedBy != "user-1" {
		t.Errorf("CreatedBy = %v, want user-1", project.CreatedBy)
	}
}

func TestProjectService_Create_DuplicateName(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*name").
		WillReturnRows(projectRow("proj-1", "billing"))

	_, err := svc.Create(context.Background(), "org-1", "user-1", "billing", "", testMeta)
	if apierr.KindOf(err) != apierr.KindConflict {
		t.Errorf("Create() kind = %v, want conflict", apierr.KindOf(err))
	}
}

func TestProjectService_Create_EmptyName(t *testing.T) {
	svc, _ := newProjectService(t)

	_, err := svc.Create(context.Background(), "org-1", "user-1", "   ", "", testMeta)
	if apierr.KindOf(err) != apierr.KindValidation {
		t.Errorf("Create() kind = %v, want validation", apierr.KindOf(err))
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestProjectService_Get(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*organization_id").
		WillReturnRows(projectRow("proj-1", "billing"))

	project, err := svc.Get(context.Background(), "org-1", "proj-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if project.Name != "billing" {
		t.Errorf("Name = %s, want billing", project.Name)
	}
}

func TestProjectService_Get_CrossTenantIsNotFound(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*organization_id").
		WillReturnRows(sqlmock.NewRows(projectCols))

	_, err := svc.Get(context.Background(), "org-other", "proj-1")
	if apierr.KindOf(err) != apierr.KindNotFound {
		t.Errorf("Get() kind = %v, want not found", apierr.KindOf(err))
	}
}

func TestProjectService_List(t *testing.T) {
	svc, mock := newProjectService(t)

	rows := sqlmock.NewRows(projectCols).
		AddRow("proj-2", "org-1", "newer", "", nil, true, testTime, testTime).
		AddRow("proj-1", "org-1", "older", "", nil, true, testTime, testTime)
	mock.ExpectQuery("SELECT.*FROM projects.*organization_id").
		WillReturnRows(rows)

	projects, err := svc.List(context.Background(), "org-1", 0, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len(projects) = %d, want 2", len(projects))
	}
	if projects[0].ID != "proj-2" {
		t.Errorf("first project = %s, want proj-2 (newest first)", projects[0].ID)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestProjectService_Update(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*organization_id").
		WillReturnRows(projectRow("proj-1", "billing"))
	// Rename path checks for a collision first.
	mock.ExpectQuery("SELECT.*FROM projects.*name").
		WillReturnRows(sqlmock.NewRows(projectCols))
	mock.ExpectExec("UPDATE projects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	name := "billing-v2"
	project, err := svc.Update(context.Background(), "org-1", "user-1", "proj-1", services.UpdateProjectInput{Name: &name}, testMeta)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if project.Name != "billing-v2" {
		t.Errorf("Name = %s, want billing-v2", project.Name)
	}
}

func TestProjectService_Update_RenameCollision(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectQuery("SELECT.*FROM projects.*organization_id").
		WillReturnRows(projectRow("proj-1", "billing"))
	mock.ExpectQuery("SELECT.*FROM projects.*name").
		WillReturnRows(projectRow("proj-9", "reports"))

	name := "reports"
	_, err := svc.Update(context.Background(), "org-1", "user-1", "proj-1", services.UpdateProjectInput{Name: &name}, testMeta)
	if apierr.KindOf(err) != apierr.KindConflict {
		t.Errorf("Update() kind = %v, want conflict", apierr.KindOf(err))
	}
}

func TestProjectService_Delete(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectExec("UPDATE projects.*is_active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Delete(context.Background(), "org-1", "user-1", "proj-1", testMeta); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	svc, mock := newProjectService(t)

	mock.ExpectExec("UPDATE projects.*is_active").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), "org-1", "user-1", "missing", testMeta)
	if apierr.KindOf(err) != apierr.KindNotFound {
		t.Errorf("Delete() kind = %v, want not found", apierr.KindOf(err))
	}
}
