package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func departmentRows(id, companyID int64, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "company_id", "name", "description", "manager_id", "created_at", "updated_at"}).
		AddRow(id, companyID, name, "", nil, now, now)
}

func TestDepartmentCreateMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("insert into departments").
		WithArgs(int64(1), "Engineering", "", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.Departments().Create(context.Background(), &portal.Department{CompanyID: 1, Name: "Engineering"})
	if !errors.Is(err, portal.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDepartmentUpdateOnlyPresentColumns(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`update departments set description = \$1, updated_at = now\(\) where id = \$2`).
		WithArgs("new text", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("select id, company_id, name, description, manager_id").
		WithArgs(int64(7)).
		WillReturnRows(departmentRows(7, 1, "Engineering"))

	patch := portal.DepartmentPatch{Description: portal.Field[string]{Present: true, Value: "new text"}}
	if _, err := store.Departments().Update(context.Background(), 7, patch); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDepartmentUpdateNullClearsManager(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`update departments set manager_id = NULL, updated_at = now\(\) where id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("select id, company_id, name, description, manager_id").
		WithArgs(int64(3)).
		WillReturnRows(departmentRows(3, 1, "Sales"))

	patch := portal.DepartmentPatch{ManagerID: portal.Field[int64]{Present: true, Null: true}}
	if _, err := store.Departments().Update(context.Background(), 3, patch); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// An empty patch must not Exec at all; the store just reloads the row.
func TestDepartmentUpdateEmptyPatchIssuesNoUpdate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("select id, company_id, name, description, manager_id").
		WithArgs(int64(9)).
		WillReturnRows(departmentRows(9, 2, "Ops"))

	if _, err := store.Departments().Update(context.Background(), 9, portal.DepartmentPatch{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDepartmentUpdateMissingRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("update departments").
		WithArgs("X", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	patch := portal.DepartmentPatch{Name: portal.Field[string]{Present: true, Value: "X"}}
	if _, err := store.Departments().Update(context.Background(), 404, patch); !errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDepartmentListByCompanyScansRows(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "company_id", "name", "description", "manager_id", "created_at", "updated_at"}).
		AddRow(int64(1), int64(2), "Engineering", "", int64(11), now, now).
		AddRow(int64(2), int64(2), "Sales", "field team", nil, now, now)
	mock.ExpectQuery("select id, company_id, name, description, manager_id").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	got, err := store.Departments().ListByCompany(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ManagerID == nil || *got[0].ManagerID != 11 {
		t.Fatalf("manager_id = %v, want 11", got[0].ManagerID)
	}
	if got[1].ManagerID != nil {
		t.Fatalf("manager_id = %v, want nil", got[1].ManagerID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDepartmentDeleteMapsForeignKeyViolation(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("delete from departments").
		WithArgs(int64(5)).
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	if err := store.Departments().Delete(context.Background(), 5); !errors.Is(err, portal.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestEmployeeUpdateBuildsOrderedPlaceholders(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`update employees set first_name = \$1, status = \$2, updated_at = now\(\) where id = \$3`).
		WithArgs("Aline", "inactive", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	now := time.Now().UTC()
	mock.ExpectQuery("select id, user_id, company_id, department_id").
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "company_id", "department_id", "first_name", "last_name", "email",
			"phone", "job_title", "hire_date", "address", "emergency_contact_name",
			"emergency_contact_phone", "education", "status", "created_at", "updated_at",
		}).AddRow(12, nil, 1, nil, "Aline", "Uwase", "a@x.example", "", "", nil, "", "", "", "", "inactive", now, now))

	patch := portal.EmployeePatch{
		FirstName: portal.Field[string]{Present: true, Value: "Aline"},
		Status:    portal.Field[string]{Present: true, Value: "inactive"},
	}
	emp, err := store.Employees().Update(context.Background(), 12, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if emp.HireDate != "" || emp.DepartmentID != nil {
		t.Fatalf("null columns mis-scanned: %+v", emp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserFindByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery("select id, company_id, email, password_hash, role, active").
		WithArgs("hr@rightseat.example").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "email", "password_hash", "role", "active", "created_at", "updated_at",
		}).AddRow(4, 1, "hr@rightseat.example", "$2a$hash", "hr_manager", true, now, now))

	user, err := store.Users().FindByEmail(context.Background(), "hr@rightseat.example")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.ID != 4 || string(user.Role) != "hr_manager" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
