package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"projecttracker/models"
)

var roleColumns = []string{"id", "name", "department", "description", "created_at", "updated_at"}

func TestRoleRepo_Update_RenamesMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRoleRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Developer", "Engineering", "", now, now))
	mock.ExpectExec(`UPDATE "roles" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "team_members" SET "role"=\$1`).
		WithArgs("Software Engineer", sqlmock.AnyArg(), "Developer").
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Software Engineer", "Engineering", "", now, now))
	mock.ExpectCommit()

	role := &models.Role{Model: models.Model{ID: roleID}, Name: "Software Engineer", Department: "Engineering"}
	require.NoError(t, repo.Update(context.Background(), role))

	assert.Equal(t, "Software Engineer", role.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_Update_SameNameLeavesMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRoleRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Developer", "Engineering", "", now, now))
	mock.ExpectExec(`UPDATE "roles" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Developer", "Platform", "", now, now))
	mock.ExpectCommit()

	role := &models.Role{Model: models.Model{ID: roleID}, Name: "Developer", Department: "Platform"}
	require.NoError(t, repo.Update(context.Background(), role))

	assert.Equal(t, "Platform", role.Department)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRoleRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles"`).WillReturnRows(sqlmock.NewRows(roleColumns))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Role{Model: models.Model{ID: roleID}, Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_Delete_RefusedWhileHeld(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRoleRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Designer", "Design", "", now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "team_members" WHERE role = \$1`).
		WithArgs("Designer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), roleID)

	var inUse *RoleInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, "Designer", inUse.Name)
	assert.Equal(t, int64(2), inUse.Members)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepo_Delete_Unused(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormRoleRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "roles"`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(roleID, "Designer", "Design", "", now, now))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "team_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "roles" WHERE id = \$1`).
		WithArgs(roleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), roleID))
	require.NoError(t, mock.ExpectationsWereMet())
}
