package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"projecttracker/models"
)

func TestProjectRepo_Update_SyncsAllocationNames(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormProjectRepo(db)
	now := time.Now()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "projects" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "allocations" SET "project_name"=\$1`).
		WithArgs("Apollo v2", sqlmock.AnyArg(), projectID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT \* FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "client", "start_date", "end_date", "status", "priority", "description", "created_at", "updated_at"}).
			AddRow(projectID, "Apollo v2", "NASA", start, nil, "Active", "High", "", now, now))
	mock.ExpectCommit()

	p := &models.Project{
		Model:     models.Model{ID: projectID},
		Name:      "Apollo v2",
		Client:    "NASA",
		StartDate: models.NewDate(2025, time.January, 6),
		Status:    models.ProjectActive,
		Priority:  models.PriorityHigh,
	}
	require.NoError(t, repo.Update(context.Background(), p))

	assert.Equal(t, "2025-01-06", p.StartDate.String())
	assert.Nil(t, p.EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepo_Delete_CascadesAllocations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1`).
		WithArgs(projectID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "allocations" WHERE project_id = \$1`).
		WithArgs(projectID).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), projectID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormProjectRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := repo.GetByID(context.Background(), projectID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
