package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	memberID  = "0b7c1f0e-4c55-4a4e-9d61-6f2a8a1c0001"
	projectID = "0b7c1f0e-4c55-4a4e-9d61-6f2a8a1c0002"
	roleID    = "0b7c1f0e-4c55-4a4e-9d61-6f2a8a1c0003"
	allocID   = "0b7c1f0e-4c55-4a4e-9d61-6f2a8a1c0004"
	adminID   = "0b7c1f0e-4c55-4a4e-9d61-6f2a8a1c0005"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}
