package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent":  logger.Silent,
		"ERROR":   logger.Error,
		" info ":  logger.Info,
		"warn":    logger.Warn,
		"unknown": logger.Warn,
		"":        logger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestNewGormDBFromConn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := NewGormDBFromConn(conn, PoolConfig{LogLevel: "silent"})
	require.NoError(t, err)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, mock.ExpectationsWereMet())
}
