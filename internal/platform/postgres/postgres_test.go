package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idverify/internal/platform/config"
	"idverify/migrations"
)

func TestOpenDisabledWithoutURL(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestEnsureSchema(t *testing.T) {
	scripts, err := migrations.Up()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	t.Run("applies every migration under the lock", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock($1)`).WithArgs(schemaLockID).WillReturnResult(sqlmock.NewResult(0, 0))
		for _, s := range scripts {
			mock.ExpectExec(s.SQL).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()

		require.NoError(t, EnsureSchema(context.Background(), db))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock($1)`).WithArgs(schemaLockID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(scripts[0].SQL).WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err = EnsureSchema(context.Background(), db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), scripts[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
