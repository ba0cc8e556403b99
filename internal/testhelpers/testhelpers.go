// Package testhelpers provides shared test utilities.
package testhelpers

import (
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/jonesrussell/document-manager/internal/logger"
)

// NewTestLogger creates a logger suitable for testing (discards output).
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}

// NewMockDB returns a sqlmock-backed database handle. The mock's
// expectations are verified during cleanup.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}

	t.Cleanup(func() {
		if expErr := mock.ExpectationsWereMet(); expErr != nil {
			t.Errorf("unmet sqlmock expectations: %v", expErr)
		}
		db.Close()
	})

	return db, mock
}
