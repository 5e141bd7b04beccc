package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"testing/fstest"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	createTrackingSQL = "CREATE TABLE IF NOT EXISTS schema_migrations"
	checkAppliedSQL   = "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)"
	recordAppliedSQL  = "INSERT INTO schema_migrations (version) VALUES ($1)"
)

func TestRunMigrations_AppliesPendingInOrder(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	migrations := fstest.MapFS{
		"002_blog.up.sql":       {Data: []byte("CREATE TABLE blog()")},
		"001_products.up.sql":   {Data: []byte("CREATE TABLE products()")},
		"001_products.down.sql": {Data: []byte("DROP TABLE products")},
	}

	mock.ExpectExec(regexp.QuoteMeta(createTrackingSQL)).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery(regexp.QuoteMeta(checkAppliedSQL)).WithArgs("001_products.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(regexp.QuoteMeta(checkAppliedSQL)).WithArgs("002_blog.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE blog()")).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(recordAppliedSQL)).WithArgs("002_blog.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = RunMigrations(context.Background(), mock, migrations, discardLogger)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SQLErrorIsNotRetried(t *testing.T) {
	mock, err := NewMockPool()
	require.NoError(t, err)
	defer mock.Close()

	migrations := fstest.MapFS{"001_bad.up.sql": {Data: []byte("CREATE TABLE (")}}

	mock.ExpectExec(regexp.QuoteMeta(createTrackingSQL)).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta(checkAppliedSQL)).WithArgs("001_bad.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE (")).WillReturnError(errors.New("syntax error at or near \"(\""))
	mock.ExpectRollback()

	err = RunMigrations(context.Background(), mock, migrations, discardLogger)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 001_bad.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
