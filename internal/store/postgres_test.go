package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/inventory-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgres_Migrate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "Tablets", model.RunStatusRunning, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := st.CreateRun(context.Background(), "Tablets")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompleteRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs(model.RunStatusComplete, 2, 9, "/out/a.json", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, st.CompleteRun(context.Background(), "run-1", 2, 9, "/out/a.json"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FailRun(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs(model.RunStatusFailed, 3, "boom", model.ErrorCategoryPermanent, pgxmock.AnyArg(), "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, st.FailRun(context.Background(), "run-2", 3, model.ErrorCategoryPermanent, "boom"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateRun_Error(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), "Tablets", model.RunStatusRunning, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	_, err := st.CreateRun(context.Background(), "Tablets")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
