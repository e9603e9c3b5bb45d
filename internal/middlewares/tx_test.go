package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTxMiddleware_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectCommit()

	var sawTx bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawTx = GetTxFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusCreated)
	})

	handler := TxMiddleware(sqlxDB, zap.NewNop().Sugar())(next)

	r := httptest.NewRequest(http.MethodPost, "/books", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, sawTx, "handler should see the transaction in context")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxMiddleware_RollsBackOnPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectRollback()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := TxMiddleware(sqlxDB, zap.NewNop().Sugar())(next)

	r := httptest.NewRequest(http.MethodPost, "/books", nil)
	w := httptest.NewRecorder()

	assert.Panics(t, func() {
		handler.ServeHTTP(w, r)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTxFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetTxFromContext(r.Context()))
}
