package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

// NewPool needs a live server and is covered by integration runs; the
// repositories are exercised through pgxmock against the Pool interface.
var _ Pool = pgxmock.PgxPoolIface(nil)

func TestHealthCheck_Ping(t *testing.T) {
	mock := newMockPool(t)
	hc := NewHealthCheck(mock)

	mock.ExpectQuery("SELECT 1").WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))

	assert.NoError(t, hc.Ping(context.Background()))
	assert.Error(t, hc.Ping(context.Background()))
	assert.Equal(t, "postgresql", hc.Name())
}
