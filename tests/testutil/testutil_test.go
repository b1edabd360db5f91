package testutil

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mdb := NewMockDB(t)

	mdb.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, mdb.DB.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	mdb.ExpectationsWereMet(t)
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("prop-1"), NewTestUUID("prop-1"))
	assert.NotEqual(t, NewTestUUID("prop-1"), NewTestUUID("prop-2"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestWaitForCondition(t *testing.T) {
	calls := 0
	met := WaitForCondition(t, func() bool {
		calls++
		return calls >= 3
	}, time.Second, time.Millisecond)

	assert.True(t, met)
	RequireEventually(t, func() bool { return calls >= 3 }, 10*time.Millisecond)
}
