package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func newTestRecord(t *testing.T, propertyID string, year, month int) *ledger.FinancialRecord {
	period, err := ledger.NewPeriod(year, month)
	require.NoError(t, err)
	record, err := ledger.NewFinancialRecord(propertyID, period)
	require.NoError(t, err)
	return record
}

func expenseInput(item string, amount int64, person string) ledger.TransactionInput {
	return ledger.TransactionInput{
		Item:           item,
		Amount:         decimal.NewFromInt(amount),
		Date:           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		PersonInCharge: person,
	}
}

func TestFinancialRecordRepository_CreateAndFind(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormFinancialRecordRepository(db)
	ctx := context.Background()

	record := newTestRecord(t, "prop-1", 2024, 3)
	require.NoError(t, repo.Create(ctx, record))

	t.Run("finds the empty record", func(t *testing.T) {
		found, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
		assert.Empty(t, found.Income)
		assert.Empty(t, found.Expenses)
		assert.True(t, found.TotalIncome.IsZero())
		assert.False(t, found.IsClosed)
	})

	t.Run("missing period returns not found", func(t *testing.T) {
		_, err := repo.FindByPeriod(ctx, "prop-1", ledger.Period{Year: 2024, Month: 4})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate period returns already exists", func(t *testing.T) {
		err := repo.Create(ctx, newTestRecord(t, "prop-1", 2024, 3))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestFinancialRecordRepository_Update(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormFinancialRecordRepository(db)
	ctx := context.Background()

	record := newTestRecord(t, "prop-1", 2024, 3)
	require.NoError(t, repo.Create(ctx, record))

	paidBy := ledger.TenantPayer("42")
	updated, err := repo.Update(ctx, "prop-1", record.Period, func(r *ledger.FinancialRecord) error {
		income := expenseInput("Rent", 1000, "1")
		income.PaidBy = &paidBy
		income.BillEvidence = []ledger.Attachment{{StorageKey: "bills/a.pdf", FileName: "a.pdf", ContentType: "application/pdf", Size: 10}}
		if _, err := r.AddTransaction(ledger.BucketIncome, income); err != nil {
			return err
		}
		if _, err := r.AddTransaction(ledger.BucketExpenses, expenseInput("Repair", 300, "2")); err != nil {
			return err
		}
		if _, err := r.AddTransaction(ledger.BucketExpenses, expenseInput("Cleaning", 100, "1")); err != nil {
			return err
		}
		return r.SetCarryOver("1", decimal.NewFromInt(50), decimal.Zero)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.GetDomainEvents(), 4)

	found, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
	require.NoError(t, err)
	require.Len(t, found.Income, 1)
	require.Len(t, found.Expenses, 2)
	assert.Equal(t, "Repair", found.Expenses[0].Item)
	assert.Equal(t, "Cleaning", found.Expenses[1].Item)
	assert.True(t, found.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, found.TotalExpenses.Equal(decimal.NewFromInt(400)))
	require.NotNil(t, found.Income[0].PaidBy)
	assert.Equal(t, paidBy, *found.Income[0].PaidBy)
	require.Len(t, found.Income[0].BillEvidence, 1)
	assert.Equal(t, "bills/a.pdf", found.Income[0].BillEvidence[0].StorageKey)
	assert.True(t, found.CarryOverFor("1").AlreadyPaid.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 2, found.Version)

	t.Run("removal shifts later positions", func(t *testing.T) {
		cleaningID := found.Expenses[1].ID
		_, err := repo.Update(ctx, "prop-1", record.Period, func(r *ledger.FinancialRecord) error {
			_, err := r.RemoveTransaction(ledger.BucketExpenses, 0)
			return err
		})
		require.NoError(t, err)

		after, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
		require.NoError(t, err)
		require.Len(t, after.Expenses, 1)
		assert.Equal(t, cleaningID, after.Expenses[0].ID)
		assert.True(t, after.TotalExpenses.Equal(decimal.NewFromInt(100)))
	})

	t.Run("failing mutation writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := repo.Update(ctx, "prop-1", record.Period, func(r *ledger.FinancialRecord) error {
			_, _ = r.AddTransaction(ledger.BucketIncome, expenseInput("Ghost", 1, "1"))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		after, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
		require.NoError(t, err)
		assert.Len(t, after.Income, 1)
	})

	t.Run("close persists closed state and roster snapshot", func(t *testing.T) {
		_, err := repo.Update(ctx, "prop-1", record.Period, func(r *ledger.FinancialRecord) error {
			return r.Close([]ledger.RosterShare{
				{InvestorID: "2", InvestorName: "Bob", Percentage: decimal.RequireFromString("33.333333")},
				{InvestorID: "1", InvestorName: "Alice", Percentage: decimal.RequireFromString("66.666667")},
			})
		})
		require.NoError(t, err)

		after, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
		require.NoError(t, err)
		assert.True(t, after.IsClosed)
		assert.NotNil(t, after.ClosedAt)
		require.Len(t, after.RosterSnapshot, 2)
		assert.Equal(t, "2", after.RosterSnapshot[0].InvestorID, "roster keeps its captured order")
		assert.Equal(t, "Alice", after.RosterSnapshot[1].InvestorName)
		assert.True(t, after.RosterSnapshot[0].Percentage.Equal(decimal.RequireFromString("33.333333")))
	})

	t.Run("reopen clears roster snapshot", func(t *testing.T) {
		_, err := repo.Update(ctx, "prop-1", record.Period, func(r *ledger.FinancialRecord) error {
			return r.Reopen()
		})
		require.NoError(t, err)

		after, err := repo.FindByPeriod(ctx, "prop-1", record.Period)
		require.NoError(t, err)
		assert.False(t, after.IsClosed)
		assert.Empty(t, after.RosterSnapshot)
	})

	t.Run("unknown record returns not found", func(t *testing.T) {
		_, err := repo.Update(ctx, "prop-x", record.Period, func(*ledger.FinancialRecord) error { return nil })
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestFinancialRecordRepository_FindByProperty(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormFinancialRecordRepository(db)
	ctx := context.Background()

	for month := 1; month <= 5; month++ {
		require.NoError(t, repo.Create(ctx, newTestRecord(t, "prop-1", 2024, month)))
	}
	require.NoError(t, repo.Create(ctx, newTestRecord(t, "prop-2", 2024, 1)))

	records, total, err := repo.FindByProperty(ctx, "prop-1", shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, records, 2)
	assert.Equal(t, 5, records[0].Period.Month)
	assert.Equal(t, 4, records[1].Period.Month)

	records, _, err = repo.FindByProperty(ctx, "prop-1", shared.Filter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Period.Month)
}

func TestFinancialRecordRepository_UpdateLocksRowOnPostgres(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewGormFinancialRecordRepository(db.DB)

	recordID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "financial_records" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "year", "month", "version"}).
			AddRow(recordID.String(), "prop-1", 2024, 3, 1))
	mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE record_id = \$1`).
		WithArgs(recordID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "investor_carry_overs" WHERE record_id = \$1`).
		WithArgs(recordID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}))
	mock.ExpectQuery(`SELECT \* FROM "record_roster_shares" WHERE record_id = \$1`).
		WithArgs(recordID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "prop-1", ledger.Period{Year: 2024, Month: 3}, func(r *ledger.FinancialRecord) error {
		return r.Reopen()
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
