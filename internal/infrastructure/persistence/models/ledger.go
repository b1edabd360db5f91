package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// FinancialRecordModel is the persistence model for the FinancialRecord aggregate root
type FinancialRecordModel struct {
	AggregateModel
	PropertyID    string                   `gorm:"type:varchar(64);not null;uniqueIndex:idx_financial_records_period,priority:1"`
	Year          int                      `gorm:"not null;uniqueIndex:idx_financial_records_period,priority:2"`
	Month         int                      `gorm:"not null;uniqueIndex:idx_financial_records_period,priority:3"`
	TotalIncome   decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TotalExpenses decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	IsClosed      bool                     `gorm:"not null;default:false"`
	ClosedAt      *time.Time
	Transactions  []LedgerTransactionModel `gorm:"foreignKey:RecordID;references:ID;constraint:OnDelete:CASCADE"`
	CarryOvers    []InvestorCarryOverModel `gorm:"foreignKey:RecordID;references:ID;constraint:OnDelete:CASCADE"`
	RosterShares  []RecordRosterShareModel `gorm:"foreignKey:RecordID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (FinancialRecordModel) TableName() string {
	return "financial_records"
}

// LedgerTransactionModel is the persistence model for an income or expense line item
type LedgerTransactionModel struct {
	ID                     uuid.UUID           `gorm:"type:uuid;primary_key"`
	RecordID               uuid.UUID           `gorm:"type:uuid;not null;index:idx_ledger_transactions_order,priority:1"`
	Bucket                 string              `gorm:"type:varchar(16);not null;index:idx_ledger_transactions_order,priority:2"`
	Position               int                 `gorm:"not null;index:idx_ledger_transactions_order,priority:3"`
	Item                   string              `gorm:"type:varchar(255);not null"`
	Amount                 decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Date                   time.Time           `gorm:"type:date;not null"`
	PersonInCharge         string              `gorm:"type:varchar(64);not null;index"`
	RecipientAccountDetail string              `gorm:"type:varchar(255)"`
	Details                string              `gorm:"type:varchar(2000)"`
	BillEvidence           []ledger.Attachment `gorm:"type:jsonb;serializer:json"`
	PaidByKind             *string             `gorm:"type:varchar(16)"`
	PaidByID               *string             `gorm:"type:varchar(64)"`
	CreatedAt              time.Time           `gorm:"not null"`
	UpdatedAt              time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerTransactionModel) TableName() string {
	return "ledger_transactions"
}

// InvestorCarryOverModel is the persistence model for per-investor carry-over amounts
type InvestorCarryOverModel struct {
	RecordID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvestorID      string          `gorm:"type:varchar(64);primaryKey"`
	AlreadyPaid     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AlreadyReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvestorCarryOverModel) TableName() string {
	return "investor_carry_overs"
}

// RecordRosterShareModel is one line of the roster a closed record settles against
type RecordRosterShareModel struct {
	RecordID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvestorID   string          `gorm:"type:varchar(64);primaryKey"`
	Position     int             `gorm:"not null"`
	InvestorName string          `gorm:"type:varchar(200);not null"`
	Percentage   decimal.Decimal `gorm:"type:decimal(9,6);not null"`
}

// TableName returns the table name for GORM
func (RecordRosterShareModel) TableName() string {
	return "record_roster_shares"
}

// ToDomain converts the persistence model to a domain FinancialRecord.
// Transactions and roster shares are expected in position order.
func (m *FinancialRecordModel) ToDomain() *ledger.FinancialRecord {
	r := &ledger.FinancialRecord{
		PropertyID:           m.PropertyID,
		Period:               ledger.Period{Year: m.Year, Month: m.Month},
		Income:               make([]ledger.Transaction, 0),
		Expenses:             make([]ledger.Transaction, 0),
		TotalIncome:          m.TotalIncome,
		TotalExpenses:        m.TotalExpenses,
		InvestorTransactions: make([]ledger.InvestorCarryOver, 0, len(m.CarryOvers)),
		IsClosed:             m.IsClosed,
		ClosedAt:             m.ClosedAt,
		RosterSnapshot:       make([]ledger.RosterShare, 0, len(m.RosterShares)),
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)

	for i := range m.Transactions {
		tx := m.Transactions[i].ToDomain()
		switch ledger.Bucket(m.Transactions[i].Bucket) {
		case ledger.BucketIncome:
			r.Income = append(r.Income, tx)
		case ledger.BucketExpenses:
			r.Expenses = append(r.Expenses, tx)
		}
	}
	for _, c := range m.CarryOvers {
		r.InvestorTransactions = append(r.InvestorTransactions, ledger.InvestorCarryOver{
			InvestorID:      c.InvestorID,
			AlreadyPaid:     c.AlreadyPaid,
			AlreadyReceived: c.AlreadyReceived,
		})
	}
	for _, rs := range m.RosterShares {
		r.RosterSnapshot = append(r.RosterSnapshot, ledger.RosterShare{
			InvestorID:   rs.InvestorID,
			InvestorName: rs.InvestorName,
			Percentage:   rs.Percentage,
		})
	}
	return r
}

// FinancialRecordModelFromDomain creates a persistence model, children included, from a domain record
func FinancialRecordModelFromDomain(r *ledger.FinancialRecord) *FinancialRecordModel {
	m := &FinancialRecordModel{
		PropertyID:    r.PropertyID,
		Year:          r.Period.Year,
		Month:         r.Period.Month,
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.TotalExpenses,
		IsClosed:      r.IsClosed,
		ClosedAt:      r.ClosedAt,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)

	for _, bucket := range []ledger.Bucket{ledger.BucketIncome, ledger.BucketExpenses} {
		for pos, tx := range r.Transactions(bucket) {
			m.Transactions = append(m.Transactions, LedgerTransactionModelFromDomain(r.ID, bucket, pos, tx, r.UpdatedAt))
		}
	}
	for _, c := range r.InvestorTransactions {
		m.CarryOvers = append(m.CarryOvers, InvestorCarryOverModel{
			RecordID:        r.ID,
			InvestorID:      c.InvestorID,
			AlreadyPaid:     c.AlreadyPaid,
			AlreadyReceived: c.AlreadyReceived,
		})
	}
	for pos, rs := range r.RosterSnapshot {
		m.RosterShares = append(m.RosterShares, RecordRosterShareModel{
			RecordID:     r.ID,
			InvestorID:   rs.InvestorID,
			Position:     pos,
			InvestorName: rs.InvestorName,
			Percentage:   rs.Percentage,
		})
	}
	return m
}

// ToDomain converts the persistence model to a domain Transaction
func (m *LedgerTransactionModel) ToDomain() ledger.Transaction {
	tx := ledger.Transaction{
		ID:                     m.ID,
		Item:                   m.Item,
		Amount:                 m.Amount,
		Date:                   m.Date.UTC(),
		PersonInCharge:         m.PersonInCharge,
		RecipientAccountDetail: m.RecipientAccountDetail,
		Details:                m.Details,
		BillEvidence:           m.BillEvidence,
	}
	if tx.BillEvidence == nil {
		tx.BillEvidence = make([]ledger.Attachment, 0)
	}
	if m.PaidByKind != nil && m.PaidByID != nil {
		tx.PaidBy = &ledger.PayerRef{Kind: ledger.PayerKind(*m.PaidByKind), ID: *m.PaidByID}
	}
	return tx
}

// LedgerTransactionModelFromDomain creates a persistence model for a transaction at a bucket position
func LedgerTransactionModelFromDomain(recordID uuid.UUID, bucket ledger.Bucket, position int, tx ledger.Transaction, now time.Time) LedgerTransactionModel {
	m := LedgerTransactionModel{
		ID:                     tx.ID,
		RecordID:               recordID,
		Bucket:                 bucket.String(),
		Position:               position,
		Item:                   tx.Item,
		Amount:                 tx.Amount,
		Date:                   tx.Date,
		PersonInCharge:         tx.PersonInCharge,
		RecipientAccountDetail: tx.RecipientAccountDetail,
		Details:                tx.Details,
		BillEvidence:           tx.BillEvidence,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if tx.PaidBy != nil {
		kind := string(tx.PaidBy.Kind)
		id := tx.PaidBy.ID
		m.PaidByKind = &kind
		m.PaidByID = &id
	}
	return m
}
