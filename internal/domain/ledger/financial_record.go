package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeFinancialRecord is the aggregate type name used in domain events
const AggregateTypeFinancialRecord = "FinancialRecord"

// FinancialRecord is the monthly ledger of one property.
// Transaction order within a bucket is display order; positions shift on removal,
// ids never change.
type FinancialRecord struct {
	shared.BaseAggregateRoot
	PropertyID           string              `json:"property_id"`
	Period               Period              `json:"period"`
	Income               []Transaction       `json:"income"`
	Expenses             []Transaction       `json:"expenses"`
	TotalIncome          decimal.Decimal     `json:"total_income"`
	TotalExpenses        decimal.Decimal     `json:"total_expenses"`
	InvestorTransactions []InvestorCarryOver `json:"investor_transactions"`
	IsClosed             bool                `json:"is_closed"`
	ClosedAt             *time.Time          `json:"closed_at"`
	// RosterSnapshot is the property's investor roster at close; empty while open
	RosterSnapshot       []RosterShare       `json:"roster_snapshot"`
}

// NewFinancialRecord creates an empty, open record with zero totals
func NewFinancialRecord(propertyID string, period Period) (*FinancialRecord, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, shared.NewValidationError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if _, err := NewPeriod(period.Year, period.Month); err != nil {
		return nil, err
	}

	return &FinancialRecord{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		PropertyID:           propertyID,
		Period:               period,
		Income:               make([]Transaction, 0),
		Expenses:             make([]Transaction, 0),
		TotalIncome:          decimal.Zero,
		TotalExpenses:        decimal.Zero,
		InvestorTransactions: make([]InvestorCarryOver, 0),
		RosterSnapshot:       make([]RosterShare, 0),
	}, nil
}

// Transactions returns the ordered transactions of a bucket
func (r *FinancialRecord) Transactions(bucket Bucket) []Transaction {
	switch bucket {
	case BucketIncome:
		return r.Income
	case BucketExpenses:
		return r.Expenses
	}
	return nil
}

// Total returns the stored total of a bucket
func (r *FinancialRecord) Total(bucket Bucket) decimal.Decimal {
	if bucket == BucketIncome {
		return r.TotalIncome
	}
	return r.TotalExpenses
}

// NetProfit returns total income minus total expenses
func (r *FinancialRecord) NetProfit() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpenses)
}

// IndexOf returns the current position of a transaction, or -1
func (r *FinancialRecord) IndexOf(bucket Bucket, txID uuid.UUID) int {
	for i, tx := range r.Transactions(bucket) {
		if tx.ID == txID {
			return i
		}
	}
	return -1
}

// AddTransaction appends a transaction to the end of a bucket
func (r *FinancialRecord) AddTransaction(bucket Bucket, in TransactionInput) (Transaction, error) {
	if err := r.ensureOpen(); err != nil {
		return Transaction{}, err
	}
	tx, err := NewTransaction(bucket, in)
	if err != nil {
		return Transaction{}, err
	}

	r.setTransactions(bucket, append(r.Transactions(bucket), tx))
	r.recalculateTotals()
	r.touch()

	r.AddDomainEvent(NewTransactionAddedEvent(r, bucket, tx, len(r.Transactions(bucket))-1))

	return tx, nil
}

// UpdateTransaction replaces the transaction at index, keeping its id and position
func (r *FinancialRecord) UpdateTransaction(bucket Bucket, index int, in TransactionInput) (Transaction, error) {
	if err := r.ensureOpen(); err != nil {
		return Transaction{}, err
	}
	if err := r.checkIndex(bucket, index); err != nil {
		return Transaction{}, err
	}
	if err := in.Validate(bucket); err != nil {
		return Transaction{}, err
	}

	txs := r.Transactions(bucket)
	txs[index].apply(in)
	r.recalculateTotals()
	r.touch()

	r.AddDomainEvent(NewTransactionUpdatedEvent(r, bucket, txs[index], index))

	return txs[index], nil
}

// UpdateTransactionByID replaces the transaction with the given id
func (r *FinancialRecord) UpdateTransactionByID(bucket Bucket, txID uuid.UUID, in TransactionInput) (Transaction, error) {
	if err := r.ensureOpen(); err != nil {
		return Transaction{}, err
	}
	index := r.IndexOf(bucket, txID)
	if index < 0 {
		return Transaction{}, transactionNotFound(bucket, txID)
	}
	return r.UpdateTransaction(bucket, index, in)
}

// RemoveTransaction deletes the transaction at index; later transactions move up by one
func (r *FinancialRecord) RemoveTransaction(bucket Bucket, index int) (Transaction, error) {
	if err := r.ensureOpen(); err != nil {
		return Transaction{}, err
	}
	if err := r.checkIndex(bucket, index); err != nil {
		return Transaction{}, err
	}

	txs := r.Transactions(bucket)
	removed := txs[index]
	remaining := make([]Transaction, 0, len(txs)-1)
	remaining = append(remaining, txs[:index]...)
	remaining = append(remaining, txs[index+1:]...)

	r.setTransactions(bucket, remaining)
	r.recalculateTotals()
	r.touch()

	r.AddDomainEvent(NewTransactionRemovedEvent(r, bucket, removed, index))

	return removed, nil
}

// RemoveTransactionByID deletes the transaction with the given id
func (r *FinancialRecord) RemoveTransactionByID(bucket Bucket, txID uuid.UUID) (Transaction, error) {
	if err := r.ensureOpen(); err != nil {
		return Transaction{}, err
	}
	index := r.IndexOf(bucket, txID)
	if index < 0 {
		return Transaction{}, transactionNotFound(bucket, txID)
	}
	return r.RemoveTransaction(bucket, index)
}

// CarryOverFor returns the carry-over entry of an investor, zero when absent
func (r *FinancialRecord) CarryOverFor(investorID string) InvestorCarryOver {
	for _, c := range r.InvestorTransactions {
		if c.InvestorID == investorID {
			return c
		}
	}
	return InvestorCarryOver{
		InvestorID:      investorID,
		AlreadyPaid:     decimal.Zero,
		AlreadyReceived: decimal.Zero,
	}
}

// SetCarryOver records amounts already paid to or received from an investor.
// Setting both amounts to zero removes the entry.
func (r *FinancialRecord) SetCarryOver(investorID string, alreadyPaid, alreadyReceived decimal.Decimal) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	investorID = strings.TrimSpace(investorID)
	if investorID == "" {
		return shared.NewValidationError("INVALID_INVESTOR", "Investor ID cannot be empty")
	}
	if err := ValidateAmount(alreadyPaid, "Carry-over amount"); err != nil {
		return err
	}
	if err := ValidateAmount(alreadyReceived, "Carry-over amount"); err != nil {
		return err
	}

	entry := InvestorCarryOver{
		InvestorID:      investorID,
		AlreadyPaid:     alreadyPaid,
		AlreadyReceived: alreadyReceived,
	}

	updated := make([]InvestorCarryOver, 0, len(r.InvestorTransactions)+1)
	found := false
	for _, c := range r.InvestorTransactions {
		if c.InvestorID != investorID {
			updated = append(updated, c)
			continue
		}
		found = true
		if !entry.IsZero() {
			updated = append(updated, entry)
		}
	}
	if !found && !entry.IsZero() {
		updated = append(updated, entry)
	}
	r.InvestorTransactions = updated
	r.touch()

	r.AddDomainEvent(NewCarryOverSetEvent(r, entry))

	return nil
}

// Close locks the record against further mutation and freezes the roster it settles against
func (r *FinancialRecord) Close(roster []RosterShare) error {
	if r.IsClosed {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Financial record for %s is already closed", r.Period))
	}
	if err := validateRoster(roster); err != nil {
		return err
	}
	now := time.Now()
	r.IsClosed = true
	r.ClosedAt = &now
	r.RosterSnapshot = append(make([]RosterShare, 0, len(roster)), roster...)
	r.UpdatedAt = now

	r.AddDomainEvent(NewRecordClosedEvent(r))

	return nil
}

// Reopen unlocks a closed record
func (r *FinancialRecord) Reopen() error {
	if !r.IsClosed {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Financial record for %s is not closed", r.Period))
	}
	r.IsClosed = false
	r.ClosedAt = nil
	r.RosterSnapshot = make([]RosterShare, 0)
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewRecordReopenedEvent(r))

	return nil
}

// RecalculateTotals recomputes both totals from the stored transactions
func (r *FinancialRecord) RecalculateTotals() {
	r.recalculateTotals()
}

func (r *FinancialRecord) recalculateTotals() {
	r.TotalIncome = sumAmounts(r.Income)
	r.TotalExpenses = sumAmounts(r.Expenses)
}

func sumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

func (r *FinancialRecord) setTransactions(bucket Bucket, txs []Transaction) {
	switch bucket {
	case BucketIncome:
		r.Income = txs
	case BucketExpenses:
		r.Expenses = txs
	}
}

func (r *FinancialRecord) ensureOpen() error {
	if r.IsClosed {
		return shared.NewDomainError(shared.CodeClosedPeriod,
			fmt.Sprintf("Financial record for property %s, %s is closed", r.PropertyID, r.Period))
	}
	return nil
}

func (r *FinancialRecord) checkIndex(bucket Bucket, index int) error {
	if !bucket.IsValid() {
		return shared.NewValidationError("INVALID_BUCKET", fmt.Sprintf("Unknown bucket %q", bucket))
	}
	n := len(r.Transactions(bucket))
	if index < 0 || index >= n {
		return shared.NewDomainError(shared.CodeIndexOutOfRange,
			fmt.Sprintf("No %s transaction at index %d (have %d)", bucket, index, n))
	}
	return nil
}

func (r *FinancialRecord) touch() {
	r.UpdatedAt = time.Now()
}

func transactionNotFound(bucket Bucket, txID uuid.UUID) error {
	return shared.NewDomainError("TRANSACTION_NOT_FOUND",
		fmt.Sprintf("No %s transaction with id %s", bucket, txID))
}
