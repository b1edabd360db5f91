package ledger

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxDetailsLength is the maximum number of characters in a transaction's details
const MaxDetailsLength = 500

// AmountScale is the number of decimal places an amount can be stored with
const AmountScale = 4

// ValidateAmount rejects negative amounts and amounts finer than AmountScale
func ValidateAmount(amount decimal.Decimal, what string) error {
	if amount.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", what+" cannot be negative")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return shared.NewValidationError("INVALID_AMOUNT",
			fmt.Sprintf("%s cannot have more than %d decimal places", what, AmountScale))
	}
	return nil
}

// Transaction is a single income or expense line item
type Transaction struct {
	ID                     uuid.UUID       `json:"id"`
	Item                   string          `json:"item"`
	Amount                 decimal.Decimal `json:"amount"`
	Date                   time.Time       `json:"date"`
	PersonInCharge         string          `json:"person_in_charge"`
	RecipientAccountDetail string          `json:"recipient_account_detail"`
	Details                string          `json:"details"`
	BillEvidence           []Attachment    `json:"bill_evidence"`
	PaidBy                 *PayerRef       `json:"paid_by,omitempty"`
}

// TransactionInput carries the user-editable fields of a transaction
type TransactionInput struct {
	Item                   string
	Amount                 decimal.Decimal
	Date                   time.Time
	PersonInCharge         string
	RecipientAccountDetail string
	Details                string
	BillEvidence           []Attachment
	PaidBy                 *PayerRef
}

// NewTransaction validates the input for the given bucket and assigns a fresh id
func NewTransaction(bucket Bucket, in TransactionInput) (Transaction, error) {
	if err := in.Validate(bucket); err != nil {
		return Transaction{}, err
	}
	tx := Transaction{ID: uuid.New()}
	tx.apply(in)
	return tx, nil
}

// Validate checks the input against the rules of the bucket
func (in TransactionInput) Validate(bucket Bucket) error {
	if !bucket.IsValid() {
		return shared.NewValidationError("INVALID_BUCKET", fmt.Sprintf("Unknown bucket %q", bucket))
	}
	if strings.TrimSpace(in.Item) == "" {
		return shared.NewValidationError("INVALID_ITEM", "Item cannot be empty")
	}
	if err := ValidateAmount(in.Amount, "Amount"); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return shared.NewValidationError("INVALID_DATE", "Date is required")
	}
	if strings.TrimSpace(in.PersonInCharge) == "" {
		return shared.NewValidationError("INVALID_PERSON_IN_CHARGE", "Person in charge is required")
	}
	if utf8.RuneCountInString(in.Details) > MaxDetailsLength {
		return shared.NewValidationError("INVALID_DETAILS",
			fmt.Sprintf("Details cannot exceed %d characters", MaxDetailsLength))
	}
	if len(in.BillEvidence) > MaxBillEvidence {
		return shared.NewValidationError("INVALID_BILL_EVIDENCE",
			fmt.Sprintf("At most %d bill evidence attachments are allowed", MaxBillEvidence))
	}
	for _, a := range in.BillEvidence {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	if in.PaidBy != nil {
		if bucket != BucketIncome {
			return shared.NewValidationError("INVALID_PAID_BY", "paidBy is only allowed on income")
		}
		if err := in.PaidBy.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transaction) apply(in TransactionInput) {
	t.Item = strings.TrimSpace(in.Item)
	t.Amount = in.Amount
	t.Date = truncateToDate(in.Date)
	t.PersonInCharge = strings.TrimSpace(in.PersonInCharge)
	t.RecipientAccountDetail = in.RecipientAccountDetail
	t.Details = in.Details
	t.BillEvidence = append([]Attachment(nil), in.BillEvidence...)
	if in.PaidBy != nil {
		ref := *in.PaidBy
		t.PaidBy = &ref
	} else {
		t.PaidBy = nil
	}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HandledBy reports whether the given investor is in charge of this transaction
func (t Transaction) HandledBy(investorID string) bool {
	return t.PersonInCharge == investorID
}
