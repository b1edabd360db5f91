package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of transaction dates
const DateLayout = "2006-01-02"

// RecordKey addresses the financial record of a property for one month
type RecordKey struct {
	PropertyID string
	Year       int
	Month      int
}

// Period validates the key and returns its period
func (k RecordKey) Period() (ledger.Period, error) {
	if strings.TrimSpace(k.PropertyID) == "" {
		return ledger.Period{}, shared.NewValidationError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	return ledger.NewPeriod(k.Year, k.Month)
}

// PaidByInput accepts either the structured form {"kind":"tenant","id":"7"}
// or the legacy prefixed string "tenant_7".
type PaidByInput struct {
	Ref ledger.PayerRef
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PaidByInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		ref, err := ledger.ParsePayerRef(raw)
		if err != nil {
			return err
		}
		p.Ref = ref
		return nil
	}
	var ref ledger.PayerRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("paidBy must be a string or an object: %w", err)
	}
	p.Ref = ref
	return nil
}

// AttachmentDTO references an uploaded bill evidence file
type AttachmentDTO struct {
	StorageKey  string `json:"storage_key" binding:"required"`
	FileName    string `json:"file_name" binding:"max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"min=0"`
}

// TransactionRequest is the body of add and update transaction calls
type TransactionRequest struct {
	Item                   string           `json:"item" binding:"required,max=200"`
	Amount                 *decimal.Decimal `json:"amount"`
	Date                   string           `json:"date" binding:"required"`
	PersonInCharge         string           `json:"person_in_charge" binding:"required,max=100"`
	RecipientAccountDetail string           `json:"recipient_account_detail" binding:"max=500"`
	Details                string           `json:"details"`
	BillEvidence           []AttachmentDTO  `json:"bill_evidence" binding:"omitempty,dive"`
	PaidBy                 *PaidByInput     `json:"paid_by"`
}

// ToInput converts the request into a domain input.
// Dates are accepted as YYYY-MM-DD or RFC 3339.
func (r TransactionRequest) ToInput() (ledger.TransactionInput, error) {
	if r.Amount == nil {
		return ledger.TransactionInput{}, shared.NewValidationError("INVALID_AMOUNT", "Amount is required")
	}
	date, err := parseDate(r.Date)
	if err != nil {
		return ledger.TransactionInput{}, err
	}

	in := ledger.TransactionInput{
		Item:                   r.Item,
		Amount:                 *r.Amount,
		Date:                   date,
		PersonInCharge:         r.PersonInCharge,
		RecipientAccountDetail: r.RecipientAccountDetail,
		Details:                r.Details,
	}
	for _, a := range r.BillEvidence {
		in.BillEvidence = append(in.BillEvidence, ledger.Attachment{
			StorageKey:  a.StorageKey,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	if r.PaidBy != nil {
		ref := r.PaidBy.Ref
		in.PaidBy = &ref
	}
	return in, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, shared.NewValidationError("INVALID_DATE",
		fmt.Sprintf("Date %q must be formatted as YYYY-MM-DD", raw))
}

// CarryOverRequest sets the amounts already settled with an investor
type CarryOverRequest struct {
	AlreadyPaid     decimal.Decimal `json:"already_paid"`
	AlreadyReceived decimal.Decimal `json:"already_received"`
}

// TransactionResponse is a transaction as returned to clients.
// Position is derived from the current order and changes when earlier items are removed.
type TransactionResponse struct {
	ID                     uuid.UUID           `json:"id"`
	Position               int                 `json:"position"`
	Item                   string              `json:"item"`
	Amount                 decimal.Decimal     `json:"amount"`
	Date                   string              `json:"date"`
	PersonInCharge         string              `json:"person_in_charge"`
	RecipientAccountDetail string              `json:"recipient_account_detail"`
	Details                string              `json:"details"`
	BillEvidence           []ledger.Attachment `json:"bill_evidence"`
	PaidBy                 *ledger.PayerRef    `json:"paid_by,omitempty"`
}

// FinancialRecordResponse is a full monthly record
type FinancialRecordResponse struct {
	ID                   uuid.UUID                  `json:"id"`
	PropertyID           string                     `json:"property_id"`
	Year                 int                        `json:"year"`
	Month                int                        `json:"month"`
	Income               []TransactionResponse      `json:"income"`
	Expenses             []TransactionResponse      `json:"expenses"`
	TotalIncome          decimal.Decimal            `json:"total_income"`
	TotalExpenses        decimal.Decimal            `json:"total_expenses"`
	NetProfit            decimal.Decimal            `json:"net_profit"`
	InvestorTransactions []ledger.InvestorCarryOver `json:"investor_transactions"`
	IsClosed             bool                       `json:"is_closed"`
	ClosedAt             *time.Time                 `json:"closed_at,omitempty"`
	RosterSnapshot       []ledger.RosterShare       `json:"roster_snapshot"`
	Version              int                        `json:"version"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

// FinancialRecordSummary is a record without its transactions, used in listings
type FinancialRecordSummary struct {
	ID            uuid.UUID       `json:"id"`
	PropertyID    string          `json:"property_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	IsClosed      bool            `json:"is_closed"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToTransactionResponses converts a bucket's transactions, assigning positions
func ToTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = ToTransactionResponse(tx, i)
	}
	return out
}

// ToTransactionResponse converts a transaction at a position
func ToTransactionResponse(tx ledger.Transaction, position int) TransactionResponse {
	evidence := tx.BillEvidence
	if evidence == nil {
		evidence = []ledger.Attachment{}
	}
	return TransactionResponse{
		ID:                     tx.ID,
		Position:               position,
		Item:                   tx.Item,
		Amount:                 tx.Amount,
		Date:                   tx.Date.Format(DateLayout),
		PersonInCharge:         tx.PersonInCharge,
		RecipientAccountDetail: tx.RecipientAccountDetail,
		Details:                tx.Details,
		BillEvidence:           evidence,
		PaidBy:                 tx.PaidBy,
	}
}

// ToFinancialRecordResponse converts a domain record
func ToFinancialRecordResponse(r *ledger.FinancialRecord) *FinancialRecordResponse {
	carryOvers := r.InvestorTransactions
	if carryOvers == nil {
		carryOvers = []ledger.InvestorCarryOver{}
	}
	roster := r.RosterSnapshot
	if roster == nil {
		roster = []ledger.RosterShare{}
	}
	return &FinancialRecordResponse{
		ID:                   r.ID,
		PropertyID:           r.PropertyID,
		Year:                 r.Period.Year,
		Month:                r.Period.Month,
		Income:               ToTransactionResponses(r.Income),
		Expenses:             ToTransactionResponses(r.Expenses),
		TotalIncome:          r.TotalIncome,
		TotalExpenses:        r.TotalExpenses,
		NetProfit:            r.NetProfit(),
		InvestorTransactions: carryOvers,
		IsClosed:             r.IsClosed,
		ClosedAt:             r.ClosedAt,
		RosterSnapshot:       roster,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// ToFinancialRecordSummary converts a domain record to its listing form
func ToFinancialRecordSummary(r ledger.FinancialRecord) FinancialRecordSummary {
	return FinancialRecordSummary{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		Year:          r.Period.Year,
		Month:         r.Period.Month,
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.TotalExpenses,
		NetProfit:     r.NetProfit(),
		IsClosed:      r.IsClosed,
		UpdatedAt:     r.UpdatedAt,
	}
}
