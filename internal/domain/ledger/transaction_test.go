package ledger

import (
	"errors"
	"strings"
	"testing"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestTransactionInput_Validate(t *testing.T) {
	tenant := TenantPayer("42")

	tests := []struct {
		name   string
		bucket Bucket
		mutate func(*TransactionInput)
		code   string
	}{
		{"missing item", BucketIncome, func(in *TransactionInput) { in.Item = "  " }, "INVALID_ITEM"},
		{"negative amount", BucketIncome, func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-1) }, "INVALID_AMOUNT"},
		{"missing person in charge", BucketExpenses, func(in *TransactionInput) { in.PersonInCharge = "" }, "INVALID_PERSON_IN_CHARGE"},
		{"details too long", BucketIncome, func(in *TransactionInput) { in.Details = strings.Repeat("x", MaxDetailsLength+1) }, "INVALID_DETAILS"},
		{"paid by on expense", BucketExpenses, func(in *TransactionInput) { in.PaidBy = &tenant }, "INVALID_PAID_BY"},
		{"too many attachments", BucketIncome, func(in *TransactionInput) {
			for i := 0; i <= MaxBillEvidence; i++ {
				in.BillEvidence = append(in.BillEvidence, Attachment{StorageKey: "k", ContentType: "image/png", Size: 1})
			}
		}, "INVALID_BILL_EVIDENCE"},
		{"unsupported attachment", BucketIncome, func(in *TransactionInput) {
			in.BillEvidence = []Attachment{{StorageKey: "k", ContentType: "image/svg+xml", Size: 1}}
		}, "INVALID_BILL_EVIDENCE"},
		{"oversized attachment", BucketIncome, func(in *TransactionInput) {
			in.BillEvidence = []Attachment{{StorageKey: "k", ContentType: "application/pdf", Size: MaxAttachmentSize + 1}}
		}, "INVALID_BILL_EVIDENCE"},
		{"unknown bucket", Bucket("other"), func(in *TransactionInput) {}, "INVALID_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := txInput("Rent", 100, "1")
			tt.mutate(&in)
			err := in.Validate(tt.bucket)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}

	t.Run("details at limit counted in characters", func(t *testing.T) {
		in := txInput("Rent", 100, "1")
		in.Details = strings.Repeat("é", MaxDetailsLength)
		assert.NoError(t, in.Validate(BucketIncome))
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		in := txInput("Waived fee", 0, "1")
		assert.NoError(t, in.Validate(BucketExpenses))
	})

	t.Run("paid by tenant on income", func(t *testing.T) {
		in := txInput("Rent", 100, "1")
		in.PaidBy = &tenant
		in.BillEvidence = []Attachment{{StorageKey: "bill-evidence/a.pdf", ContentType: "application/pdf", Size: 2048}}
		tx, err := NewTransaction(BucketIncome, in)
		require.NoError(t, err)
		require.NotNil(t, tx.PaidBy)
		assert.True(t, tx.PaidBy.IsTenant())
		assert.Len(t, tx.BillEvidence, 1)
	})
}

func TestParsePayerRef(t *testing.T) {
	ref, err := ParsePayerRef("tenant_42")
	require.NoError(t, err)
	assert.Equal(t, TenantPayer("42"), ref)
	assert.Equal(t, "tenant_42", ref.String())

	ref, err = ParsePayerRef("investor_7")
	require.NoError(t, err)
	assert.True(t, ref.IsInvestor())

	for _, raw := range []string{"42", "landlord_1", "tenant_", ""} {
		_, err := ParsePayerRef(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("expenses")
	require.NoError(t, err)
	assert.Equal(t, BucketExpenses, b)
	assert.Equal(t, "Expenses", b.DisplayName())

	_, err = ParseBucket("expense")
	require.Error(t, err)
}

func TestIsAllowedAttachmentType(t *testing.T) {
	assert.True(t, IsAllowedAttachmentType("IMAGE/JPEG"))
	assert.True(t, IsAllowedAttachmentType("application/pdf; charset=binary"))
	assert.False(t, IsAllowedAttachmentType("text/html"))
}
