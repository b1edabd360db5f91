package ledger

import (
	"fmt"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// Bucket identifies which side of a financial record a transaction belongs to
type Bucket string

const (
	BucketIncome   Bucket = "income"
	BucketExpenses Bucket = "expenses"
)

// ParseBucket converts a raw path segment into a Bucket
func ParseBucket(raw string) (Bucket, error) {
	b := Bucket(raw)
	if !b.IsValid() {
		return "", shared.NewValidationError("INVALID_BUCKET",
			fmt.Sprintf("Unknown bucket %q, expected income or expenses", raw))
	}
	return b, nil
}

// IsValid checks if the bucket is income or expenses
func (b Bucket) IsValid() bool {
	switch b {
	case BucketIncome, BucketExpenses:
		return true
	}
	return false
}

// String returns the string representation of Bucket
func (b Bucket) String() string {
	return string(b)
}

// DisplayName returns a human-readable name for the bucket
func (b Bucket) DisplayName() string {
	switch b {
	case BucketIncome:
		return "Income"
	case BucketExpenses:
		return "Expenses"
	default:
		return string(b)
	}
}
