package ledger

import (
	"fmt"
	"strings"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

const (
	// MaxBillEvidence is the maximum number of attachments per transaction
	MaxBillEvidence = 10
	// MaxAttachmentSize is the maximum size of a single attachment in bytes
	MaxAttachmentSize int64 = 10 << 20
)

// allowedAttachmentTypes is the whitelist of bill evidence content types.
// SVG is excluded because it can carry scripts.
var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// IsAllowedAttachmentType checks a content type against the whitelist
func IsAllowedAttachmentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return allowedAttachmentTypes[ct]
}

// Attachment references a bill evidence file held in object storage
type Attachment struct {
	StorageKey  string `json:"storage_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Validate checks the attachment reference
func (a Attachment) Validate() error {
	if strings.TrimSpace(a.StorageKey) == "" {
		return shared.NewValidationError("INVALID_BILL_EVIDENCE", "Attachment storage key cannot be empty")
	}
	if !IsAllowedAttachmentType(a.ContentType) {
		return shared.NewValidationError("INVALID_BILL_EVIDENCE",
			fmt.Sprintf("Attachment type %q is not supported", a.ContentType))
	}
	return ValidateAttachmentSize(a.Size)
}

// ValidateAttachmentSize checks the size of a single attachment
func ValidateAttachmentSize(size int64) error {
	if size < 0 {
		return shared.NewValidationError("INVALID_BILL_EVIDENCE", "Attachment size cannot be negative")
	}
	if size > MaxAttachmentSize {
		return shared.NewValidationError("INVALID_BILL_EVIDENCE",
			fmt.Sprintf("Attachment exceeds maximum size of %d bytes", MaxAttachmentSize))
	}
	return nil
}
