package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// BillEvidencePrefix is the storage key prefix of uploaded bill evidence
const BillEvidencePrefix = "bill-evidence"

// ObjectStorageService defines object storage operations.
// It is implemented by the infrastructure layer (S3, MinIO, in-memory).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// UploadURLRequest asks for a presigned upload of one bill evidence file
type UploadURLRequest struct {
	PropertyID  string `json:"property_id" binding:"required,max=100"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"min=0"`
}

// UploadURLResponse carries the presigned URL and the attachment to store on the transaction
type UploadURLResponse struct {
	UploadURL  string        `json:"upload_url"`
	ExpiresAt  time.Time     `json:"expires_at"`
	Attachment AttachmentDTO `json:"attachment"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AttachmentService issues presigned URLs for bill evidence
type AttachmentService struct {
	storage ObjectStorageService
	config  AttachmentServiceConfig
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(storage ObjectStorageService) *AttachmentService {
	return &AttachmentService{
		storage: storage,
		config:  DefaultAttachmentServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload validates the file and returns a presigned PUT URL under a fresh storage key
func (s *AttachmentService) InitiateUpload(ctx context.Context, req UploadURLRequest) (*UploadURLResponse, error) {
	if !ledger.IsAllowedAttachmentType(req.ContentType) {
		return nil, shared.NewValidationError("INVALID_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for bill evidence", req.ContentType))
	}
	if err := ledger.ValidateAttachmentSize(req.Size); err != nil {
		return nil, err
	}

	fileName := sanitizeFileName(req.FileName)
	storageKey := GenerateStorageKey(req.PropertyID, fileName)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_FAILED", "Failed to generate upload URL")
	}

	return &UploadURLResponse{
		UploadURL: url,
		ExpiresAt: expiresAt,
		Attachment: AttachmentDTO{
			StorageKey:  storageKey,
			FileName:    fileName,
			ContentType: req.ContentType,
			Size:        req.Size,
		},
	}, nil
}

// DownloadURL returns a presigned GET URL for an uploaded bill evidence file
func (s *AttachmentService) DownloadURL(ctx context.Context, storageKey string) (*DownloadURLResponse, error) {
	storageKey = strings.TrimSpace(storageKey)
	if !strings.HasPrefix(storageKey, BillEvidencePrefix+"/") || strings.Contains(storageKey, "..") {
		return nil, shared.NewValidationError("INVALID_STORAGE_KEY", "Storage key does not reference bill evidence")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_FAILED", "Failed to look up attachment")
	}
	if !exists {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Attachment not found")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_FAILED", "Failed to generate download URL")
	}
	return &DownloadURLResponse{DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// GenerateStorageKey builds bill-evidence/{property}/{uuid}{ext}
func GenerateStorageKey(propertyID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	property := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(strings.TrimSpace(propertyID))
	return fmt.Sprintf("%s/%s/%s%s", BillEvidencePrefix, property, uuid.New().String(), ext)
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return "attachment"
	}
	return name
}
