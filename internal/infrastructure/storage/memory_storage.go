package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
)

var (
	_ ledgerapp.ObjectStorageService = (*MemoryObjectStorage)(nil)
	_ settlementapp.StatementStore   = (*MemoryObjectStorage)(nil)
)

// MemoryObject is an object held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory.
// It backs development setups without S3 and tests. Presigned URLs point at BaseURL
// and are not served by anything.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty MemoryObjectStorage
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/propledger"
	}
	return &MemoryObjectStorage{
		BaseURL: baseURL,
		objects: make(map[string]MemoryObject),
	}
}

// GenerateUploadURL returns a fake presigned upload URL
func (s *MemoryObjectStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errStorageKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}, "content-type": {contentType}}
	return fmt.Sprintf("%s/%s?%s", s.BaseURL, storageKey, q.Encode()), expiresAt, nil
}

// GenerateDownloadURL returns a fake presigned download URL
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errStorageKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return fmt.Sprintf("%s/%s?%s", s.BaseURL, storageKey, q.Encode()), expiresAt, nil
}

// DeleteObject removes an object; deleting a missing key succeeds
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errStorageKeyRequired
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether an object was uploaded under storageKey
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errStorageKeyRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Upload stores a copy of data
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errStorageKeyRequired
	}
	s.mu.Lock()
	s.objects[storageKey] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	s.mu.Unlock()
	return nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(storageKey string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}
