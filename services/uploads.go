package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"caseport/core"
	"caseport/pkg/crypto"
)

// UploadInput describes one inbound file upload.
type UploadInput struct {
	OwnerUserID string
	CompanyID   string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadService validates uploads locally, writes the blob, then writes
// the metadata record - strictly in that order, so a record never
// references a blob that was not stored.
type UploadService struct {
	blobs   core.BlobStore
	records core.RecordStore
	config  core.UploadConfig
	nanoid  *crypto.NanoIDGenerator
	now     func() time.Time
}

func NewUploadService(blobs core.BlobStore, records core.RecordStore, config core.UploadConfig) (*UploadService, error) {
	if config.MaxSize == 0 {
		config = core.DefaultUploadConfig()
	}
	nanoid, err := crypto.NewNanoID()
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return &UploadService{
		blobs:   blobs,
		records: records,
		config:  config,
		nanoid:  nanoid,
		now:     time.Now,
	}, nil
}

// Upload stores a file and its metadata record.
//
// Validation errors (missing file, oversized file, disallowed type) are
// resolved locally before any provider call. On a blob-store failure no
// record is written; on a record-store failure the already-written blob
// is left in place for manual cleanup and ErrStorageFailure is returned.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*core.UploadRecord, error) {
	if input.Content == nil || input.FileName == "" || input.Size <= 0 {
		return nil, core.ErrUploadMissingFile
	}
	if input.Size > s.config.MaxSize {
		return nil, core.ErrUploadTooLarge
	}
	if !s.config.Allows(input.ContentType) {
		return nil, core.ErrUploadBadType
	}

	now := s.now()

	// Millisecond timestamp plus the original extension. Unique without
	// coordination, though two uploads to the same company in the same
	// millisecond would collide - a known gap carried over from the
	// reference naming scheme.
	storedName := fmt.Sprintf("%d%s", now.UnixMilli(), filepath.Ext(input.FileName))
	key := input.CompanyID + "/" + storedName

	if err := s.blobs.PutBlob(ctx, key, input.ContentType, input.Content); err != nil {
		return nil, fmt.Errorf("%w: blob write: %v", core.ErrStorageFailure, err)
	}

	id, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record ID: %w", err)
	}

	rec := &core.UploadRecord{
		ID:               id,
		OwnerUserID:      input.OwnerUserID,
		CompanyID:        input.CompanyID,
		OriginalFileName: input.FileName,
		StoredFileName:   storedName,
		UploadedAt:       now,
	}

	if err := s.records.CreateUploadRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: record write: %v", core.ErrStorageFailure, err)
	}

	return rec, nil
}
