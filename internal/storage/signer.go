package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/google/uuid"
)

const (
	PurposeUser = "user"
	PurposeOps  = "ops"
)

// Signer issues time-boxed upload and read URLs, enforcing the size and
// content-type limits from config. Key layout: user uploads under
// user/<uuid>-<name>, staff uploads under ops/<submission id>/<uuid>-<name>
// so one submission's staff files are trivially enumerable.
type Signer struct {
	store     BlobStore
	container string
	cfg       *config.Config
}

func NewSigner(store BlobStore, container string, cfg *config.Config) *Signer {
	return &Signer{store: store, container: container, cfg: cfg}
}

type UploadTicket struct {
	URL       string `json:"url"`
	Container string `json:"container"`
	BlobKey   string `json:"blob_key"`
}

func (s *Signer) CreateUploadURL(purpose, fileName, contentType string, fileSize, submissionID int64) (*UploadTicket, error) {
	if fileSize <= 0 {
		return nil, pkgerrors.ValidationError{Field: "file_size", Value: fileSize, Message: "must be positive"}
	}
	if fileSize > s.cfg.Uploads.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", pkgerrors.ErrFileTooLarge, fileSize, s.cfg.Uploads.MaxFileBytes)
	}
	if !s.ContentTypeAllowed(contentType) {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrFileTypeBlocked, contentType)
	}

	key, err := BlobKey(purpose, fileName, submissionID)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignUpload(s.container, key, contentType, s.cfg.Uploads.UploadURLLifetime)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{URL: url, Container: s.container, BlobKey: key}, nil
}

func (s *Signer) CreateReadURL(container, blobKey string, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		lifetime = s.cfg.ReadURLLifetime()
	}
	return s.store.PresignRead(container, blobKey, lifetime)
}

func (s *Signer) ContentTypeAllowed(contentType string) bool {
	if len(s.cfg.Uploads.AllowedContentTypes) == 0 {
		return true
	}
	for _, allowed := range s.cfg.Uploads.AllowedContentTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

func (s *Signer) Container() string {
	return s.container
}

// BlobKey namespaces blob keys by purpose. Ops uploads require a submission id
// so staff files cannot collide across submissions.
func BlobKey(purpose, fileName string, submissionID int64) (string, error) {
	name := sanitizeFileName(fileName)
	switch purpose {
	case PurposeUser:
		return fmt.Sprintf("user/%s-%s", uuid.NewString(), name), nil
	case PurposeOps:
		if submissionID <= 0 {
			return "", pkgerrors.ValidationError{Field: "submission_id", Value: submissionID, Message: "required for ops uploads"}
		}
		return fmt.Sprintf("ops/%d/%s-%s", submissionID, uuid.NewString(), name), nil
	default:
		return "", pkgerrors.ValidationError{Field: "purpose", Value: purpose, Message: "must be user or ops"}
	}
}

func sanitizeFileName(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return name
}
