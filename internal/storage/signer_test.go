package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"
)

type fakeBlobStore struct {
	uploads map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, container, key, contentType string, data io.Reader) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.uploads[container+"/"+key] = b
	return nil
}

func (f *fakeBlobStore) Download(ctx context.Context, container, key string) (io.ReadCloser, error) {
	b, ok := f.uploads[container+"/"+key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}

func (f *fakeBlobStore) PresignUpload(container, key, contentType string, lifetime time.Duration) (string, error) {
	return fmt.Sprintf("https://blobs.test/%s/%s?op=put&ttl=%s", container, key, lifetime), nil
}

func (f *fakeBlobStore) PresignRead(container, key string, lifetime time.Duration) (string, error) {
	return fmt.Sprintf("https://blobs.test/%s/%s?op=get&ttl=%s", container, key, lifetime), nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Uploads.MaxFileBytes = 1 << 20
	cfg.Uploads.AllowedContentTypes = []string{"application/pdf", "image/jpeg"}
	cfg.Uploads.UploadURLLifetime = 15 * time.Minute
	cfg.Uploads.ReadURLLifetimeDays = 7
	return cfg
}

func TestCreateUploadURLValidation(t *testing.T) {
	signer := NewSigner(newFakeBlobStore(), "report-attachments", testConfig())

	cases := []struct {
		name        string
		purpose     string
		contentType string
		size        int64
		submission  int64
		wantErr     error
	}{
		{"zero size", PurposeUser, "application/pdf", 0, 0, nil},
		{"negative size", PurposeUser, "application/pdf", -5, 0, nil},
		{"too large", PurposeUser, "application/pdf", 2 << 20, 0, pkgerrors.ErrFileTooLarge},
		{"blocked type", PurposeUser, "application/x-msdownload", 100, 0, pkgerrors.ErrFileTypeBlocked},
		{"ops without submission", PurposeOps, "application/pdf", 100, 0, nil},
		{"unknown purpose", "archive", "application/pdf", 100, 0, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := signer.CreateUploadURL(tc.purpose, "report.pdf", tc.contentType, tc.size, tc.submission)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateUploadURLNamespacesKeys(t *testing.T) {
	signer := NewSigner(newFakeBlobStore(), "report-attachments", testConfig())

	userTicket, err := signer.CreateUploadURL(PurposeUser, "my photo.jpg", "image/jpeg", 100, 0)
	if err != nil {
		t.Fatalf("user upload: %v", err)
	}
	if !strings.HasPrefix(userTicket.BlobKey, "user/") {
		t.Errorf("user blob key = %q, want user/ prefix", userTicket.BlobKey)
	}
	if strings.Contains(userTicket.BlobKey, " ") {
		t.Errorf("blob key %q contains spaces", userTicket.BlobKey)
	}
	if !strings.HasSuffix(userTicket.BlobKey, "my_photo.jpg") {
		t.Errorf("blob key = %q, want sanitized file name suffix", userTicket.BlobKey)
	}
	if userTicket.Container != "report-attachments" {
		t.Errorf("container = %q", userTicket.Container)
	}

	opsTicket, err := signer.CreateUploadURL(PurposeOps, "report.pdf", "application/pdf", 100, 42)
	if err != nil {
		t.Fatalf("ops upload: %v", err)
	}
	if !strings.HasPrefix(opsTicket.BlobKey, "ops/42/") {
		t.Errorf("ops blob key = %q, want ops/42/ prefix", opsTicket.BlobKey)
	}
}

func TestCreateReadURLDefaultLifetime(t *testing.T) {
	cfg := testConfig()
	signer := NewSigner(newFakeBlobStore(), "report-attachments", cfg)

	url, err := signer.CreateReadURL("report-attachments", "user/abc-report.pdf", 0)
	if err != nil {
		t.Fatalf("CreateReadURL: %v", err)
	}
	if !strings.Contains(url, "ttl=168h") {
		t.Errorf("url = %q, want configured 7-day lifetime applied", url)
	}

	url, err = signer.CreateReadURL("report-attachments", "user/abc-report.pdf", time.Hour)
	if err != nil {
		t.Fatalf("CreateReadURL: %v", err)
	}
	if !strings.Contains(url, "ttl=1h") {
		t.Errorf("url = %q, want explicit lifetime honored", url)
	}
}

func TestContentTypeAllowListEmptyAllowsAll(t *testing.T) {
	cfg := testConfig()
	cfg.Uploads.AllowedContentTypes = nil
	signer := NewSigner(newFakeBlobStore(), "report-attachments", cfg)

	if !signer.ContentTypeAllowed("application/x-anything") {
		t.Error("empty allow-list should permit any content type")
	}
}
