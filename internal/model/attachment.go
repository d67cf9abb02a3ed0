package model

import "time"

const (
	AttachmentRoleUser = "user"
	AttachmentRoleOps  = "ops"
)

// AttachmentMeta is one entry of the attachments array embedded in a
// submission's JSON payload. It doubles as the transient view the mail
// composer uses to decide between physical attachment and link-only delivery.
type AttachmentMeta struct {
	Container   string    `json:"container"`
	BlobName    string    `json:"blobName"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Length      int64     `json:"length"`
	Role        string    `json:"role,omitempty"`
	UploadedUTC time.Time `json:"uploadedUtc"`
}
