package mail

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/payload"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"

	"github.com/rs/zerolog"
)

const footer = "This message was automatically generated. Please do not reply."

// Composer turns one lifecycle event into the outbound messages it owes:
// always a submitter-facing message, plus a staff-facing one for new
// submissions when staff recipients are configured.
type Composer struct {
	cfg    *config.Config
	signer *storage.Signer
	store  storage.BlobStore
	log    zerolog.Logger
}

func NewComposer(cfg *config.Config, signer *storage.Signer, store storage.BlobStore) *Composer {
	return &Composer{
		cfg:    cfg,
		signer: signer,
		store:  store,
		log:    logger.Get(),
	}
}

func (c *Composer) Compose(ctx context.Context, event model.NotificationEvent, sub *model.Submission, submitter *model.User, note string) ([]Message, error) {
	doc, err := payload.Parse(sub.SubmittedData)
	if err != nil {
		return nil, fmt.Errorf("submission %d payload: %w", sub.ID, err)
	}

	links, attached := c.prepareAttachments(ctx, sub.ID, doc.Attachments())
	note = Truncate(note, c.cfg.Notifications.MaxNoteChars)

	var messages []Message

	if submitter != nil && submitter.Email != nil && *submitter.Email != "" {
		messages = append(messages, Message{
			To:          []string{*submitter.Email},
			Subject:     c.subject(event, sub.ID),
			Body:        c.body(event, sub, doc, submitter.Greeting(), note, links, false),
			Attachments: attached,
		})
	} else {
		c.log.Warn().Int64("submission_id", sub.ID).Msg("Submitter has no email address, skipping submitter notification")
	}

	if event == model.EventCreated && len(c.cfg.Notifications.StaffRecipients) > 0 {
		messages = append(messages, Message{
			To:          c.cfg.Notifications.StaffRecipients,
			Subject:     c.subject(event, sub.ID),
			Body:        c.body(event, sub, doc, "Records Team", note, links, true),
			Attachments: attached,
		})
	}

	return messages, nil
}

type attachmentLink struct {
	FileName string
	URL      string
	Attached bool
}

// prepareAttachments downloads every file that fits inside the per-file and
// aggregate caps and builds a signed read link for all of them, so a file that
// could not be attached still reaches the recipient as a link.
func (c *Composer) prepareAttachments(ctx context.Context, submissionID int64, metas []model.AttachmentMeta) ([]attachmentLink, []FileAttachment) {
	var links []attachmentLink
	var attached []FileAttachment
	var totalBytes int64

	for _, meta := range metas {
		link := attachmentLink{FileName: meta.FileName}
		url, err := c.signer.CreateReadURL(meta.Container, meta.BlobName, 0)
		if err != nil {
			c.log.Error().Err(err).Int64("submission_id", submissionID).
				Str("blob", meta.BlobName).Msg("Failed to sign read URL")
		} else {
			link.URL = url
		}

		if meta.Length > c.cfg.Notifications.MaxAttachBytes ||
			totalBytes+meta.Length > c.cfg.Notifications.MaxMessageBytes {
			links = append(links, link)
			continue
		}

		data, err := c.download(ctx, meta)
		if err != nil {
			c.log.Error().Err(err).Int64("submission_id", submissionID).
				Str("blob", meta.BlobName).Msg("Failed to download attachment, degrading to link")
			links = append(links, link)
			continue
		}

		// The recorded length is client-supplied; the blob is the truth.
		actual := int64(len(data))
		if actual > c.cfg.Notifications.MaxAttachBytes ||
			totalBytes+actual > c.cfg.Notifications.MaxMessageBytes {
			links = append(links, link)
			continue
		}

		attached = append(attached, FileAttachment{
			FileName:    meta.FileName,
			ContentType: meta.ContentType,
			Data:        data,
		})
		totalBytes += int64(len(data))
		link.Attached = true
		links = append(links, link)
	}

	return links, attached
}

func (c *Composer) download(ctx context.Context, meta model.AttachmentMeta) ([]byte, error) {
	reader, err := c.store.Download(ctx, meta.Container, meta.BlobName)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (c *Composer) subject(event model.NotificationEvent, id int64) string {
	return fmt.Sprintf("%sPolice Report Request #%d - %s", c.cfg.Notifications.SubjectPrefix, id, eventTitle(event))
}

func eventTitle(event model.NotificationEvent) string {
	switch event {
	case model.EventCreated:
		return "Received"
	case model.EventInProgress:
		return "In Progress"
	case model.EventCompleted:
		return "Completed"
	case model.EventClosed:
		return "Closed"
	default:
		return "Update"
	}
}

func narrative(event model.NotificationEvent, id int64, staff bool) string {
	if staff {
		return fmt.Sprintf("A new police report request (#%d) has been submitted and is awaiting triage.", id)
	}
	switch event {
	case model.EventCreated:
		return fmt.Sprintf("Your police report request has been received and assigned number %d. You will be notified as it is processed.", id)
	case model.EventInProgress:
		return fmt.Sprintf("Your police report request #%d is now being processed.", id)
	case model.EventCompleted:
		return fmt.Sprintf("Your police report request #%d has been completed. Any requested documents are attached or linked below.", id)
	case model.EventClosed:
		return fmt.Sprintf("Your police report request #%d has been closed.", id)
	default:
		return fmt.Sprintf("Your police report request #%d has been updated.", id)
	}
}

func (c *Composer) body(event model.NotificationEvent, sub *model.Submission, doc *payload.Document, greeting, note string, links []attachmentLink, staff bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", greeting)
	b.WriteString(narrative(event, sub.ID, staff))
	b.WriteString("\n")

	if note != "" {
		b.WriteString("\nNote from the reviewing administrator:\n")
		b.WriteString(note)
		b.WriteString("\n")
	}

	if details := doc.IncidentDetails(); len(details) > 0 {
		b.WriteString("\nReport details:\n")
		for _, line := range details {
			fmt.Fprintf(&b, "  %s: %s\n", line.Label, line.Value)
		}
	}

	if len(links) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, link := range links {
			if link.URL != "" {
				fmt.Fprintf(&b, "  - %s (download: %s)\n", link.FileName, link.URL)
			} else {
				fmt.Fprintf(&b, "  - %s\n", link.FileName)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(footer)
	b.WriteString("\n")
	return b.String()
}

// Truncate cuts a note at limit runes. The cut is silent per the intake
// policy: admin notes are advisory, not records.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
