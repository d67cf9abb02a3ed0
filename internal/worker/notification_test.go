package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/mail"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"
)

type fakeRepo struct {
	subs  map[int64]*model.Submission
	users map[string]*model.User
}

func (f *fakeRepo) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	return f.subs[id], nil
}

func (f *fakeRepo) GetUserByBadge(ctx context.Context, badge string) (*model.User, error) {
	return f.users[badge], nil
}

func (f *fakeRepo) InsertSubmission(ctx context.Context, createdBy string, payload []byte) (int64, error) {
	panic("not used")
}
func (f *fakeRepo) ListSubmissions(ctx context.Context, filter model.SubmissionFilter, skip, take int) ([]model.SubmissionSummary, error) {
	panic("not used")
}
func (f *fakeRepo) UpdateSubmissionStatus(ctx context.Context, id int64, status model.Status, actorBadge string) (int64, error) {
	panic("not used")
}
func (f *fakeRepo) UpdateSubmissionPayload(ctx context.Context, id int64, payload []byte) (int64, error) {
	panic("not used")
}
func (f *fakeRepo) DashboardOverview(ctx context.Context, year int) (*model.DashboardOverview, error) {
	panic("not used")
}
func (f *fakeRepo) ListSubmissionsForYear(ctx context.Context, year int) ([]model.SubmissionSummary, error) {
	panic("not used")
}
func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used")
}
func (f *fakeRepo) UpsertUser(ctx context.Context, profile model.UserProfile, actorBadge string) error {
	panic("not used")
}
func (f *fakeRepo) SetAdmin(ctx context.Context, badge string, isAdmin bool, actorBadge string) error {
	panic("not used")
}

type fakeSender struct {
	sent []mail.Message
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeBlobStore struct{}

func (fakeBlobStore) Upload(ctx context.Context, container, key, contentType string, data io.Reader) error {
	return nil
}
func (fakeBlobStore) Download(ctx context.Context, container, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("data")), nil
}
func (fakeBlobStore) PresignUpload(container, key, contentType string, lifetime time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}
func (fakeBlobStore) PresignRead(container, key string, lifetime time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

func newTestWorker(repo *fakeRepo, sender *fakeSender) *NotificationWorker {
	cfg := &config.Config{}
	cfg.Notifications.SubjectPrefix = "[TEST] "
	cfg.Uploads.ReadURLLifetimeDays = 7
	cfg.Workers.Notification.Count = 1

	store := fakeBlobStore{}
	composer := mail.NewComposer(cfg, storage.NewSigner(store, "report-attachments", cfg), store)
	return &NotificationWorker{
		cfg:        cfg,
		repo:       repo,
		composer:   composer,
		sender:     sender,
		pool:       NewPool(cfg.Workers.Notification.Count),
		deadLetter: func(ctx context.Context, data []byte) error { return nil },
	}
}

func completedSubmission() *model.Submission {
	return &model.Submission{
		ID:            9,
		CreatedBy:     "B100",
		Status:        model.StatusCompleted,
		SubmittedData: []byte(`{"incidentType":"Theft"}`),
		CreatedDate:   time.Now().UTC(),
	}
}

func TestProcessSendsSubmitterEmail(t *testing.T) {
	email := "resident@city.test"
	repo := &fakeRepo{
		subs:  map[int64]*model.Submission{9: completedSubmission()},
		users: map[string]*model.User{"B100": {Badge: "B100", Email: &email}},
	}
	sender := &fakeSender{}
	w := newTestWorker(repo, sender)

	job := model.NotificationJob{SubmissionID: 9, Event: model.EventCompleted}
	if err := w.process(context.Background(), job); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To[0] != email {
		t.Errorf("To = %v", msg.To)
	}
	if !strings.Contains(msg.Subject, "#9") || !strings.Contains(msg.Subject, "Completed") {
		t.Errorf("Subject = %q", msg.Subject)
	}
}

func TestProcessDropsVanishedSubmission(t *testing.T) {
	repo := &fakeRepo{subs: map[int64]*model.Submission{}, users: map[string]*model.User{}}
	sender := &fakeSender{}
	w := newTestWorker(repo, sender)

	job := model.NotificationJob{SubmissionID: 404, Event: model.EventCompleted}
	if err := w.process(context.Background(), job); err != nil {
		t.Fatalf("vanished submission should be dropped, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages, want none", len(sender.sent))
	}
}

func TestProcessReportsSendFailures(t *testing.T) {
	email := "resident@city.test"
	repo := &fakeRepo{
		subs:  map[int64]*model.Submission{9: completedSubmission()},
		users: map[string]*model.User{"B100": {Badge: "B100", Email: &email}},
	}
	w := newTestWorker(repo, &fakeSender{fail: true})

	job := model.NotificationJob{SubmissionID: 9, Event: model.EventCompleted}
	if err := w.process(context.Background(), job); err == nil {
		t.Fatal("send failure must surface so the message reaches the DLQ")
	}
}

func TestHandleMessageDeadLettersFailedSends(t *testing.T) {
	email := "resident@city.test"
	repo := &fakeRepo{
		subs:  map[int64]*model.Submission{9: completedSubmission()},
		users: map[string]*model.User{"B100": {Badge: "B100", Email: &email}},
	}
	w := newTestWorker(repo, &fakeSender{fail: true})

	dlq := make(chan []byte, 1)
	w.deadLetter = func(ctx context.Context, data []byte) error {
		dlq <- data
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.pool.Start(ctx)
	defer w.pool.Stop()

	raw, err := json.Marshal(model.NotificationJob{SubmissionID: 9, Event: model.EventCompleted})
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	if err := w.handleMessage(ctx, raw); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	select {
	case data := <-dlq:
		if !bytes.Equal(data, raw) {
			t.Errorf("dead-lettered %s, want the original message %s", data, raw)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("failed send never reached the dead letter queue")
	}
}

func TestHandleMessageRejectsMalformedJob(t *testing.T) {
	w := newTestWorker(&fakeRepo{}, &fakeSender{})

	if err := w.handleMessage(context.Background(), []byte("not json")); err == nil {
		t.Fatal("malformed job payload must error for DLQ routing")
	}
	if err := w.handleMessage(context.Background(), []byte(`{"submission_id":1,"event":"completed"}`)); err != nil {
		t.Fatalf("well-formed job should be accepted: %v", err)
	}
}
