package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/db"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/mail"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/queue"

	"github.com/rs/zerolog"
)

// NotificationWorker drains the outbound notification queue, composes the
// emails a lifecycle event owes, and sends them. Send failures are logged and
// the message lands in the DLQ; the submission write that triggered the event
// is never affected.
type NotificationWorker struct {
	cfg        *config.Config
	repo       db.Repository
	composer   *mail.Composer
	sender     mail.Sender
	consumer   *queue.Consumer
	pool       *Pool
	deadLetter func(ctx context.Context, data []byte) error
	log        zerolog.Logger
}

func NewNotificationWorker(
	cfg *config.Config,
	repo db.Repository,
	composer *mail.Composer,
	sender mail.Sender,
	redisClient *queue.RedisClient,
) *NotificationWorker {
	consumer := queue.NewConsumer(redisClient, cfg)
	return &NotificationWorker{
		cfg:        cfg,
		repo:       repo,
		composer:   composer,
		sender:     sender,
		consumer:   consumer,
		pool:       NewPool(cfg.Workers.Notification.Count),
		deadLetter: consumer.DeadLetterNotification,
		log:        logger.Get(),
	}
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting notification worker")
	w.pool.Start(ctx)
	return w.consumer.ConsumeNotificationQueue(ctx, w.handleMessage)
}

func (w *NotificationWorker) Stop() {
	w.log.Info().Msg("Stopping notification worker")
	w.pool.Stop()
}

func (w *NotificationWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.NotificationJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal notification job")
		return err
	}

	w.log.Info().Int64("submission_id", job.SubmissionID).
		Str("event", string(job.Event)).Msg("Processing notification job")

	// The handler returns before the send happens, so the pool job owns
	// dead-lettering: a compose/send failure parks the original message.
	w.pool.Submit(func(ctx context.Context) error {
		if err := w.process(ctx, job); err != nil {
			w.log.Error().Err(err).Int64("submission_id", job.SubmissionID).
				Str("event", string(job.Event)).Msg("Notification failed, dead-lettering message")
			if dlqErr := w.deadLetter(ctx, data); dlqErr != nil {
				w.log.Error().Err(dlqErr).Int64("submission_id", job.SubmissionID).
					Msg("Failed to dead-letter notification message")
			}
			return err
		}
		return nil
	})
	return nil
}

func (w *NotificationWorker) process(ctx context.Context, job model.NotificationJob) error {
	log := w.log.With().Int64("submission_id", job.SubmissionID).Str("event", string(job.Event)).Logger()

	sub, err := w.repo.GetSubmission(ctx, job.SubmissionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load submission")
		return err
	}
	if sub == nil {
		log.Warn().Msg("Submission no longer exists, dropping notification")
		return nil
	}

	submitter, err := w.repo.GetUserByBadge(ctx, sub.CreatedBy)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load submitter")
		return err
	}

	messages, err := w.composer.Compose(ctx, job.Event, sub, submitter, job.Note)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compose notification")
		return err
	}
	if len(messages) == 0 {
		log.Warn().Msg("Nothing to send for notification job")
		return nil
	}

	var failed int
	for _, msg := range messages {
		if err := w.sender.Send(ctx, msg); err != nil {
			log.Error().Err(err).Strs("to", msg.To).Msg("Failed to send notification email")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d notification emails failed for submission %d", failed, len(messages), job.SubmissionID)
	}

	log.Info().Int("messages", len(messages)).Msg("Notification sent")
	return nil
}
