package db

import (
	"context"
	"database/sql"

	"github.com/chaudhryu/police-report-request-backend/internal/model"
)

type Repository interface {
	InsertSubmission(ctx context.Context, createdBy string, payload []byte) (int64, error)
	ListSubmissions(ctx context.Context, filter model.SubmissionFilter, skip, take int) ([]model.SubmissionSummary, error)
	GetSubmission(ctx context.Context, id int64) (*model.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status model.Status, actorBadge string) (int64, error)
	UpdateSubmissionPayload(ctx context.Context, id int64, payload []byte) (int64, error)
	DashboardOverview(ctx context.Context, year int) (*model.DashboardOverview, error)
	ListSubmissionsForYear(ctx context.Context, year int) ([]model.SubmissionSummary, error)

	GetUserByBadge(ctx context.Context, badge string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertUser(ctx context.Context, profile model.UserProfile, actorBadge string) error
	SetAdmin(ctx context.Context, badge string, isAdmin bool, actorBadge string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}
