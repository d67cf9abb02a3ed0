package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/internal/payload"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/go-sql-driver/mysql"
)

const mysqlErrNoReferencedRow = 1452

func (r *repository) InsertSubmission(ctx context.Context, createdBy string, data []byte) (int64, error) {
	query := `INSERT INTO submissions (created_by, status, submitted_data, created_date)
			  VALUES (?, ?, ?, UTC_TIMESTAMP())`

	result, err := r.db.ExecContext(ctx, query, createdBy, model.StatusSubmitted, data)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrNoReferencedRow {
			return 0, fmt.Errorf("%w: badge %s", pkgerrors.ErrUnknownUser, createdBy)
		}
		return 0, err
	}
	return result.LastInsertId()
}

func (r *repository) ListSubmissions(ctx context.Context, filter model.SubmissionFilter, skip, take int) ([]model.SubmissionSummary, error) {
	query := `SELECT id, created_by, status, submitted_data, created_date, last_updated_date
			  FROM submissions WHERE 1=1`
	var args []interface{}

	if filter.CreatedBy != "" {
		query += ` AND created_by = ?`
		args = append(args, filter.CreatedBy)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.FromUTC != nil {
		query += ` AND created_date >= ?`
		args = append(args, filter.FromUTC)
	}
	if filter.ToUTC != nil {
		query += ` AND created_date < ?`
		args = append(args, filter.ToUTC)
	}

	query += ` ORDER BY created_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, take, skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func (r *repository) ListSubmissionsForYear(ctx context.Context, year int) ([]model.SubmissionSummary, error) {
	query := `SELECT id, created_by, status, submitted_data, created_date, last_updated_date
			  FROM submissions WHERE YEAR(created_date) = ?
			  ORDER BY created_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]model.SubmissionSummary, error) {
	var summaries []model.SubmissionSummary
	for rows.Next() {
		var s model.SubmissionSummary
		var data []byte
		if err := rows.Scan(&s.ID, &s.CreatedBy, &s.Status, &data, &s.CreatedDate, &s.LastUpdatedDate); err != nil {
			return nil, err
		}
		if doc, err := payload.Parse(data); err == nil {
			s.IncidentType = doc.IncidentType()
			s.Location = doc.IncidentLocation()
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *repository) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT id, created_by, status, submitted_data, created_date, last_updated_by, last_updated_date
			  FROM submissions WHERE id = ?`

	var sub model.Submission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.CreatedBy, &sub.Status, &sub.SubmittedData,
		&sub.CreatedDate, &sub.LastUpdatedBy, &sub.LastUpdatedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) UpdateSubmissionStatus(ctx context.Context, id int64, status model.Status, actorBadge string) (int64, error) {
	query := `UPDATE submissions
			  SET status = ?, last_updated_by = ?, last_updated_date = UTC_TIMESTAMP()
			  WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, actorBadge, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) UpdateSubmissionPayload(ctx context.Context, id int64, data []byte) (int64, error) {
	query := `UPDATE submissions SET submitted_data = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, data, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) DashboardOverview(ctx context.Context, year int) (*model.DashboardOverview, error) {
	overview := &model.DashboardOverview{
		Year:    year,
		Monthly: make([]model.MonthlyCount, 12),
	}
	for i := range overview.Monthly {
		overview.Monthly[i].Month = i + 1
	}

	newQuery := `SELECT MONTH(created_date), COUNT(*)
				 FROM submissions WHERE YEAR(created_date) = ?
				 GROUP BY MONTH(created_date)`

	rows, err := r.db.QueryContext(ctx, newQuery, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		overview.Monthly[month-1].New = count
		overview.TotalNew += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	completedQuery := `SELECT MONTH(last_updated_date), COUNT(*)
					   FROM submissions
					   WHERE status = ? AND last_updated_date IS NOT NULL AND YEAR(last_updated_date) = ?
					   GROUP BY MONTH(last_updated_date)`

	completedRows, err := r.db.QueryContext(ctx, completedQuery, model.StatusCompleted, year)
	if err != nil {
		return nil, err
	}
	defer completedRows.Close()
	for completedRows.Next() {
		var month, count int
		if err := completedRows.Scan(&month, &count); err != nil {
			return nil, err
		}
		overview.Monthly[month-1].Completed = count
		overview.TotalCompleted += count
	}
	return overview, completedRows.Err()
}
