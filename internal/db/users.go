package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chaudhryu/police-report-request-backend/internal/model"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"
)

const userColumns = `badge, first_name, last_name, display_name, email, position, is_admin, created_date, last_updated_by, last_updated_date`

func (r *repository) GetUserByBadge(ctx context.Context, badge string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE badge = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, badge))
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *repository) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var isAdmin int
	err := row.Scan(
		&u.Badge, &u.FirstName, &u.LastName, &u.DisplayName, &u.Email,
		&u.Position, &isAdmin, &u.CreatedDate, &u.LastUpdatedBy, &u.LastUpdatedDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.IsAdmin = isAdmin != 0
	return &u, nil
}

// UpsertUser writes profile fields from a directory sync. The is_admin column
// is deliberately left out of the update list: role changes only go through
// SetAdmin.
func (r *repository) UpsertUser(ctx context.Context, profile model.UserProfile, actorBadge string) error {
	query := `INSERT INTO users
			  (badge, first_name, last_name, display_name, email, position, is_admin, created_date, last_updated_by, last_updated_date)
			  VALUES (?, ?, ?, ?, ?, ?, 0, UTC_TIMESTAMP(), ?, UTC_TIMESTAMP())
			  ON DUPLICATE KEY UPDATE
			  first_name = VALUES(first_name),
			  last_name = VALUES(last_name),
			  display_name = VALUES(display_name),
			  email = VALUES(email),
			  position = VALUES(position),
			  last_updated_by = VALUES(last_updated_by),
			  last_updated_date = UTC_TIMESTAMP()`

	_, err := r.db.ExecContext(ctx, query,
		profile.Badge, profile.FirstName, profile.LastName, profile.DisplayName,
		profile.Email, profile.Position, actorBadge,
	)
	return err
}

func (r *repository) SetAdmin(ctx context.Context, badge string, isAdmin bool, actorBadge string) error {
	query := `UPDATE users
			  SET is_admin = ?, last_updated_by = ?, last_updated_date = UTC_TIMESTAMP()
			  WHERE badge = ?`

	admin := 0
	if isAdmin {
		admin = 1
	}
	result, err := r.db.ExecContext(ctx, query, admin, actorBadge, badge)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.ErrUserNotFound
	}
	return nil
}
