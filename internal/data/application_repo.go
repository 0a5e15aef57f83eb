package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/data/pgxutil"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// ErrApplicationNotFound is returned when a membership application is not found.
var ErrApplicationNotFound = errors.New("membership application not found")

const (
	applicationColumns = `id, account_id, motivation, skills, status, created_at, decided_at`

	applicationGetByIDQuery = `
		SELECT ` + applicationColumns + `
		FROM membership_applications
		WHERE id = $1`

	applicationPendingByAccountQuery = `
		SELECT ` + applicationColumns + `
		FROM membership_applications
		WHERE account_id = $1 AND status = 'pending'`

	applicationListByStatusQuery = `
		SELECT ` + applicationColumns + `
		FROM membership_applications
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
)

// ApplicationRepo provides database operations for membership applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider (useful for tests).
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new pending application. The partial unique index on
// (account_id) WHERE status = 'pending' enforces one open application per
// account; a violation surfaces as a Conflict.
func (r *ApplicationRepo) Create(ctx context.Context, accountID string, req *model.SubmitApplicationRequest) (*model.MembershipApplication, error) {
	if req == nil {
		return nil, errors.New("submit application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.MembershipApplication
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO membership_applications (
				id, account_id, motivation, skills, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+applicationColumns,
			uuid.New().String(),
			accountID,
			req.Motivation,
			req.Skills,
			model.ApplicationStatusPending,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MembershipApplication])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.MembershipApplication, error) {
	return r.getOne(ctx, applicationGetByIDQuery, id)
}

// GetPendingByAccount returns the account's open application, if any.
func (r *ApplicationRepo) GetPendingByAccount(ctx context.Context, accountID string) (*model.MembershipApplication, error) {
	return r.getOne(ctx, applicationPendingByAccountQuery, accountID)
}

func (r *ApplicationRepo) getOne(ctx context.Context, query, arg string) (*model.MembershipApplication, error) {
	var out model.MembershipApplication
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, query, arg)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MembershipApplication])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByStatus returns applications in a given status, oldest first.
func (r *ApplicationRepo) ListByStatus(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.MembershipApplication, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "unknown status")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var out []*model.MembershipApplication
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, applicationListByStatusQuery, status, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.MembershipApplication])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Decide moves a pending application to accepted or rejected and stamps
// decided_at. Returns false when the application is not pending anymore.
func (r *ApplicationRepo) Decide(ctx context.Context, id string, decision model.ApplicationStatus) (bool, error) {
	if decision != model.ApplicationStatusAccepted && decision != model.ApplicationStatusRejected {
		return false, apperrors.ValidationField("status", "decision must be accepted or rejected")
	}

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE membership_applications
			SET status = $2, decided_at = $3
			WHERE id = $1 AND status = 'pending'`,
			id, decision, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
