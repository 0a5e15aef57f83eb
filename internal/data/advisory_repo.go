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

// ErrAdvisoryNotFound is returned when an advisory session is not found.
var ErrAdvisoryNotFound = errors.New("advisory session not found")

const (
	advisoryColumns = `id, account_id, topic, details, scheduled_at, status, created_at, updated_at`

	advisoryGetByIDQuery = `
		SELECT ` + advisoryColumns + `
		FROM advisory_sessions
		WHERE id = $1`

	advisoryListByAccountQuery = `
		SELECT ` + advisoryColumns + `
		FROM advisory_sessions
		WHERE account_id = $1
		ORDER BY scheduled_at DESC`

	advisoryListByStatusQuery = `
		SELECT ` + advisoryColumns + `
		FROM advisory_sessions
		WHERE status = $1
		ORDER BY scheduled_at ASC
		LIMIT $2 OFFSET $3`
)

// AdvisoryRepo provides database operations for advisory-session bookings.
type AdvisoryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAdvisoryRepo creates a new AdvisoryRepo with real time provider.
func NewAdvisoryRepo(db *sql.DB) *AdvisoryRepo {
	return &AdvisoryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAdvisoryRepoWithTimeProvider creates a new AdvisoryRepo with a custom time provider (useful for tests).
func NewAdvisoryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AdvisoryRepo {
	return &AdvisoryRepo{DB: db, timeProvider: tp}
}

// Create inserts a new booking in pending status.
func (r *AdvisoryRepo) Create(ctx context.Context, accountID string, req *model.BookAdvisoryRequest) (*model.AdvisorySession, error) {
	if req == nil {
		return nil, errors.New("book advisory request is required")
	}
	now := r.timeProvider.Now().UTC()
	if err := req.Validate(now); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.AdvisorySession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO advisory_sessions (
				id, account_id, topic, details, scheduled_at, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+advisoryColumns,
			uuid.New().String(),
			accountID,
			req.Topic,
			req.Details,
			req.ScheduledAt.UTC(),
			model.AdvisoryStatusPending,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdvisorySession])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a booking by ID.
func (r *AdvisoryRepo) GetByID(ctx context.Context, id string) (*model.AdvisorySession, error) {
	var out model.AdvisorySession
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, advisoryGetByIDQuery, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdvisorySession])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdvisoryNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByAccount returns an account's bookings, newest slot first.
func (r *AdvisoryRepo) ListByAccount(ctx context.Context, accountID string) ([]*model.AdvisorySession, error) {
	var out []*model.AdvisorySession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, advisoryListByAccountQuery, accountID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.AdvisorySession])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// ListByStatus returns bookings in a given status, earliest slot first.
func (r *AdvisoryRepo) ListByStatus(ctx context.Context, status model.AdvisoryStatus, limit, offset int) ([]*model.AdvisorySession, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "unknown status")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var out []*model.AdvisorySession
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, advisoryListByStatusQuery, status, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.AdvisorySession])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// SetStatus moves a booking to a new status. The transition itself is
// validated in the service layer; the guard here only prevents racing a
// concurrent decision on the same row.
func (r *AdvisoryRepo) SetStatus(ctx context.Context, id string, from, to model.AdvisoryStatus) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`UPDATE advisory_sessions SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
			id, from, to, r.timeProvider.Now().UTC())
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
