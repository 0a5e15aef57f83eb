package data

// Package data contains pgx-backed repositories for the teamdesk portal.
// Repositories go through the stdlib bridge in pgxutil so the shared *sql.DB
// pool can be used everywhere.

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/data/pgxutil"
	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// ErrAccountNotFound is returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

const accountColumns = `id, identity_key, email, display_name, role, password_hash, must_change_password, created_at, updated_at`

// AccountRepo provides database operations for portal accounts. It also
// implements ports.RecordStore: the accounts table doubles as the persisted
// per-identity role record keyed by identity_key.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with real time provider.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates a new AccountRepo with a custom time provider (useful for tests).
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

// Create inserts a new account. The identity key of a password account is
// its own ID.
func (r *AccountRepo) Create(ctx context.Context, req *model.CreateAccountRequest, passwordHash string) (*model.Account, error) {
	if req == nil {
		return nil, errors.New("create account request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	role := req.Role
	if role == "" {
		role = string(domainauth.RoleUser)
	}

	id := uuid.New().String()
	now := r.timeProvider.Now().UTC()

	var out model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (
				id, identity_key, email, display_name, role, password_hash, must_change_password, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+accountColumns,
			id,
			id, // password accounts are keyed by their own ID
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.DisplayName,
			role,
			passwordHash,
			req.MustChangePassword,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getBy(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByIdentityKey retrieves an account by its identity key.
func (r *AccountRepo) GetByIdentityKey(ctx context.Context, key string) (*model.Account, error) {
	return r.getBy(ctx, `SELECT `+accountColumns+` FROM accounts WHERE identity_key = $1`, key)
}

// GetByEmail retrieves an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getBy(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *AccountRepo) getBy(ctx context.Context, query, arg string) (*model.Account, error) {
	var out model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, query, arg)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List returns accounts ordered by creation time.
func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*model.Account, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var out []*model.Account
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Account])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// SetRole updates an account's role. The stored value is always the bare
// canonical spelling regardless of the input form.
func (r *AccountRepo) SetRole(ctx context.Context, id, role string) (bool, error) {
	canonical, ok := domainauth.ParseRole(role)
	if !ok {
		return false, apperrors.ValidationField("role", "unknown role")
	}
	return r.exec(ctx,
		`UPDATE accounts SET role = $2, updated_at = $3 WHERE id = $1`,
		id, string(canonical), r.timeProvider.Now().UTC())
}

// UpdatePassword replaces the stored hash and clears must_change_password.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error) {
	return r.exec(ctx,
		`UPDATE accounts SET password_hash = $2, must_change_password = FALSE, updated_at = $3 WHERE id = $1`,
		id, passwordHash, r.timeProvider.Now().UTC())
}

func (r *AccountRepo) exec(ctx context.Context, query string, args ...any) (bool, error) {
	var affected int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	}); err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}

// GetRecord implements ports.RecordStore over the accounts table.
func (r *AccountRepo) GetRecord(ctx context.Context, identityKey string) (ports.RoleRecord, error) {
	acct, err := r.GetByIdentityKey(ctx, identityKey)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ports.RoleRecord{}, ports.ErrRecordNotFound
		}
		return ports.RoleRecord{}, err
	}
	return ports.RoleRecord{
		Role:        acct.Role,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
	}, nil
}

// CreateRecord implements ports.RecordStore: provisions an account row for a
// federated identity seen for the first time. Such rows carry no password.
func (r *AccountRepo) CreateRecord(ctx context.Context, identityKey string, rec ports.RoleRecord) error {
	role := rec.Role
	if role == "" {
		role = string(domainauth.RoleUser)
	}
	now := r.timeProvider.Now().UTC()

	return apperrors.MapDBError(pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		// ON CONFLICT keeps provisioning idempotent under concurrent first
		// sight of the same identity.
		_, err := conn.Exec(ctx, `
			INSERT INTO accounts (id, identity_key, email, display_name, role, password_hash, must_change_password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, '', FALSE, $6, $6)
			ON CONFLICT (identity_key) DO NOTHING`,
			uuid.New().String(), identityKey, rec.Email, rec.DisplayName, role, now)
		return err
	}))
}
