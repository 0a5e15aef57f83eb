package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/data/pgxutil"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// ErrMemberNotFound is returned when a member is not found.
var ErrMemberNotFound = errors.New("member not found")

const (
	memberColumns = `id, name, title, bio, avatar_url, website_url, github_login, sort_order, created_at, updated_at`

	memberGetByIDQuery = `
		SELECT ` + memberColumns + `
		FROM members
		WHERE id = $1`

	memberListQuery = `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY sort_order ASC, name ASC`
)

// MemberRepo provides database operations for roster members.
type MemberRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMemberRepo creates a new MemberRepo with real time provider.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMemberRepoWithTimeProvider creates a new MemberRepo with a custom time provider (useful for tests).
func NewMemberRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MemberRepo {
	return &MemberRepo{DB: db, timeProvider: tp}
}

// Create inserts a new member.
func (r *MemberRepo) Create(ctx context.Context, req *model.CreateMemberRequest) (*model.Member, error) {
	if req == nil {
		return nil, errors.New("create member request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Member
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO members (
				id, name, title, bio, avatar_url, website_url, github_login, sort_order, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			RETURNING `+memberColumns,
			uuid.New().String(),
			req.Name,
			req.Title,
			req.Bio,
			req.AvatarURL,
			req.WebsiteURL,
			req.GitHubLogin,
			req.SortOrder,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Member])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a member by ID.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var out model.Member
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, memberGetByIDQuery, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Member])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List returns the full roster in display order.
func (r *MemberRepo) List(ctx context.Context) ([]*model.Member, error) {
	var out []*model.Member
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, memberListQuery)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Member])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Update applies a partial update and returns the updated member.
func (r *MemberRepo) Update(ctx context.Context, id string, req *model.UpdateMemberRequest) (*model.Member, error) {
	if req == nil {
		return nil, errors.New("update member request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := r.buildUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}
	args = append(args, r.timeProvider.Now().UTC())
	setClause += fmt.Sprintf(", updated_at = $%d", len(args))
	args = append(args, id)

	var out model.Member
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(
			"UPDATE members SET %s WHERE id = $%d RETURNING %s",
			setClause, len(args), memberColumns)
		rows, qerr := conn.Query(ctx, query, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Member])
		return qerr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func (r *MemberRepo) buildUpdateClause(req *model.UpdateMemberRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, *req.Title)
	}
	if req.Bio != nil {
		setParts = append(setParts, fmt.Sprintf("bio = $%d", nextIdx()))
		args = append(args, *req.Bio)
	}
	if req.AvatarURL != nil {
		setParts = append(setParts, fmt.Sprintf("avatar_url = $%d", nextIdx()))
		args = append(args, *req.AvatarURL)
	}
	if req.WebsiteURL != nil {
		setParts = append(setParts, fmt.Sprintf("website_url = $%d", nextIdx()))
		args = append(args, *req.WebsiteURL)
	}
	if req.GitHubLogin != nil {
		setParts = append(setParts, fmt.Sprintf("github_login = $%d", nextIdx()))
		args = append(args, *req.GitHubLogin)
	}
	if req.SortOrder != nil {
		setParts = append(setParts, fmt.Sprintf("sort_order = $%d", nextIdx()))
		args = append(args, *req.SortOrder)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

// Delete deletes a member by ID.
func (r *MemberRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}
	return rows > 0, nil
}
