package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/teamdesk/teamdesk/internal/errors"

	"github.com/teamdesk/teamdesk/internal/ports"
	"github.com/teamdesk/teamdesk/internal/testutil"
)

func TestAccountRepo_Integration_CreateAndLookup(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAccountRepo(db)
		ctx := context.Background()

		req := testutil.NewAccountRequest().
			UniqueEmail("create-lookup").
			WithDisplayName("Casey").
			Build()

		created, err := repo.Create(ctx, req, "hash")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, created.ID, created.IdentityKey, "password accounts are keyed by their own ID")
		assert.Equal(t, "user", created.Role, "empty role defaults to least privileged")
		assert.False(t, created.MustChangePassword)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)

		byEmail, err := repo.GetByEmail(ctx, created.Email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byKey, err := repo.GetByIdentityKey(ctx, created.IdentityKey)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byKey.ID)
	})
}

func TestAccountRepo_Integration_EmailIsNormalizedAndUnique(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAccountRepo(db)
		ctx := context.Background()

		first := testutil.NewAccountRequest().Build()
		first.Email = "Mixed.Case@Example.COM"
		created, err := repo.Create(ctx, first, "hash")
		require.NoError(t, err)
		assert.Equal(t, "mixed.case@example.com", created.Email)

		dup := testutil.NewAccountRequest().Build()
		dup.Email = "mixed.case@example.com"
		_, err = repo.Create(ctx, dup, "hash")
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err), "duplicate email should map to conflict, got %v", err)
	})
}

func TestAccountRepo_Integration_SetRoleAndUpdatePassword(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAccountRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx,
			testutil.NewAccountRequest().UniqueEmail("set-role").WithMustChangePassword().Build(),
			"old-hash")
		require.NoError(t, err)
		assert.True(t, created.MustChangePassword)

		ok, err := repo.SetRole(ctx, created.ID, "programmer")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.SetRole(ctx, "00000000-0000-0000-0000-000000000000", "admin")
		require.NoError(t, err)
		assert.False(t, ok, "unknown account should not report an update")

		ok, err = repo.UpdatePassword(ctx, created.ID, "new-hash")
		require.NoError(t, err)
		assert.True(t, ok)

		reloaded, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "programmer", reloaded.Role)
		assert.Equal(t, "new-hash", reloaded.PasswordHash)
		assert.False(t, reloaded.MustChangePassword, "password update clears the provisioning flag")
	})
}

func TestAccountRepo_Integration_RecordStoreRoundTrip(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAccountRepo(db)
		ctx := context.Background()

		_, err := repo.GetRecord(ctx, "sub-missing")
		require.ErrorIs(t, err, ports.ErrRecordNotFound)

		err = repo.CreateRecord(ctx, "sub-42", ports.RoleRecord{
			Role:        "programmer",
			Email:       "federated@example.com",
			DisplayName: "Federated User",
		})
		require.NoError(t, err)

		rec, err := repo.GetRecord(ctx, "sub-42")
		require.NoError(t, err)
		assert.Equal(t, "programmer", rec.Role)

		acct, err := repo.GetByIdentityKey(ctx, "sub-42")
		require.NoError(t, err)
		assert.Equal(t, "federated@example.com", acct.Email)
		assert.Empty(t, acct.PasswordHash, "auto-provisioned accounts have no password")
	})
}

func TestAccountRepo_Integration_ListPagination(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewAccountRepo(db)
		ctx := context.Background()

		for _, suffix := range []string{"page-a", "page-b", "page-c"} {
			_, err := repo.Create(ctx, testutil.NewAccountRequest().UniqueEmail(suffix).Build(), "hash")
			require.NoError(t, err)
		}

		page, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := repo.List(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})
}
