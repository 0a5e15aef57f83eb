package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/testutil"
)

func TestMemberRepo_Integration_CRUD(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewMemberRepo(db)
		ctx := context.Background()

		created, err := repo.Create(ctx, testutil.NewMemberRequest().
			WithName("Alice Hargreaves").
			WithTitle("Staff Engineer").
			WithWebsite("https://blog.alice.dev").
			Build())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Hargreaves", got.Name)
		assert.Equal(t, "https://blog.alice.dev", got.WebsiteURL)

		title := "Principal Engineer"
		updated, err := repo.Update(ctx, created.ID, &model.UpdateMemberRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, "Alice Hargreaves", updated.Name)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestMemberRepo_Integration_ListRosterOrder(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewMemberRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, testutil.NewMemberRequest().WithName("Zed").WithSortOrder(2).Build())
		require.NoError(t, err)
		_, err = repo.Create(ctx, testutil.NewMemberRequest().WithName("Ada").WithSortOrder(1).Build())
		require.NoError(t, err)
		_, err = repo.Create(ctx, testutil.NewMemberRequest().WithName("Bea").WithSortOrder(1).Build())
		require.NoError(t, err)

		members, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, members, 3)
		assert.Equal(t, "Ada", members[0].Name, "sort_order then name decides roster order")
		assert.Equal(t, "Bea", members[1].Name)
		assert.Equal(t, "Zed", members[2].Name)
	})
}
