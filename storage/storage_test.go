package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/loganlanou/prjimages/internal/updater"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Storage {
	t.Helper()
	store, cleanup, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return store
}

func createProjectWithImages(t *testing.T, store *Storage, cover string, urls ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	projectID := ulid.Make().String()
	require.NoError(t, store.CreateProject(ctx, Project{
		ID:               projectID,
		Title:            "Dragon",
		FeaturedImageURL: sql.NullString{String: cover, Valid: cover != ""},
	}))

	var ids []string
	for i, url := range urls {
		id := uuid.NewString()
		require.NoError(t, store.CreateProjectImage(ctx, ProjectImage{
			ID:           id,
			ProjectID:    projectID,
			ImageURL:     sql.NullString{String: url, Valid: url != ""},
			DisplayOrder: int64(i),
		}))
		ids = append(ids, id)
	}
	return projectID, ids
}

func TestFetchAllAndUpdateField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ids := createProjectWithImages(t, store, "", "/images/projects/[prj1]a.jpg", "")

	rows, err := store.FetchAll(ctx, "project_images", "image_url")
	require.NoError(t, err)
	assert.ElementsMatch(t, []updater.Row{
		{ID: ids[0], Value: "/images/projects/[prj1]a.jpg"},
		{ID: ids[1], Value: ""},
	}, rows)

	require.NoError(t, store.UpdateField(ctx, "project_images", ids[0], "image_url", "prj1-a.jpg"))

	img, err := store.GetProjectImage(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "prj1-a.jpg", img.ImageURL.String)
}

func TestUpdateField_MissingRow(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateField(context.Background(), "project_images", "does-not-exist", "image_url", "x")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestColumnsAreAllowListed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		table, field string
	}{
		{"project_images", "alt_text"},
		{"users", "image_url"},
		{"project_images; DROP TABLE projects", "image_url"},
	}

	for _, tt := range tests {
		_, err := store.FetchAll(ctx, tt.table, tt.field)
		assert.ErrorIs(t, err, ErrUnknownColumn)

		err = store.UpdateField(ctx, tt.table, "1", tt.field, "x")
		assert.ErrorIs(t, err, ErrUnknownColumn)
	}
}

func TestUpdaterAgainstStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	projectID, ids := createProjectWithImages(t, store,
		"/images/[prj1]cover.jpg",
		"/images/projects/[prj1]095.jpg",
		"/images/projects/[prj1]096.png?v=2",
		"prj1-097.jpg",
	)

	result, err := updater.New(store).Run(ctx, updater.ProjectImages)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Unchanged)

	want := []string{"prj1-095.jpg", "prj1-096.png?v=2", "prj1-097.jpg"}
	for i, id := range ids {
		img, err := store.GetProjectImage(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want[i], img.ImageURL.String)
	}

	result, err = updater.New(store).Run(ctx, updater.FeaturedImages)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	project, err := store.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "prj1-cover.jpg", project.FeaturedImageURL.String)
}

func TestSeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stats, err := store.Seed(ctx, gofakeit.New(42), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Projects)
	assert.GreaterOrEqual(t, stats.Images, 5)

	projects, err := store.FetchAll(ctx, "projects", "featured_image_url")
	require.NoError(t, err)
	assert.Len(t, projects, 5)

	images, err := store.FetchAll(ctx, "project_images", "image_url")
	require.NoError(t, err)
	assert.Len(t, images, stats.Images)
	for _, row := range images {
		assert.NotEmpty(t, row.Value)
	}
}
