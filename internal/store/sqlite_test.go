package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restud-replication-packages/restud/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "restud.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPackageCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &models.Package{Name: "MS-12345", Path: "/tmp/MS-12345"}
	require.NoError(t, s.CreatePackage(ctx, p))
	assert.NotEmpty(t, p.ID, "create should assign an id")
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "MS-12345", got.Name)
	assert.False(t, got.Accepted)

	got, err = s.GetPackageByName(ctx, "MS-12345")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got.Accepted = true
	got.ZenodoRecord = "1234567"
	require.NoError(t, s.UpdatePackage(ctx, got))

	got, err = s.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Accepted)
	assert.Equal(t, "1234567", got.ZenodoRecord)

	list, err := s.ListPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeletePackage(ctx, p.ID))
	_, err = s.GetPackage(ctx, p.ID)
	assert.Error(t, err)
}

func TestGetPackage_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPackage(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")

	_, err = s.GetPackageByName(context.Background(), "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestUpdatePackage_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdatePackage(context.Background(), &models.Package{ID: "missing"})
	assert.ErrorContains(t, err, "not found")
}

func TestRenders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &models.Package{Name: "MS-1"}
	require.NoError(t, s.CreatePackage(ctx, p))

	r1 := &models.Render{
		PackageID:  p.ID,
		Round:      1,
		Kind:       models.RenderKindResponse,
		TemplateID: "response1",
		Output:     "Dear Dr. Smith,",
	}
	require.NoError(t, s.CreateRender(ctx, r1))
	assert.NotEmpty(t, r1.ID)

	r2 := &models.Render{
		PackageID:  p.ID,
		Round:      2,
		Kind:       models.RenderKindAccept,
		TemplateID: "accept2",
		Output:     "We are happy to accept.",
	}
	require.NoError(t, s.CreateRender(ctx, r2))

	renders, err := s.ListRenders(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, renders, 2)

	limited, err := s.ListRenders(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	latest, err := s.LatestRender(ctx, p.ID, models.RenderKindAccept)
	require.NoError(t, err)
	assert.Equal(t, "accept2", latest.TemplateID)
	assert.Equal(t, 2, latest.Round)

	_, err = s.LatestRender(ctx, "other", models.RenderKindResponse)
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}
