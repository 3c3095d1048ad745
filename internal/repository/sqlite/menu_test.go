package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *MenuRepository {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "menus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
	return NewMenuRepository(db)
}

func TestMenuRepository_CreateGetList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	uuidMenu := &domain.Menu{Name: "UUID", Path: "/uuid", Icon: "🔑", DisplayOrder: 5, IsActive: true}
	cron := &domain.Menu{Name: "Cron", Path: "/cron", DisplayOrder: 1, IsActive: true}
	hidden := &domain.Menu{Name: "Hidden", Path: "/hidden", DisplayOrder: 0, IsActive: false}
	for _, m := range []*domain.Menu{uuidMenu, cron, hidden} {
		require.NoError(t, repo.Create(ctx, m))
		assert.NotZero(t, m.ID)
	}

	got, err := repo.Get(ctx, uuidMenu.ID)
	require.NoError(t, err)
	assert.Equal(t, "UUID", got.Name)
	assert.Equal(t, "🔑", got.Icon)
	assert.True(t, got.IsActive)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Cron", active[0].Name)
	assert.Equal(t, "UUID", active[1].Name)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hidden", all[0].Name)
}

func TestMenuRepository_UpdateDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := &domain.Menu{Name: "JSON", Path: "/json", IsActive: true}
	require.NoError(t, repo.Create(ctx, m))

	m.Name = "JSON / YAML"
	m.IsActive = false
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "JSON / YAML", got.Name)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.Get(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, m.ID), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, m), domain.ErrNotFound)
}

func TestMenuRepository_UpdateOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		m := &domain.Menu{Name: name, Path: "/" + name, IsActive: true}
		require.NoError(t, repo.Create(ctx, m))
		ids = append(ids, m.ID)
	}

	require.NoError(t, repo.UpdateOrder(ctx, []int64{ids[2], ids[0], 9999, ids[1]}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Name, all[1].Name, all[2].Name})
	assert.Equal(t, 0, all[0].DisplayOrder)
	assert.Equal(t, 1, all[1].DisplayOrder)
	assert.Equal(t, 3, all[2].DisplayOrder)
}
