package cookies

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE cookies (
  name TEXT NOT NULL,
  path TEXT NOT NULL DEFAULT '/',
  value TEXT NOT NULL,
  expires_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (name, path)
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, r.Set(ctx, Cookie{Name: "auth_token", Path: "/", Value: "abc", ExpiresAt: exp}))

	c, err := r.Get(ctx, "auth_token", "/")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, exp.Equal(c.ExpiresAt))
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	c, err := r.Get(context.Background(), "missing", "/")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSet_UpsertOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Set(ctx, Cookie{Name: "k", Path: "/", Value: "old", ExpiresAt: exp}))
	require.NoError(t, r.Set(ctx, Cookie{Name: "k", Path: "/", Value: "new", ExpiresAt: exp}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].Value)
}

func TestPathScopesAreIndependent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Set(ctx, Cookie{Name: "k", Path: "/", Value: "root", ExpiresAt: exp}))
	require.NoError(t, r.Set(ctx, Cookie{Name: "k", Path: "/admin", Value: "admin", ExpiresAt: exp}))
	require.NoError(t, r.Delete(ctx, "k", "/admin"))

	c, err := r.Get(ctx, "k", "/")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "root", c.Value)
}

func TestDeleteExpired(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Set(ctx, Cookie{Name: "old", Path: "/", Value: "1", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, r.Set(ctx, Cookie{Name: "fresh", Path: "/", Value: "2", ExpiresAt: now.Add(time.Hour)}))

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "fresh", all[0].Name)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Set(ctx, Cookie{Name: "a", Path: "/", Value: "1", ExpiresAt: exp}))
	require.NoError(t, r.Set(ctx, Cookie{Name: "b", Path: "/", Value: "2", ExpiresAt: exp}))
	require.NoError(t, r.Clear(ctx))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCookie_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, Cookie{ExpiresAt: now}.Expired(now))
	assert.False(t, Cookie{ExpiresAt: now.Add(time.Second)}.Expired(now))
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k", "/")
	require.ErrorContains(t, err, "failed to get cookie[k]")

	err = r.Set(ctx, Cookie{Name: "k", Path: "/"})
	require.ErrorContains(t, err, "failed to set cookie[k]")

	err = r.Delete(ctx, "k", "/")
	require.ErrorContains(t, err, "failed to delete cookie[k]")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list cookies")

	require.ErrorContains(t, r.Clear(ctx), "failed to clear cookies")
}
