package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T {
	return &v
}

func TestSnapshotService_CreateSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("assigns ids hashes and post count", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSnapshotService(openDB(t))
		snap := &blogsnap.Snapshot{Title: "SSC", OutputPath: "site.docx"}
		posts := []*blogsnap.SnapshotPost{
			{URL: "https://s.com/a/", Title: "A", Position: 0, Paragraphs: 3, Content: "hello"},
			{URL: "https://s.com/b/", Title: "B", Position: 1, Images: 2, Absent: 1, Content: "world"},
		}

		err := svc.CreateSnapshot(context.Background(), snap, posts)

		require.NoError(t, err)
		assert.NotEmpty(t, snap.ID)
		assert.False(t, snap.CreatedAt.IsZero())
		assert.Equal(t, 2, snap.PostCount)
		for _, p := range posts {
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, snap.ID, p.SnapshotID)
			assert.Len(t, p.ContentHash, 16)
			assert.False(t, p.FetchedAt.IsZero())
		}
		assert.NotEqual(t, posts[0].ContentHash, posts[1].ContentHash)
	})

	t.Run("same content hashes the same", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSnapshotService(openDB(t))
		a := &blogsnap.SnapshotPost{URL: "https://s.com/a/", Content: "same"}
		b := &blogsnap.SnapshotPost{URL: "https://s.com/a/", Content: "same"}

		require.NoError(t, svc.CreateSnapshot(context.Background(), &blogsnap.Snapshot{}, []*blogsnap.SnapshotPost{a}))
		require.NoError(t, svc.CreateSnapshot(context.Background(), &blogsnap.Snapshot{}, []*blogsnap.SnapshotPost{b}))

		assert.Equal(t, a.ContentHash, b.ContentHash)
	})

	t.Run("rejects invalid posts without writing anything", func(t *testing.T) {
		t.Parallel()

		db := openDB(t)
		svc := sqlite.NewSnapshotService(db)
		posts := []*blogsnap.SnapshotPost{{URL: "https://s.com/a/"}, {URL: ""}}

		err := svc.CreateSnapshot(context.Background(), &blogsnap.Snapshot{}, posts)

		assert.Equal(t, blogsnap.EINVALID, blogsnap.ErrorCode(err))
		var n int
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM snapshots").Scan(&n))
		assert.Equal(t, 0, n)
	})
}

func TestSnapshotService_FindSnapshotByID(t *testing.T) {
	t.Parallel()

	t.Run("returns snapshot when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSnapshotService(openDB(t))
		snap := &blogsnap.Snapshot{Title: "SSC", OutputPath: "/tmp/site.docx"}
		require.NoError(t, svc.CreateSnapshot(context.Background(), snap, nil))

		got, err := svc.FindSnapshotByID(context.Background(), snap.ID)

		require.NoError(t, err)
		assert.Equal(t, "SSC", got.Title)
		assert.Equal(t, "/tmp/site.docx", got.OutputPath)
		assert.Equal(t, 0, got.PostCount)
		assert.Equal(t, snap.CreatedAt.Unix(), got.CreatedAt.Unix())
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewSnapshotService(openDB(t))

		_, err := svc.FindSnapshotByID(context.Background(), "missing")

		assert.Equal(t, blogsnap.ENOTFOUND, blogsnap.ErrorCode(err))
	})
}

func TestSnapshotService_FindPosts(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*sqlite.SnapshotService, *blogsnap.Snapshot) {
		t.Helper()
		svc := sqlite.NewSnapshotService(openDB(t))
		snap := &blogsnap.Snapshot{Title: "first"}
		require.NoError(t, svc.CreateSnapshot(context.Background(), snap, []*blogsnap.SnapshotPost{
			{URL: "https://s.com/b/", Position: 1},
			{URL: "https://s.com/a/", Position: 0},
			{URL: "https://s.com/c/", Position: 2},
		}))
		require.NoError(t, svc.CreateSnapshot(context.Background(), &blogsnap.Snapshot{Title: "second"}, []*blogsnap.SnapshotPost{
			{URL: "https://s.com/a/", Position: 0},
		}))
		return svc, snap
	}

	t.Run("filters by snapshot in position order", func(t *testing.T) {
		t.Parallel()

		svc, snap := setup(t)

		posts, err := svc.FindPosts(context.Background(), blogsnap.PostFilter{SnapshotID: ptr(snap.ID)})

		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "https://s.com/a/", posts[0].URL)
		assert.Equal(t, "https://s.com/b/", posts[1].URL)
		assert.Equal(t, "https://s.com/c/", posts[2].URL)
	})

	t.Run("filters by url across snapshots", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup(t)

		posts, err := svc.FindPosts(context.Background(), blogsnap.PostFilter{URL: ptr("https://s.com/a/")})

		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		t.Parallel()

		svc, snap := setup(t)

		posts, err := svc.FindPosts(context.Background(), blogsnap.PostFilter{SnapshotID: ptr(snap.ID), Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "https://s.com/b/", posts[0].URL)
	})

	t.Run("returns empty for unknown url", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup(t)

		posts, err := svc.FindPosts(context.Background(), blogsnap.PostFilter{URL: ptr("https://s.com/zzz/")})

		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
