package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/example/aquascore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *AnnotationRepository {
	t.Helper()
	cfg := &config.Config{
		DBType: "sqlite",
		DBPath: filepath.Join(t.TempDir(), "aquascore-test.db"),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewAnnotationRepository(db, 5*time.Second)
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.EnsureSchema())
	require.NoError(t, repo.EnsureSchema())
}

func TestUpsertRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 70, 80, 90))

	c, a, q := repo.SavedScores("u1", "Group_1/a.jpg")
	assert.Equal(t, [3]int{70, 80, 90}, [3]int{c, a, q})

	completed := repo.CompletedImages("u1")
	assert.Equal(t, map[string]bool{"Group_1/a.jpg": true}, completed)
}

func TestUpsertReplacesInsteadOfDuplicating(t *testing.T) {
	repo := newTestRepo(t)

	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 10, 20, 30))
	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 40, 50, 60))

	count, err := repo.CompletedCount("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-rating must replace, not insert")

	c, a, q := repo.SavedScores("u1", "Group_1/a.jpg")
	assert.Equal(t, [3]int{40, 50, 60}, [3]int{c, a, q}, "last write wins")
}

func TestRecordsArePartitionedByParticipant(t *testing.T) {
	repo := newTestRepo(t)

	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 1, 2, 3))
	require.True(t, repo.Upsert("u2", "Group 1", "Group_1/a.jpg", 4, 5, 6))

	c, a, q := repo.SavedScores("u1", "Group_1/a.jpg")
	assert.Equal(t, [3]int{1, 2, 3}, [3]int{c, a, q})
	c, a, q = repo.SavedScores("u2", "Group_1/a.jpg")
	assert.Equal(t, [3]int{4, 5, 6}, [3]int{c, a, q})

	assert.Len(t, repo.CompletedImages("u1"), 1)
	assert.Empty(t, repo.CompletedImages("unknown"))
}

func TestSavedScoresSentinelWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)

	c, a, q := repo.SavedScores("u1", "Group_1/missing.jpg")
	assert.Equal(t, [3]int{50, 50, 50}, [3]int{c, a, q})
}

func TestFailOpenOnStoreOutage(t *testing.T) {
	repo := newTestRepo(t)
	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 70, 80, 90))

	// Closing the handle simulates an unreachable backing store.
	require.NoError(t, repo.db.Close())

	assert.Empty(t, repo.CompletedImages("u1"))

	c, a, q := repo.SavedScores("u1", "Group_1/a.jpg")
	assert.Equal(t, [3]int{50, 50, 50}, [3]int{c, a, q})

	assert.False(t, repo.Upsert("u1", "Group 1", "Group_1/b.jpg", 1, 2, 3))

	_, err := repo.CompletedCount("u1")
	assert.Error(t, err)
}

func TestOperationsAgainstMissingTableFailOpen(t *testing.T) {
	cfg := &config.Config{
		DBType: "sqlite",
		DBPath: filepath.Join(t.TempDir(), "no-schema.db"),
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Schema never created: individual operations degrade, not panic.
	repo := NewAnnotationRepository(db, 5*time.Second)

	assert.Empty(t, repo.CompletedImages("u1"))
	c, a, q := repo.SavedScores("u1", "x.jpg")
	assert.Equal(t, [3]int{50, 50, 50}, [3]int{c, a, q})
	assert.False(t, repo.Upsert("u1", "Group 1", "x.jpg", 1, 2, 3))
}

func TestAnnotationListings(t *testing.T) {
	repo := newTestRepo(t)

	require.True(t, repo.Upsert("u2", "Group 2", "Group_2/x.jpg", 7, 8, 9))
	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/b.jpg", 4, 5, 6))
	require.True(t, repo.Upsert("u1", "Group 1", "Group_1/a.jpg", 1, 2, 3))

	byGroup, err := repo.AnnotationsByGroup("Group 1")
	require.NoError(t, err)
	require.Len(t, byGroup, 2)
	assert.Equal(t, "Group_1/a.jpg", byGroup[0].ImageName)
	assert.Equal(t, "Group_1/b.jpg", byGroup[1].ImageName)
	assert.WithinDuration(t, time.Now().UTC(), byGroup[0].Timestamp, time.Minute)

	all, err := repo.AllAnnotations()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Group 2", all[2].GroupID)
}
