package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertArtifact(t *testing.T) {
	db := setupTestDB(t)
	runID, err := db.CreateRun("/site", "blog", 1)
	require.NoError(t, err)

	id, err := db.InsertArtifact(runID, "/site/a.html", "article", "/site/article-a.html", "abc", 10)
	require.NoError(t, err)
	assert.NotZero(t, id)

	// same path in the same run updates the row
	id2, err := db.InsertArtifact(runID, "/site/a.html", "article", "/site/article-a.html", "def", 12)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	artifacts, err := db.ListArtifacts(runID)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "def", artifacts[0].ContentHash)
	assert.Equal(t, int64(12), artifacts[0].SizeBytes)
	assert.Equal(t, "article", artifacts[0].Kind)
	assert.Equal(t, "/site/a.html", artifacts[0].SourcePath)
}

func TestInsertArtifact_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.InsertArtifact(7, "/a.html", "article", "/article-a.html", "abc", 1)
	assert.Error(t, err, "foreign key should reject unknown run")
}

func TestStaleArtifactPaths(t *testing.T) {
	db := setupTestDB(t)

	first, err := db.CreateRun("/site", "blog", 1)
	require.NoError(t, err)
	for _, p := range []string{"/site/article-a.html", "/site/section-1-a.html", "/site/section-2-a.html", "/site/a.rst"} {
		_, err := db.InsertArtifact(first, "/site/a.html", "x", p, "h", 1)
		require.NoError(t, err)
	}

	second, err := db.CreateRun("/site", "blog", 1)
	require.NoError(t, err)
	for _, p := range []string{"/site/article-a.html", "/site/section-1-a.html", "/site/a.rst"} {
		_, err := db.InsertArtifact(second, "/site/a.html", "x", p, "h", 1)
		require.NoError(t, err)
	}

	stale, err := db.StaleArtifactPaths(second)
	require.NoError(t, err)
	assert.Equal(t, []string{"/site/section-2-a.html"}, stale)

	all, err := db.AllArtifactPaths("/site")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, db.ForgetArtifactPath("/site/section-2-a.html"))
	stale, err = db.StaleArtifactPaths(second)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestArtifactPaths_ScopedToRoot(t *testing.T) {
	db := setupTestDB(t)

	siteA, err := db.CreateRun("/a", "blog", 1)
	require.NoError(t, err)
	_, err = db.InsertArtifact(siteA, "/a/p.html", "article", "/a/article-p.html", "h", 1)
	require.NoError(t, err)

	siteB, err := db.CreateRun("/b", "blog", 1)
	require.NoError(t, err)
	_, err = db.InsertArtifact(siteB, "/b/q.html", "article", "/b/article-q.html", "h", 1)
	require.NoError(t, err)

	stale, err := db.StaleArtifactPaths(siteB)
	require.NoError(t, err)
	assert.Empty(t, stale, "outputs of another root are never stale")

	all, err := db.AllArtifactPaths("/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"/b/article-q.html"}, all)

	all, err = db.AllArtifactPaths("/elsewhere")
	require.NoError(t, err)
	assert.Empty(t, all)
}
