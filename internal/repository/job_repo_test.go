package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/testutil"
)

func TestJobRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	doc := testutil.TestDocument(t, db)

	job := &model.AnalysisJob{
		DocumentID: doc.ID,
		Status:     "queued",
	}

	err := repo.Create(job)
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
}

func TestJobRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	doc := testutil.TestDocument(t, db)
	created := testutil.TestJob(t, db, doc.ID, "queued")

	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "queued", found.Status)
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestJobRepository_GetLatestByDocumentID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	doc := testutil.TestDocument(t, db)

	testutil.TestJob(t, db, doc.ID, "completed")
	latest := testutil.TestJob(t, db, doc.ID, "queued")

	found, err := repo.GetLatestByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, found.ID) // Should return the latest
}

func TestJobRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	doc := testutil.TestDocument(t, db)
	job := testutil.TestJob(t, db, doc.ID, "queued")

	now := time.Now()
	job.Status = "processing"
	job.CurrentStep = "analyzing"
	job.StartedAt = &now
	err := repo.Update(job)
	require.NoError(t, err)

	found, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "processing", found.Status)
	assert.Equal(t, "analyzing", found.CurrentStep)
	assert.NotNil(t, found.StartedAt)
}

func TestJobRepository_ListStaleQueued(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewJobRepository(db)
	doc := testutil.TestDocument(t, db)

	stale := testutil.TestJob(t, db, doc.ID, "queued")
	db.Model(stale).UpdateColumn("updated_at", time.Now().Add(-time.Hour))

	testutil.TestJob(t, db, doc.ID, "queued") // fresh
	old := testutil.TestJob(t, db, doc.ID, "completed")
	db.Model(old).UpdateColumn("updated_at", time.Now().Add(-time.Hour))

	jobs, err := repo.ListStaleQueued(time.Now().Add(-30 * time.Minute))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, stale.ID, jobs[0].ID)
}
