package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/testutil"
)

func TestRiskFlagRepository_BatchCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRiskFlagRepository(db)
	doc := testutil.TestDocument(t, db)

	excerpt := "party shall indemnify"
	flags := []*model.RiskFlag{
		{DocumentID: doc.ID, Category: "liability", Severity: "high", Description: "indemnity", Excerpt: &excerpt},
		{DocumentID: doc.ID, Category: "termination", Severity: "medium", Description: "short notice"},
	}

	err := repo.BatchCreate(flags)
	require.NoError(t, err)

	count, err := repo.CountByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRiskFlagRepository_BatchCreate_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRiskFlagRepository(db)

	assert.NoError(t, repo.BatchCreate(nil))
	assert.NoError(t, repo.BatchCreate([]*model.RiskFlag{}))
}

func TestRiskFlagRepository_ListByDocumentID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewRiskFlagRepository(db)
	doc := testutil.TestDocument(t, db)

	first := testutil.TestRiskFlag(t, db, doc.ID, "liability", "high")
	second := testutil.TestRiskFlag(t, db, doc.ID, "payment", "low")

	flags, err := repo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, flags, 2)

	// Insertion order preserved
	assert.Equal(t, first.ID, flags[0].ID)
	assert.Equal(t, second.ID, flags[1].ID)
	assert.Nil(t, flags[1].Excerpt)
}

func TestQuestionRepository_BatchCreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewQuestionRepository(db)
	doc := testutil.TestDocument(t, db)

	questions := []*model.DocumentQuestion{
		{DocumentID: doc.ID, QuestionText: "Who owns the IP?", Priority: "high"},
		{DocumentID: doc.ID, QuestionText: "What is the notice period?", Priority: "medium"},
	}

	err := repo.BatchCreate(questions)
	require.NoError(t, err)

	found, err := repo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Who owns the IP?", found[0].QuestionText)
	assert.Equal(t, "high", found[0].Priority)

	count, err := repo.CountByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
