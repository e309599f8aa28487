package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqlaw/legaldoc_go_server/internal/analysis"
	"github.com/hqlaw/legaldoc_go_server/internal/model"
	"github.com/hqlaw/legaldoc_go_server/internal/repository"
	"github.com/hqlaw/legaldoc_go_server/internal/testutil"
)

func setupResultStore(t *testing.T) (*ResultStore, *repository.DocumentRepository, *repository.SummaryRepository, *repository.RiskFlagRepository, *repository.QuestionRepository, func() *model.Document) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	documentRepo := repository.NewDocumentRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	riskRepo := repository.NewRiskFlagRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	store := NewResultStore(summaryRepo, riskRepo, questionRepo, documentRepo)

	makeDoc := func() *model.Document {
		return testutil.TestDocument(t, db, testutil.WithStatus(model.StatusExtracted))
	}

	return store, documentRepo, summaryRepo, riskRepo, questionRepo, makeDoc
}

func TestResultStore_Persist_FullResult(t *testing.T) {
	store, documentRepo, summaryRepo, riskRepo, questionRepo, makeDoc := setupResultStore(t)
	doc := makeDoc()

	excerpt := "shall indemnify and hold harmless"
	result := &analysis.Result{
		Summary:   "Indemnification agreement",
		KeyPoints: []string{"broad indemnity", "no liability cap"},
		Risks: []analysis.Risk{
			{Category: "liability", Severity: "high", Description: "uncapped indemnity", Excerpt: &excerpt},
		},
		Questions: []string{"Is there insurance coverage?"},
	}

	stored := store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceAI, Result: result})
	require.NotNil(t, stored)

	summary, err := summaryRepo.GetLatestByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Indemnification agreement", summary.PlainSummary)
	assert.Equal(t, model.StringArray{"broad indemnity", "no liability cap"}, summary.KeyPoints)
	assert.Equal(t, 0.9, summary.Confidence)

	flags, err := riskRepo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "liability", flags[0].Category)
	require.NotNil(t, flags[0].Excerpt)
	assert.Equal(t, excerpt, *flags[0].Excerpt)

	questions, err := questionRepo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	found, err := documentRepo.GetByID(doc.ID)
	require.NoError(t, err)
	assert.True(t, found.Processed)
	assert.Equal(t, model.StatusAnalyzed, found.ProcessingStatus)
	assert.NotNil(t, found.ProcessedAt)
}

func TestResultStore_Persist_EmptySummaryDefaults(t *testing.T) {
	store, _, summaryRepo, _, _, makeDoc := setupResultStore(t)
	doc := makeDoc()

	stored := store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceAI, Result: &analysis.Result{}})
	require.NotNil(t, stored)

	summary, err := summaryRepo.GetLatestByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "No summary", summary.PlainSummary)
	assert.Equal(t, model.StringArray{}, summary.KeyPoints)
	// Missing summary means low confidence
	assert.Equal(t, 0.3, summary.Confidence)
}

func TestResultStore_Persist_RiskDefaults(t *testing.T) {
	store, _, _, riskRepo, _, makeDoc := setupResultStore(t)
	doc := makeDoc()

	result := &analysis.Result{
		Summary: "s",
		Risks: []analysis.Risk{
			{Description: "missing category and severity"},
		},
	}
	store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceAI, Result: result})

	flags, err := riskRepo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "general", flags[0].Category)
	assert.Equal(t, "medium", flags[0].Severity)
}

func TestResultStore_Persist_QuestionPriority(t *testing.T) {
	store, _, _, _, questionRepo, makeDoc := setupResultStore(t)
	doc := makeDoc()

	result := &analysis.Result{
		Summary:   "s",
		Questions: []string{"q1", "q2", "q3", "q4", "q5"},
	}
	store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceAI, Result: result})

	questions, err := questionRepo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, questions, 5)

	// First three ranked high by position, the rest medium
	for i, q := range questions {
		if i < 3 {
			assert.Equal(t, "high", q.Priority, "question %d", i)
		} else {
			assert.Equal(t, "medium", q.Priority, "question %d", i)
		}
	}
}

func TestResultStore_Persist_ConfidenceFollowsOutcome(t *testing.T) {
	store, _, summaryRepo, _, _, makeDoc := setupResultStore(t)

	t.Run("fallback with summary scores high", func(t *testing.T) {
		doc := makeDoc()
		outcome := analysis.Outcome{
			Source: analysis.SourceFallback,
			Result: &analysis.Result{Summary: "degraded but usable"},
		}
		store.Persist(doc.ID, outcome)

		summary, err := summaryRepo.GetLatestByDocumentID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, outcome.Confidence(), summary.Confidence)
		assert.Equal(t, 0.9, summary.Confidence)
	})

	t.Run("unreadable source pins low confidence", func(t *testing.T) {
		doc := makeDoc()
		outcome := analysis.Outcome{
			Source: analysis.SourceUnreadable,
			Result: analysis.Unreadable(),
		}
		store.Persist(doc.ID, outcome)

		summary, err := summaryRepo.GetLatestByDocumentID(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.1, summary.Confidence)
	})
}

func TestResultStore_Persist_AppendsOnReanalysis(t *testing.T) {
	store, _, summaryRepo, _, _, makeDoc := setupResultStore(t)
	doc := makeDoc()

	store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceAI, Result: &analysis.Result{Summary: "first run"}})
	store.Persist(doc.ID, analysis.Outcome{Source: analysis.SourceFallback, Result: &analysis.Result{Summary: "second run"}})

	summaries, err := summaryRepo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)

	latest, err := summaryRepo.GetLatestByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "second run", latest.PlainSummary)
}

func TestResultStore_PersistUnreadable(t *testing.T) {
	store, documentRepo, summaryRepo, riskRepo, questionRepo, makeDoc := setupResultStore(t)
	doc := makeDoc()

	stored := store.PersistUnreadable(doc.ID)
	require.NotNil(t, stored)

	summary, err := summaryRepo.GetLatestByDocumentID(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.Unreadable().Summary, summary.PlainSummary)
	assert.Equal(t, 0.1, summary.Confidence)

	riskCount, _ := riskRepo.CountByDocumentID(doc.ID)
	questionCount, _ := questionRepo.CountByDocumentID(doc.ID)
	assert.Zero(t, riskCount)
	assert.Zero(t, questionCount)

	found, err := documentRepo.GetByID(doc.ID)
	require.NoError(t, err)
	assert.True(t, found.Processed)
	assert.Equal(t, "Corrupted PDF", found.ErrorMessage)
	// Status stays as set by extraction, not bumped to analyzed
	assert.NotEqual(t, model.StatusAnalyzed, found.ProcessingStatus)
	assert.NotNil(t, found.ProcessedAt)
}
