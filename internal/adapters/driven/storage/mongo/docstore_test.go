package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestConnect_RequiresURIAndDatabase(t *testing.T) {
	_, err := Connect(context.Background(), "", "db")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Connect(context.Background(), "mongodb://localhost:27017", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConnect_InvalidURI(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-mongo", "db")

	assert.Error(t, err)
}

func TestModel_RoundTrip(t *testing.T) {
	uploaded := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &domain.DocumentRecord{
		ID:         "42",
		Filename:   "ruling.pdf",
		SourcePath: "/uploads/42.pdf",
		CaseID:     "case-7",
		UploadedAt: uploaded,
		Summaries: map[domain.SummaryType]string{
			domain.SummaryBrief:     "Short.",
			domain.SummaryKeyPoints: "1. Point",
		},
	}

	raw, err := bson.Marshal(toModel(rec))
	require.NoError(t, err)

	var decoded documentModel
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	got := fromModel(decoded)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Filename, got.Filename)
	assert.Equal(t, rec.SourcePath, got.SourcePath)
	assert.Equal(t, rec.CaseID, got.CaseID)
	assert.True(t, uploaded.Equal(got.UploadedAt))
	assert.Equal(t, rec.Summaries, got.Summaries)
}

func TestModel_FieldNames(t *testing.T) {
	raw, err := bson.Marshal(toModel(&domain.DocumentRecord{
		ID:        "1",
		Summaries: map[domain.SummaryType]string{domain.SummaryDetailed: "Long."},
	}))
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "1", doc["_id"])
	assert.Equal(t, "Long.", doc[domain.SummaryDetailed.CacheField()])
	assert.NotContains(t, doc, domain.SummaryBrief.CacheField())
	assert.NotContains(t, doc, "case_id")
}

func TestFromModel_NoSummaries(t *testing.T) {
	got := fromModel(documentModel{ID: "1"})

	assert.Nil(t, got.Summaries)
	_, ok := got.Summary(domain.SummaryBrief)
	assert.False(t, ok)
}

func TestListFilter(t *testing.T) {
	assert.Empty(t, listFilter(""))
	assert.Equal(t, bson.M{"case_id": "c1"}, listFilter("c1"))
}

func TestSummaryFields(t *testing.T) {
	fields := summaryFields()

	assert.Len(t, fields, 3)
	for _, st := range domain.SummaryTypes() {
		assert.Contains(t, fields, st.CacheField())
	}
}
