package msgpack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestCodec_PreservesIndex(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	in := &domain.IndexData{
		DocID:      "42",
		CaseID:     "case-7",
		Model:      "nomic-embed-text",
		Dimensions: 3,
		CreatedAt:  created,
		Passages: []domain.Passage{
			{ID: "p0", DocID: "42", CaseID: "case-7", Ordinal: 0, Text: "First passage.",
				Source: map[string]string{"page": "1"}, Embedding: []float32{0.1, 0.2, 0.3}},
			{ID: "p1", DocID: "42", CaseID: "case-7", Ordinal: 1, Text: "age. Second.", Overlap: 4,
				Source: map[string]string{"page": "1"}, Embedding: []float32{-1, 0, 1}},
		},
	}

	c := New()
	raw, err := c.Encode(in)
	require.NoError(t, err)

	out, err := c.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, in.DocID, out.DocID)
	assert.Equal(t, in.CaseID, out.CaseID)
	assert.Equal(t, in.Model, out.Model)
	assert.Equal(t, in.Dimensions, out.Dimensions)
	assert.True(t, created.Equal(out.CreatedAt))
	assert.Equal(t, in.Passages, out.Passages)
}

func TestEncode_Nil(t *testing.T) {
	_, err := New().Encode(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := New().Decode([]byte{0xc1, 0x00, 0xff})
	assert.Error(t, err)
}

func TestDecode_RejectsOtherVersion(t *testing.T) {
	raw, err := msgpack.Marshal(&indexBlob{Version: FormatVersion + 1, DocID: "1"})
	require.NoError(t, err)

	_, err = New().Decode(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}
