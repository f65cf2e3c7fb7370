// Package msgpack encodes per-document indexes as MessagePack blobs.
package msgpack

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.IndexCodec = (*Codec)(nil)

// FormatVersion is written into every blob. Decode rejects other versions.
const FormatVersion = 1

// Codec serialises indexes with MessagePack.
type Codec struct{}

// New creates a new codec.
func New() *Codec {
	return &Codec{}
}

type indexBlob struct {
	Version    int           `msgpack:"v"`
	DocID      string        `msgpack:"doc_id"`
	CaseID     string        `msgpack:"case_id,omitempty"`
	Model      string        `msgpack:"model"`
	Dimensions int           `msgpack:"dims"`
	CreatedAt  time.Time     `msgpack:"created_at"`
	Passages   []passageBlob `msgpack:"passages"`
}

type passageBlob struct {
	ID        string            `msgpack:"id"`
	Ordinal   int               `msgpack:"ord"`
	Text      string            `msgpack:"text"`
	Overlap   int               `msgpack:"overlap,omitempty"`
	Source    map[string]string `msgpack:"src,omitempty"`
	Embedding []float32         `msgpack:"emb"`
}

// Encode serialises an index.
func (c *Codec) Encode(data *domain.IndexData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil index", domain.ErrInvalidInput)
	}

	blob := indexBlob{
		Version:    FormatVersion,
		DocID:      data.DocID,
		CaseID:     data.CaseID,
		Model:      data.Model,
		Dimensions: data.Dimensions,
		CreatedAt:  data.CreatedAt.UTC(),
		Passages:   make([]passageBlob, len(data.Passages)),
	}
	for i, p := range data.Passages {
		blob.Passages[i] = passageBlob{
			ID:        p.ID,
			Ordinal:   p.Ordinal,
			Text:      p.Text,
			Overlap:   p.Overlap,
			Source:    p.Source,
			Embedding: p.Embedding,
		}
	}

	out, err := msgpack.Marshal(&blob)
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	return out, nil
}

// Decode parses a blob produced by Encode. Document and case ids are
// restored onto every passage.
func (c *Codec) Decode(raw []byte) (*domain.IndexData, error) {
	var blob indexBlob
	if err := msgpack.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	if blob.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", blob.Version)
	}

	data := &domain.IndexData{
		DocID:      blob.DocID,
		CaseID:     blob.CaseID,
		Model:      blob.Model,
		Dimensions: blob.Dimensions,
		CreatedAt:  blob.CreatedAt,
		Passages:   make([]domain.Passage, len(blob.Passages)),
	}
	for i, p := range blob.Passages {
		data.Passages[i] = domain.Passage{
			ID:        p.ID,
			DocID:     blob.DocID,
			CaseID:    blob.CaseID,
			Ordinal:   p.Ordinal,
			Text:      p.Text,
			Overlap:   p.Overlap,
			Source:    p.Source,
			Embedding: p.Embedding,
		}
	}
	return data, nil
}
