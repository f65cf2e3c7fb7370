// Package chunker provides a recursive, overlap-aware text splitter.
package chunker

import (
	"maps"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultChunkSize is the default maximum number of characters per passage.
const DefaultChunkSize = 1200

// DefaultChunkOverlap is the default maximum number of overlapping characters.
const DefaultChunkOverlap = 200

// SourceBlockKey is the passage source key holding the index of the originating block.
const SourceBlockKey = "block"

// DefaultSeparators are tried in order: paragraph break, line break, space,
// then any character boundary.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text blocks into passages.
// It implements the Chunker interface.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators [][]rune
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum passage size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the maximum overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	s.separators = make([][]rune, len(DefaultSeparators))
	for i, sep := range DefaultSeparators {
		s.separators[i] = []rune(sep)
	}

	return s
}

// ChunkSize returns the configured maximum passage size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured maximum overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// span is a half-open rune range of a block.
type span struct {
	start, end int
}

func (sp span) len() int {
	return sp.end - sp.start
}

// Chunk splits every block and numbers the passages continuously.
func (s *Splitter) Chunk(blocks []domain.TextBlock, docID, caseID string) ([]domain.Passage, error) {
	var passages []domain.Passage
	ordinal := 0

	for b, block := range blocks {
		text := []rune(strings.ReplaceAll(block.Text, "\r\n", "\n"))
		if strings.TrimSpace(string(text)) == "" {
			continue
		}

		pieces := s.split(text, span{0, len(text)}, s.separators)
		prevSkipped := false
		for _, c := range s.merge(pieces) {
			content := string(text[c.start:c.end])
			if strings.TrimSpace(content) == "" {
				prevSkipped = true
				continue
			}

			overlap := c.overlap
			if prevSkipped {
				overlap = 0
			}
			prevSkipped = false

			source := maps.Clone(block.Source)
			if source == nil {
				source = make(map[string]string, 1)
			}
			source[SourceBlockKey] = strconv.Itoa(b)

			passages = append(passages, domain.Passage{
				ID:      uuid.New().String(),
				DocID:   docID,
				CaseID:  caseID,
				Ordinal: ordinal,
				Text:    content,
				Overlap: overlap,
				Source:  source,
			})
			ordinal++
		}
	}

	return passages, nil
}

// split breaks sp into pieces no longer than the chunk size. The first
// separator found in the span is used; oversized pieces recurse with the
// remaining separators. Separators stay at the end of the preceding piece,
// so the pieces tile the span exactly.
func (s *Splitter) split(text []rune, sp span, seps [][]rune) []span {
	if sp.len() <= s.chunkSize {
		return []span{sp}
	}

	for i, sep := range seps {
		if len(sep) == 0 {
			out := make([]span, 0, sp.len())
			for p := sp.start; p < sp.end; p++ {
				out = append(out, span{p, p + 1})
			}
			return out
		}

		parts := splitKeep(text, sp, sep)
		if len(parts) < 2 {
			continue
		}

		var out []span
		for _, part := range parts {
			if part.len() <= s.chunkSize {
				out = append(out, part)
				continue
			}
			out = append(out, s.split(text, part, seps[i+1:])...)
		}
		return out
	}

	return []span{sp}
}

// splitKeep cuts sp after every occurrence of sep.
func splitKeep(text []rune, sp span, sep []rune) []span {
	var parts []span
	start := sp.start
	for p := sp.start; p+len(sep) <= sp.end; {
		if hasPrefixAt(text, p, sep) {
			p += len(sep)
			parts = append(parts, span{start, p})
			start = p
			continue
		}
		p++
	}
	if start < sp.end {
		parts = append(parts, span{start, sp.end})
	}
	return parts
}

func hasPrefixAt(text []rune, at int, sep []rune) bool {
	for i, r := range sep {
		if text[at+i] != r {
			return false
		}
	}
	return true
}

// chunk is a merged run of pieces and the length it shares with its predecessor.
type chunk struct {
	span
	overlap int
}

// merge packs consecutive pieces into chunks of at most chunkSize
// characters. When a chunk is emitted, its trailing pieces totalling at
// most overlap characters start the next chunk.
func (s *Splitter) merge(pieces []span) []chunk {
	var chunks []chunk
	window := make([]span, 0, len(pieces))
	total := 0
	carried := 0

	for _, p := range pieces {
		if total+p.len() > s.chunkSize && len(window) > 0 {
			chunks = append(chunks, chunk{
				span:    span{window[0].start, window[len(window)-1].end},
				overlap: carried,
			})

			for total > s.overlap || (total > 0 && total+p.len() > s.chunkSize) {
				total -= window[0].len()
				window = window[1:]
			}
			carried = total
		}

		window = append(window, p)
		total += p.len()
	}

	if len(window) > 0 {
		chunks = append(chunks, chunk{
			span:    span{window[0].start, window[len(window)-1].end},
			overlap: carried,
		})
	}

	return chunks
}

// Reconstruct rebuilds the extracted text from passages in ordinal order by
// dropping each passage's overlap. Blocks are joined with a line break.
func Reconstruct(passages []domain.Passage) string {
	var b strings.Builder
	lastBlock := ""
	for i, p := range passages {
		block := p.Source[SourceBlockKey]
		if i > 0 && block != lastBlock {
			b.WriteString("\n")
		}
		lastBlock = block
		b.WriteString(p.Fresh())
	}
	return b.String()
}
