package domain

// QueryStage is a state of the retrieve-then-generate pipeline.
type QueryStage string

// Pipeline stages. The only transitions are retrieve to generate and
// generate to done.
const (
	StageRetrieve QueryStage = "retrieve"
	StageGenerate QueryStage = "generate"
	StageDone     QueryStage = "done"
)

// QueryState is the ephemeral state of one question-answering run.
// It is never persisted.
type QueryState struct {
	// Question is the user's question.
	Question string

	// DocIDs are the target documents, in caller order.
	DocIDs []string

	// Passages are the retrieved passages, most relevant first per document.
	Passages []ScoredPassage

	// Answer is set once the generate stage completes.
	Answer string

	// Stage is the current pipeline stage.
	Stage QueryStage
}

// ContextPassages returns the retrieved passages without scores.
func (s *QueryState) ContextPassages() []Passage {
	out := make([]Passage, len(s.Passages))
	for i := range s.Passages {
		out[i] = s.Passages[i].Passage
	}
	return out
}

// AskResult is returned by the question-answering operations.
type AskResult struct {
	// Answer is the generated answer or the fixed fallback.
	Answer string `json:"answer"`

	// PrimaryDocID is the first requested document for multi-document questions.
	PrimaryDocID string `json:"primary_doc_id,omitempty"`

	// Sources counts retrieved passages per document.
	Sources map[string]int `json:"sources,omitempty"`
}
