package domain

// DefaultCaseRankLimit is how many related cases are returned by default.
const DefaultCaseRankLimit = 5

// CaseCandidate is a precedent that may be related to a document.
type CaseCandidate struct {
	// ID identifies the case.
	ID string `json:"id"`

	// Title is the case name.
	Title string `json:"title"`

	// Summary is the text compared against the query.
	Summary string `json:"summary"`
}

// RankedCase is a candidate with its similarity to the query.
type RankedCase struct {
	CaseCandidate

	// Similarity is zero when ranking was not possible.
	Similarity float32 `json:"similarity"`
}

// CaseRanking is the result of ranking related cases.
type CaseRanking struct {
	// Cases are the selected candidates, most similar first when Ranked is true.
	Cases []RankedCase `json:"cases"`

	// Ranked is false when embeddings were unavailable and Cases is the
	// leading slice of the candidates in their original order.
	Ranked bool `json:"ranked"`

	// Warning explains why ranking was skipped.
	Warning string `json:"warning,omitempty"`
}
