package domain

// SummaryType selects the style of a document summary.
type SummaryType string

// Available summary types.
const (
	// SummaryBrief is a 3-5 sentence overview.
	SummaryBrief SummaryType = "brief"

	// SummaryDetailed is a structured multi-section analysis.
	SummaryDetailed SummaryType = "detailed"

	// SummaryKeyPoints is an enumerated list of key points.
	SummaryKeyPoints SummaryType = "key_points"
)

// SummaryTypes lists every summary type in display order.
func SummaryTypes() []SummaryType {
	return []SummaryType{SummaryBrief, SummaryDetailed, SummaryKeyPoints}
}

// IsValid returns true if the summary type is recognised.
func (t SummaryType) IsValid() bool {
	switch t {
	case SummaryBrief, SummaryDetailed, SummaryKeyPoints:
		return true
	default:
		return false
	}
}

// CacheField returns the record field the summary is cached under.
func (t SummaryType) CacheField() string {
	return "summary_" + string(t)
}

// String returns the string representation.
func (t SummaryType) String() string {
	return string(t)
}

// SummaryResult is returned by summary operations.
type SummaryResult struct {
	// DocIDs are the documents that were summarised.
	DocIDs []string

	// Type is the summary style.
	Type SummaryType

	// Summary is the generated text.
	Summary string

	// Cached is true when the summary came from the record cache.
	Cached bool
}
