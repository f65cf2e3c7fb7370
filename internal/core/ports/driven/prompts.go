package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystem is the system prompt for grounded answers.
	// The template expects one %s placeholder for the context block.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerMultiDoc is appended to the system prompt when the context
	// spans several documents. It has no placeholders.
	PromptAnswerMultiDoc = "answer_multi_doc"

	// PromptSummaryBrief is the template for brief summaries.
	// The template expects one %s placeholder for the text.
	PromptSummaryBrief = "summary_brief"

	// PromptSummaryDetailed is the template for detailed summaries.
	PromptSummaryDetailed = "summary_detailed"

	// PromptSummaryKeyPoints is the template for key point summaries.
	PromptSummaryKeyPoints = "summary_key_points"

	// PromptSummaryCombined prefixes summaries spanning several documents.
	// The template expects one %d placeholder for the document count.
	PromptSummaryCombined = "summary_combined"
)
