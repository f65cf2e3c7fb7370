// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// View asks questions about one or more documents.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	queryService driving.QueryService

	input    *input.QuestionInput
	status   *status.Bar
	docIDs   []string
	question string
	result   *domain.AskResult
	err      error
	asking   bool
	width    int
	height   int
}

// NewView creates an ask view.
func NewView(s *styles.Styles, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:       s,
		keymap:       km,
		queryService: queryService,
		input:        input.NewQuestionInput(s),
		status:       status.NewBar(s, km.AskHelp()...),
		width:        80,
		height:       24,
	}
}

// SetDocuments targets the view at docIDs and clears the previous answer.
func (v *View) SetDocuments(docIDs []string) {
	v.docIDs = docIDs
	v.question = ""
	v.result = nil
	v.err = nil
	v.asking = false
	v.input.Reset()
	v.status.Clear()
}

// Init focuses the question input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// ask returns a command answering question over the current documents.
func (v *View) ask(question string) tea.Cmd {
	docIDs := v.docIDs
	return func() tea.Msg {
		if v.queryService == nil {
			return messages.AnswerReceived{Question: question, Err: fmt.Errorf("query service not available")}
		}

		ctx := context.Background()
		var (
			result *domain.AskResult
			err    error
		)
		if len(docIDs) == 1 {
			result, err = v.queryService.Ask(ctx, question, docIDs[0])
		} else {
			result, err = v.queryService.AskMany(ctx, question, docIDs)
		}
		return messages.AnswerReceived{Question: question, Result: result, Err: err}
	}
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		v.asking = false
		if msg.Question != v.question {
			return v, nil
		}
		if msg.Err != nil {
			v.err = msg.Err
			v.result = nil
			v.status.SetError(domain.UserMessage(msg.Err))
			return v, nil
		}
		v.err = nil
		v.result = msg.Result
		v.status.Clear()
		v.input.Reset()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.status.SetError(domain.UserMessage(msg.Err))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "enter":
		question := v.input.Value()
		if question == "" || v.asking || len(v.docIDs) == 0 {
			return v, nil
		}
		v.question = question
		v.asking = true
		v.err = nil
		v.status.SetState(status.StateThinking)
		return v, v.ask(question)
	}

	if v.asking {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the ask view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ask"))
	b.WriteString(" ")
	b.WriteString(v.styles.Muted.Render(strings.Join(v.docIDs, ", ")))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.asking:
		b.WriteString(v.styles.Muted.Render("Q: " + v.question))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
	case v.result != nil:
		b.WriteString(v.renderAnswer())
	}

	b.WriteString("\n\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderAnswer() string {
	width := v.width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Q: " + v.question))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Answer.Width(width).Render(v.result.Answer))

	if len(v.result.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("Sources:"))
		for _, line := range sourceLines(v.result.Sources) {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("  " + line))
		}
	}
	return b.String()
}

// sourceLines formats passage counts per document, sorted by ID.
func sourceLines(sources map[string]int) []string {
	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		noun := "passages"
		if sources[id] == 1 {
			noun = "passage"
		}
		lines = append(lines, fmt.Sprintf("%s: %d %s", id, sources[id], noun))
	}
	return lines
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.status.SetWidth(width)
}

// DocIDs returns the documents questions are asked about.
func (v *View) DocIDs() []string {
	return v.docIDs
}

// Result returns the last answer.
func (v *View) Result() *domain.AskResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
