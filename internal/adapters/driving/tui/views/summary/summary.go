// Package summary provides the summary view for the TUI.
package summary

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// View shows a summary of one or more documents.
type View struct {
	styles         *styles.Styles
	keymap         *keymap.KeyMap
	summaryService driving.SummaryService

	status       *status.Bar
	docIDs       []string
	summaryType  domain.SummaryType
	result       *domain.SummaryResult
	lines        []string
	scrollOffset int
	err          error
	loading      bool
	width        int
	height       int
}

// NewView creates a summary view.
func NewView(s *styles.Styles, summaryService driving.SummaryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:         s,
		keymap:         km,
		summaryService: summaryService,
		status:         status.NewBar(s, km.SummaryHelp()...),
		summaryType:    domain.SummaryBrief,
		width:          80,
		height:         24,
	}
}

// SetRequest targets the view and starts loading the summary.
func (v *View) SetRequest(docIDs []string, summaryType domain.SummaryType) tea.Cmd {
	v.docIDs = docIDs
	if !summaryType.IsValid() {
		summaryType = domain.SummaryBrief
	}
	v.summaryType = summaryType
	return v.load()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) load() tea.Cmd {
	v.result = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	v.status.SetState(status.StateSummarizing)

	docIDs := v.docIDs
	summaryType := v.summaryType
	return func() tea.Msg {
		if v.summaryService == nil {
			return messages.SummaryLoaded{Type: summaryType, Err: fmt.Errorf("summary service not available")}
		}

		ctx := context.Background()
		var (
			result *domain.SummaryResult
			err    error
		)
		if len(docIDs) == 1 {
			result, err = v.summaryService.Summarize(ctx, docIDs[0], summaryType)
		} else {
			result, err = v.summaryService.SummarizeMany(ctx, docIDs, summaryType)
		}
		return messages.SummaryLoaded{Type: summaryType, Result: result, Err: err}
	}
}

// Update handles messages for the summary view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SummaryLoaded:
		if msg.Type != v.summaryType {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.status.SetError(domain.UserMessage(msg.Err))
			return v, nil
		}
		v.result = msg.Result
		v.wrap()
		v.status.Clear()
		if msg.Result != nil && msg.Result.Cached {
			v.status.SetMessage("cached")
		}
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		v.status.SetError(domain.UserMessage(msg.Err))
		return v, nil
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case "tab":
		return v, v.selectType(nextType(v.summaryType))
	case "1":
		return v, v.selectType(domain.SummaryBrief)
	case "2":
		return v, v.selectType(domain.SummaryDetailed)
	case "3":
		return v, v.selectType(domain.SummaryKeyPoints)
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	}
	return v, nil
}

// selectType reloads the summary unless t is already shown or loading.
func (v *View) selectType(t domain.SummaryType) tea.Cmd {
	if t == v.summaryType && (v.loading || v.result != nil) {
		return nil
	}
	v.summaryType = t
	return v.load()
}

func nextType(t domain.SummaryType) domain.SummaryType {
	types := domain.SummaryTypes()
	for i, st := range types {
		if st == t {
			return types[(i+1)%len(types)]
		}
	}
	return domain.SummaryBrief
}

// wrap splits the summary into lines that fit the view width.
func (v *View) wrap() {
	if v.result == nil || v.result.Summary == "" {
		v.lines = nil
		return
	}
	width := v.width - 4
	if width < 20 {
		width = 20
	}
	wrapped := v.styles.Normal.Width(width).Render(v.result.Summary)
	v.lines = strings.Split(wrapped, "\n")
	if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

func (v *View) visibleLines() int {
	available := v.height - 7
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the summary view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(typeLabel(v.summaryType)))
	b.WriteString(" ")
	b.WriteString(v.styles.Muted.Render(strings.Join(v.docIDs, ", ")))
	if v.result != nil && v.result.Cached {
		b.WriteString(" ")
		b.WriteString(v.styles.Success.Render("(cached)"))
	}
	b.WriteString("\n")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Generating summary..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No summary)"))
	default:
		end := v.scrollOffset + v.visibleLines()
		if end > len(v.lines) {
			end = len(v.lines)
		}
		b.WriteString(v.styles.Answer.Render(strings.Join(v.lines[v.scrollOffset:end], "\n")))
		if len(v.lines) > v.visibleLines() {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
				v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderTabs() string {
	tabs := make([]string, 0, 3)
	for i, t := range domain.SummaryTypes() {
		label := fmt.Sprintf("[%d] %s", i+1, typeLabel(t))
		if t == v.summaryType {
			tabs = append(tabs, v.styles.Subtitle.Render(label))
		} else {
			tabs = append(tabs, v.styles.Muted.Render(label))
		}
	}
	return strings.Join(tabs, "  ")
}

func typeLabel(t domain.SummaryType) string {
	switch t {
	case domain.SummaryDetailed:
		return "Detailed summary"
	case domain.SummaryKeyPoints:
		return "Key points"
	default:
		return "Brief summary"
	}
}

// SetDimensions sets the view dimensions and rewraps the summary.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.status.SetWidth(width)
	v.wrap()
}

// SummaryType returns the summary type shown.
func (v *View) SummaryType() domain.SummaryType {
	return v.summaryType
}

// Result returns the loaded summary.
func (v *View) Result() *domain.SummaryResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
