package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/views/summary"
)

// App is the main TUI application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView      *menu.View
	documentsView *documents.View
	askView       *ask.View
	summaryView   *summary.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		documentsView: documents.NewView(s, ports.Document, ports.Index),
		askView:       ask.NewView(s, ports.Query),
		summaryView:   summary.NewView(s, ports.Summary),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context that stops the program when cancelled.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithCase limits the document list to one case.
func (a *App) WithCase(caseID string) *App {
	a.documentsView.SetCase(caseID)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("lexrag")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.String() == "esc" || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			return a, a.documentsView.Init()
		}
		return a, nil

	case messages.AskRequested:
		a.askView.SetDocuments(msg.DocIDs)
		a.currentView = messages.ViewAsk
		return a, a.askView.Init()

	case messages.SummaryRequested:
		a.currentView = messages.ViewSummary
		return a, a.summaryView.SetRequest(msg.DocIDs, msg.Type)

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.SummaryLoaded:
		a.err = msg.Err
		a.summaryView, cmd = a.summaryView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewSummary:
		a.summaryView, cmd = a.summaryView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewSummary:
		return a.summaryView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Global:
  ctrl+c      Quit

Documents:
  j/k, ↑/↓    Move cursor
  space, x    Mark document
  enter       Actions
  a           Ask about marked documents (or the one under the cursor)
  s           Brief summary
  d           Delete document and its index
  r           Refresh
  esc         Back to menu

Ask:
  (type)      Enter question
  enter       Ask
  esc         Back to documents

Summary:
  tab, 1-3    Switch summary type
  j/k, g/G    Scroll
  esc         Back to documents

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a service call.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.summaryView.SetDimensions(width, height)
}
