// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// ActionOption is an entry in the action menu.
type ActionOption int

const (
	ActionAsk ActionOption = iota
	ActionSummaryBrief
	ActionSummaryDetailed
	ActionSummaryKeyPoints
	ActionDelete
	ActionCancel
)

var actionLabels = map[ActionOption]string{
	ActionAsk:              "Ask a question",
	ActionSummaryBrief:     "Brief summary",
	ActionSummaryDetailed:  "Detailed summary",
	ActionSummaryKeyPoints: "Key points",
	ActionDelete:           "Delete document",
	ActionCancel:           "Cancel",
}

// View is the document list view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService
	indexService    driving.IndexService

	list          *list.DocumentList
	status        *status.Bar
	caseID        string
	width         int
	height        int
	err           error
	loading       bool
	showingMenu   bool
	menuSelected  ActionOption
	confirmDelete string
}

// NewView creates a document list view. indexService may be nil.
func NewView(s *styles.Styles, documentService driving.DocumentService, indexService driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		indexService:    indexService,
		list:            list.NewDocumentList(s),
		status:          status.NewBar(s, km.DocumentsHelp()...),
		width:           80,
		height:          24,
	}
}

// SetCase limits the list to one case. Empty lists all documents.
func (v *View) SetCase(caseID string) {
	v.caseID = caseID
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.status.SetState(status.StateLoading)
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	caseID := v.caseID
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}

		ctx := context.Background()
		docs, err := v.documentService.List(ctx, caseID)
		if err != nil {
			return messages.DocumentsLoaded{CaseID: caseID, Err: err}
		}

		var indexed map[string]bool
		if v.indexService != nil {
			indexed = make(map[string]bool, len(docs))
			for i := range docs {
				ok, err := v.indexService.Exists(ctx, docs[i].ID)
				if err != nil {
					indexed = nil
					break
				}
				indexed[docs[i].ID] = ok
			}
		}
		return messages.DocumentsLoaded{CaseID: caseID, Documents: docs, Indexed: indexed}
	}
}

func (v *View) deleteDocument(docID string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{DocumentID: docID, Err: fmt.Errorf("document service not available")}
		}
		err := v.documentService.Delete(context.Background(), docID)
		return messages.DocumentDeleted{DocumentID: docID, Err: err}
	}
}

// Update handles messages for the document list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirmDelete != "" {
			return v.handleConfirmKey(msg)
		}
		if v.showingMenu {
			return v.handleMenuKey(msg)
		}
		return v.handleKey(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.setErr(msg.Err)
			return v, nil
		}
		v.err = nil
		v.list.SetDocuments(msg.Documents, msg.Indexed)
		v.status.SetState(status.StateReady)
		v.status.SetMessage(fmt.Sprintf("%d documents", len(msg.Documents)))
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.setErr(msg.Err)
			return v, nil
		}
		return v, v.Init()

	case messages.ErrorOccurred:
		v.setErr(msg.Err)
		return v, nil
	}

	return v, nil
}

func (v *View) setErr(err error) {
	v.err = err
	v.status.SetError(domain.UserMessage(err))
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.Init()
	}

	if v.list.Count() == 0 {
		return v, nil
	}

	switch {
	case k == "enter":
		v.showingMenu = true
		v.menuSelected = ActionAsk
	case keymap.Matches(k, v.keymap.Toggle):
		v.list.Toggle()
	case keymap.Matches(k, v.keymap.Ask):
		return v, v.requestAsk()
	case keymap.Matches(k, v.keymap.Summarize):
		return v, v.requestSummary(domain.SummaryBrief)
	case keymap.Matches(k, v.keymap.Delete):
		v.startDelete()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) handleMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionAsk {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		v.showingMenu = false
		return v, v.runAction(v.menuSelected)
	case "esc":
		v.showingMenu = false
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	docID := v.confirmDelete
	v.confirmDelete = ""
	if msg.String() == "y" {
		v.status.SetState(status.StateLoading)
		return v, v.deleteDocument(docID)
	}
	v.status.SetState(status.StateReady)
	return v, nil
}

func (v *View) runAction(action ActionOption) tea.Cmd {
	switch action {
	case ActionAsk:
		return v.requestAsk()
	case ActionSummaryBrief:
		return v.requestSummary(domain.SummaryBrief)
	case ActionSummaryDetailed:
		return v.requestSummary(domain.SummaryDetailed)
	case ActionSummaryKeyPoints:
		return v.requestSummary(domain.SummaryKeyPoints)
	case ActionDelete:
		v.startDelete()
	case ActionCancel:
	}
	return nil
}

func (v *View) requestAsk() tea.Cmd {
	ids := v.list.Targets()
	return func() tea.Msg {
		return messages.AskRequested{DocIDs: ids}
	}
}

func (v *View) requestSummary(t domain.SummaryType) tea.Cmd {
	ids := v.list.Targets()
	return func() tea.Msg {
		return messages.SummaryRequested{DocIDs: ids, Type: t}
	}
}

// startDelete asks for confirmation before deleting the document under the cursor.
func (v *View) startDelete() {
	doc := v.list.SelectedDocument()
	if doc == nil {
		return
	}
	v.confirmDelete = doc.ID
	v.status.SetState(status.StateReady)
	v.status.SetMessage(fmt.Sprintf("Delete %s and its index? [y/N]", doc.Filename))
}

// View renders the document list.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Documents (%d)", v.list.Count())
	if v.caseID != "" {
		title = fmt.Sprintf("Documents in case %s (%d)", v.caseID, v.list.Count())
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
	default:
		b.WriteString(v.list.View())
		if marked := v.list.MarkedIDs(); len(marked) > 0 {
			b.WriteString("\n\n")
			b.WriteString(v.styles.Marked.Render(fmt.Sprintf("%d marked", len(marked))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderActionMenu() string {
	targets := v.list.Targets()
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(strings.Join(targets, ", ")))
	b.WriteString("\n\n")
	for opt := ActionAsk; opt <= ActionCancel; opt++ {
		if opt == v.menuSelected {
			b.WriteString(v.styles.Selected.Render("> " + actionLabels[opt]))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + actionLabels[opt]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] run  [esc] close"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
	v.status.SetWidth(width)
}

// List returns the underlying document list.
func (v *View) List() *list.DocumentList {
	return v.list
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
