// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// DocumentList displays uploaded documents with a cursor and marks.
type DocumentList struct {
	documents []domain.DocumentRecord
	indexed   map[string]bool
	marked    map[string]bool
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewDocumentList creates an empty document list.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		marked: make(map[string]bool),
		styles: s,
		width:  80,
		height: 20,
	}
}

// Update handles cursor movement.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.documents) > 0 {
				l.selected = len(l.documents) - 1
			}
		}
	}
	return l, nil
}

// View renders the visible part of the list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No documents uploaded")
	}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.documents) {
		end = len(l.documents)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &l.documents[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *DocumentList) renderRow(index int, doc *domain.DocumentRecord) string {
	cursor := "  "
	if index == l.selected {
		cursor = "> "
	}
	mark := "[ ]"
	if l.marked[doc.ID] {
		mark = "[x]"
	}

	name := doc.Filename
	maxName := l.width - 40
	if maxName < 12 {
		maxName = 12
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}

	row := fmt.Sprintf("%s%s %-*s  %s", cursor, mark, maxName, name, doc.ID)
	if doc.CaseID != "" {
		row += "  case " + doc.CaseID
	}

	var tail string
	if l.indexed != nil && !l.indexed[doc.ID] {
		tail = "  " + l.styles.Warning.Render("not indexed")
	}

	switch {
	case index == l.selected:
		return l.styles.Selected.Render(row) + tail
	case l.marked[doc.ID]:
		return l.styles.Marked.Render(row) + tail
	default:
		return l.styles.Normal.Render(row) + tail
	}
}

// SetDocuments replaces the list contents.
// Marks on documents that are gone are dropped.
func (l *DocumentList) SetDocuments(docs []domain.DocumentRecord, indexed map[string]bool) {
	l.documents = docs
	l.indexed = indexed

	present := make(map[string]bool, len(docs))
	for i := range docs {
		present[docs[i].ID] = true
	}
	for id := range l.marked {
		if !present[id] {
			delete(l.marked, id)
		}
	}

	if l.selected >= len(docs) {
		l.selected = len(docs) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Documents returns the listed documents.
func (l *DocumentList) Documents() []domain.DocumentRecord {
	return l.documents
}

// SelectedDocument returns the document under the cursor, or nil.
func (l *DocumentList) SelectedDocument() *domain.DocumentRecord {
	if l.selected < 0 || l.selected >= len(l.documents) {
		return nil
	}
	return &l.documents[l.selected]
}

// Selected returns the cursor index.
func (l *DocumentList) Selected() int {
	return l.selected
}

// Toggle flips the mark on the document under the cursor.
func (l *DocumentList) Toggle() {
	doc := l.SelectedDocument()
	if doc == nil {
		return
	}
	if l.marked[doc.ID] {
		delete(l.marked, doc.ID)
	} else {
		l.marked[doc.ID] = true
	}
}

// MarkedIDs returns the marked document IDs in list order.
func (l *DocumentList) MarkedIDs() []string {
	ids := make([]string, 0, len(l.marked))
	for i := range l.documents {
		if l.marked[l.documents[i].ID] {
			ids = append(ids, l.documents[i].ID)
		}
	}
	return ids
}

// Targets returns the marked IDs, or the document under the cursor when none are marked.
func (l *DocumentList) Targets() []string {
	if ids := l.MarkedIDs(); len(ids) > 0 {
		return ids
	}
	if doc := l.SelectedDocument(); doc != nil {
		return []string{doc.ID}
	}
	return nil
}

// MoveUp moves the cursor up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the cursor down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}
