// Package tui is the terminal front end of the process-details view. It
// drives a procview.Controller from the bubbletea update loop; fetches run
// as commands and report back tagged with their cycle sequence number.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/Sternrassler/medshield-admin/pkg/procview"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ResolveUser returns the current user's name. An error or an empty name
// means nobody is signed in.
type ResolveUser func(ctx context.Context) (string, error)

type sessionMsg struct {
	session procview.Session
}

type fetchedMsg struct {
	result procview.Result
}

// Model is the bubbletea model of the process browser.
type Model struct {
	ctx     context.Context
	ctrl    *procview.Controller
	resolve ResolveUser
	session procview.Session

	cursor   int
	keys     keyMap
	styles   Styles
	spinner  spinner.Model
	viewport viewport.Model
}

// New creates a model over ctrl. ctx carries the API token and bounds
// every request the model issues.
func New(ctx context.Context, ctrl *procview.Controller, resolve ResolveUser) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = DefaultStyles().Cursor

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		resolve:  resolve,
		session:  procview.Session{Loading: true},
		keys:     defaultKeyMap(),
		styles:   DefaultStyles(),
		spinner:  s,
		viewport: viewport.New(80, 20),
	}
}

// Init starts the spinner and resolves the current user.
func (m Model) Init() tea.Cmd {
	m.ctrl.Begin(m.session)
	return tea.Batch(m.spinner.Tick, m.resolveSession())
}

func (m Model) resolveSession() tea.Cmd {
	ctx, resolve := m.ctx, m.resolve
	return func() tea.Msg {
		user, err := resolve(ctx)
		if err != nil {
			user = ""
		}
		return sessionMsg{session: procview.Session{User: user}}
	}
}

func (m Model) fetch(cycle procview.Cycle) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return fetchedMsg{result: ctrl.Fetch(ctx, cycle)}
	}
}

// start turns the outcome of Begin or SetPage into a command.
func (m Model) start(cycle procview.Cycle, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.fetch(cycle))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.refresh()
		return m, nil

	case sessionMsg:
		m.session = msg.session
		cmd := m.start(m.ctrl.Begin(m.session))
		m.refresh()
		return m, cmd

	case fetchedMsg:
		if m.ctrl.Apply(msg.result) {
			m.cursor = 0
			m.viewport.GotoTop()
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.State().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	state := m.ctrl.State()
	if state.Loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(state.Clusters)-1 {
			m.cursor++
			m.refresh()
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(state.Clusters) {
			m.ctrl.Expansion().Toggle(procview.ClusterKey(state.Clusters[m.cursor]))
			m.refresh()
		}
	case key.Matches(msg, m.keys.PrevPage):
		pager, visible := state.Pager()
		if visible && pager.HasPrev {
			cmd := m.start(m.ctrl.SetPage(pager.Prev(), m.session))
			return m, cmd
		}
	case key.Matches(msg, m.keys.NextPage):
		pager, visible := state.Pager()
		if visible && pager.HasNext {
			cmd := m.start(m.ctrl.SetPage(pager.Next(), m.session))
			return m, cmd
		}
	}
	return m, nil
}

// refresh re-renders the cluster list into the viewport and keeps the
// cursor line visible.
func (m *Model) refresh() {
	content, cursorLine := m.renderClusters()
	m.viewport.SetContent(content)

	switch {
	case cursorLine < m.viewport.YOffset:
		m.viewport.SetYOffset(cursorLine)
	case cursorLine >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}

func (m Model) renderClusters() (string, int) {
	state := m.ctrl.State()
	var b strings.Builder
	cursorLine, line := 0, 0

	writeln := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
		line++
	}

	for i, c := range state.Clusters {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Cursor.Render("> ")
			cursorLine = line
		}
		expanded := m.ctrl.Expansion().IsExpanded(procview.ClusterKey(c))
		sign := "+"
		if expanded {
			sign = "-"
		}
		writeln(fmt.Sprintf("%s%s %s %s", marker, sign, m.styles.Rep.Render(c.RepText),
			m.styles.Count.Render(fmt.Sprintf("(%d documents)", len(c.Documents)))))
		if !expanded {
			continue
		}
		for _, d := range c.Documents {
			m.renderDocument(d, writeln)
		}
	}
	return b.String(), cursorLine
}

func (m Model) renderDocument(d model.Document, writeln func(string)) {
	field := func(label, value string) {
		writeln("      " + m.styles.Label.Render(label+":") + " " + value)
	}
	writeln("    " + m.styles.Label.Render("Document "+d.ID))
	field("Priority", d.Priority)
	field("Subject", d.Subject)
	field("Category", d.Category)
	field("Standard", d.Standard)
	field("Original", d.OriginalText)
	if d.HasProcessedText() {
		writeln("      " + m.styles.Label.Render("Processed:") + " " + m.styles.Processed.Render(d.ProcessedText))
	}
}

func (m Model) renderPager() string {
	state := m.ctrl.State()
	pager, visible := state.Pager()
	if !visible {
		return ""
	}

	parts := make([]string, 0, len(pager.Pages)+2)
	if pager.HasPrev {
		parts = append(parts, m.styles.Page.Render("‹ Previous"))
	} else {
		parts = append(parts, m.styles.Disabled.Render("‹ Previous"))
	}
	for _, p := range pager.Pages {
		if p == pager.Current {
			parts = append(parts, m.styles.PageCur.Render(fmt.Sprint(p)))
		} else {
			parts = append(parts, m.styles.Page.Render(fmt.Sprint(p)))
		}
	}
	if pager.HasNext {
		parts = append(parts, m.styles.Page.Render("Next ›"))
	} else {
		parts = append(parts, m.styles.Disabled.Render("Next ›"))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

// View implements tea.Model.
func (m Model) View() string {
	state := m.ctrl.State()
	if state.Loading {
		return m.spinner.View() + " Loading...\n"
	}

	var b strings.Builder
	f := state.Filter
	b.WriteString(m.styles.Title.Render("Process details"))
	if f.Phase != "" || f.Role != "" {
		b.WriteString(m.styles.Filter.Render(fmt.Sprintf("  %s / %s", f.Phase, f.Role)))
	}
	b.WriteByte('\n')

	// A failed fetch keeps the previous page visible below the error.
	if msg := state.ErrorMessage(); msg != "" {
		b.WriteString(m.styles.Error.Render(msg))
		b.WriteByte('\n')
		if len(state.Clusters) == 0 {
			b.WriteByte('\n')
			b.WriteString(m.renderHelp())
			b.WriteByte('\n')
			return b.String()
		}
	}

	if len(state.Clusters) == 0 {
		b.WriteString(m.styles.Filter.Render("No documents found."))
		b.WriteByte('\n')
	} else {
		b.WriteString(m.viewport.View())
		b.WriteByte('\n')
	}

	if pager := m.renderPager(); pager != "" {
		b.WriteString(pager)
		b.WriteByte('\n')
	}
	b.WriteString(m.renderHelp())
	b.WriteByte('\n')
	return b.String()
}
