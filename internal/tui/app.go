// Package tui renders the auth form and the analysis workspace as a Bubble Tea
// program. All state lives in app.AuthFlow and app.Workspace; the model only
// owns widgets, focus and layout.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/history"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

const (
	sidebarWidth = 38
	// header line, blank line and help bar
	chromeHeight = 4
)

type focus int

const (
	focusContent focus = iota
	focusSidebar
)

// messages reported back by the commands in commands.go
type (
	mountedMsg    struct{ err error }
	authDoneMsg   struct{ err error }
	analyzedMsg   struct{ outcome app.Outcome }
	itemLoadedMsg struct {
		id  string
		err error
	}
	deletedMsg struct {
		id  string
		err error
	}
	loggedOutMsg struct{ err error }
)

type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	workspace *app.Workspace
	auth      *app.AuthFlow
	now       func() time.Time

	width   int
	height  int
	mounted bool
	focus   focus
	cursor  int    // index into the flattened sidebar history
	notice  string // transient message under the form
	shownID string // record currently loaded into the results viewport

	authInputs [authFieldCount]textinput.Model
	authFocus  int
	input      textarea.Model
	results    viewport.Model
	spinner    spinner.Model

	quitting bool
}

// NewModel builds the program model. Cancelling ctx, or quitting, aborts
// requests that are still running.
func NewModel(ctx context.Context, workspace *app.Workspace, auth *app.AuthFlow) Model {
	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = placeholderFor(model.InputText)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	m := Model{
		ctx:        ctx,
		cancel:     cancel,
		workspace:  workspace,
		auth:       auth,
		now:        time.Now,
		width:      120,
		height:     30,
		authInputs: newAuthInputs(),
		authFocus:  fieldEmail,
		input:      ta,
		results:    viewport.New(80, 20),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.authInputs[fieldEmail].Focus()
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink, mountCmd(m.ctx, m.workspace))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncFocus()
	m.syncResults()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mountedMsg:
		m.mounted = true
		return m, nil

	case authDoneMsg:
		if msg.err != nil {
			return m, nil
		}
		m.auth.Reset()
		m.authInputs = newAuthInputs()
		m.authFocus = fieldEmail
		m.authInputs[fieldEmail].Focus()
		m.focus = focusContent
		m.cursor = 0
		m.resize()
		return m, m.input.Focus()

	case analyzedMsg:
		switch msg.outcome.Kind {
		case app.OutcomeSuccess:
			m.input.Reset()
			m.notice = ""
			m.cursor = 0
		case app.OutcomeValidationError:
			m.notice = msg.outcome.Message
		}
		return m, nil

	case itemLoadedMsg:
		return m, nil

	case deletedMsg:
		if msg.err != nil && !errors.Is(msg.err, app.ErrBusy) && !errors.Is(msg.err, app.ErrSessionEnded) {
			m.notice = "Delete failed: " + msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case loggedOutMsg:
		m.authInputs = newAuthInputs()
		m.authFocus = fieldEmail
		m.authInputs[fieldEmail].Focus()
		m.auth.Reset()
		m.input.Reset()
		m.input.Placeholder = placeholderFor(m.workspace.Snapshot().InputMode)
		m.cursor = 0
		m.focus = focusContent
		m.notice = ""
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if !m.mounted {
			return m, nil
		}
		if !m.workspace.Snapshot().Authenticated {
			return m.updateAuth(msg)
		}
		return m.updateMain(msg)
	}

	// cursor blinks and other widget messages
	var cmd tea.Cmd
	if m.workspace.Snapshot().Authenticated {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	}
	return m, cmd
}

func (m Model) quit() (Model, tea.Cmd) {
	m.cancel()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updateMain(msg tea.KeyMsg) (Model, tea.Cmd) {
	state := m.workspace.Snapshot()

	switch msg.String() {
	case "ctrl+s":
		if state.View != app.ViewHome || state.Analyzing {
			return m, nil
		}
		m.workspace.SetInput(m.input.Value())
		m.notice = ""
		return m, analyzeCmd(m.ctx, m.workspace)

	case "ctrl+l":
		next := model.InputLink
		if state.InputMode == model.InputLink {
			next = model.InputText
		}
		m.workspace.SetInputMode(next)
		m.input.Placeholder = placeholderFor(next)
		m.notice = ""
		return m, nil

	case "ctrl+b":
		m.workspace.ToggleSidebar()
		m.resize()
		if state.SidebarOpen {
			m.focus = focusContent
			return m, m.input.Focus()
		}
		m.focus = focusSidebar
		m.input.Blur()
		m.clampCursor()
		return m, nil

	case "tab":
		if !state.SidebarOpen {
			break
		}
		if m.focus == focusSidebar {
			m.focus = focusContent
			return m, m.input.Focus()
		}
		m.focus = focusSidebar
		m.input.Blur()
		return m, nil

	case "ctrl+n":
		m.workspace.NewCheck()
		m.focus = focusContent
		m.notice = ""
		m.resize()
		return m, m.input.Focus()

	case "ctrl+t":
		m.workspace.ToggleTheme()
		return m, nil

	case "ctrl+x":
		if m.workspace.Busy(app.ActionLogout) {
			return m, nil
		}
		return m, logoutCmd(m.ctx, m.workspace)

	case "esc":
		switch {
		case state.Error != "":
			m.workspace.DismissError()
		case m.notice != "":
			m.notice = ""
		case m.focus == focusSidebar:
			m.workspace.CloseSidebar()
			m.focus = focusContent
			m.resize()
			return m, m.input.Focus()
		case state.View == app.ViewResults:
			m.workspace.GoHome()
			m.resize()
			return m, m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar && state.SidebarOpen {
		return m.updateSidebar(msg, state)
	}

	if state.View == app.ViewResults {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	if state.Error != "" {
		if msg.String() == "enter" {
			m.workspace.DismissError()
		}
		return m, nil
	}
	if state.Analyzing {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.workspace.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) updateSidebar(msg tea.KeyMsg, state app.State) (Model, tea.Cmd) {
	items := history.GroupByDate(state.History, m.now()).Flatten()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if len(items) == 0 {
			return m, nil
		}
		item := items[m.cursor]
		m.focus = focusContent
		m.notice = ""
		needsFetch := m.workspace.OpenHistoryItem(item)
		m.resize()
		if needsFetch {
			return m, fetchItemCmd(m.ctx, m.workspace, item.ID)
		}
	case "d", "delete":
		if len(items) == 0 {
			return m, nil
		}
		return m, deleteCmd(m.ctx, m.workspace, items[m.cursor].ID)
	}
	return m, nil
}

// syncFocus hands focus back to the content area once the workspace closed
// the sidebar on its own, e.g. after an analysis started.
func (m *Model) syncFocus() {
	if m.focus != focusSidebar {
		return
	}
	if !m.workspace.Snapshot().SidebarOpen {
		m.focus = focusContent
		m.input.Focus()
		m.resize()
	}
}

func (m *Model) syncResults() {
	state := m.workspace.Snapshot()
	if state.View != app.ViewResults || state.Selected == nil {
		m.shownID = ""
		return
	}
	m.results.SetContent(m.renderResults(*state.Selected, state))
	if state.Selected.ID != m.shownID {
		m.shownID = state.Selected.ID
		m.results.GotoTop()
	}
}

func (m *Model) clampCursor() {
	count := len(m.workspace.Snapshot().History)
	if m.cursor >= count {
		m.cursor = max(0, count-1)
	}
}

func (m *Model) resize() {
	width := m.contentWidth(m.workspace.Snapshot().SidebarOpen)
	m.input.SetWidth(max(20, width-4))
	m.input.SetHeight(max(3, min(10, m.height-16)))
	m.results.Width = width
	m.results.Height = max(5, m.height-chromeHeight)
}

func (m Model) contentWidth(sidebarOpen bool) int {
	width := m.width
	if sidebarOpen {
		width -= sidebarWidth
	}
	return max(30, width)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	state := m.workspace.Snapshot()
	p := paletteFor(state.Theme)

	if !m.mounted {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading...")
	}
	if !state.Authenticated {
		return m.viewAuth(p)
	}

	var b strings.Builder
	b.WriteString(m.viewHeader(state, p))
	b.WriteString("\n\n")

	content := m.viewContent(state, p)
	if state.SidebarOpen {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(state, p), content)
	}
	b.WriteString(content)

	// pad so the help bar sits at the bottom
	used := strings.Count(b.String(), "\n") + 1
	for i := used; i < m.height-1; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewHelp(state, p))
	return b.String()
}

func (m Model) viewHeader(state app.State, p palette) string {
	left := p.header.Render("Fake News Detection")
	right := p.dim.Render(string(state.Theme) + " theme")
	if name := state.User.DisplayName(); name != "" {
		right = p.text.Render(name) + p.dim.Render("  ·  ") + right
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) viewHelp(state app.State, p palette) string {
	var help string
	switch {
	case m.focus == focusSidebar && state.SidebarOpen:
		help = "  ↑↓: move  Enter: open  d: delete  Tab: content  Esc: close  Ctrl+B: sidebar"
	case state.Error != "":
		help = "  Esc: try again  Ctrl+B: history  Ctrl+X: logout  Ctrl+C: quit"
	case state.View == app.ViewResults:
		help = "  ↑↓: scroll  Esc: back  Ctrl+N: new check  Ctrl+B: history  Ctrl+T: theme  Ctrl+X: logout  Ctrl+C: quit"
	default:
		help = "  Ctrl+S: analyze  Ctrl+L: text/link  Ctrl+B: history  Ctrl+T: theme  Ctrl+X: logout  Ctrl+C: quit"
	}
	return p.help.Render(help)
}

func placeholderFor(mode model.InputMode) string {
	if mode == model.InputLink {
		return "Paste URL to analyze..."
	}
	return "Paste article text or claims to verify..."
}
