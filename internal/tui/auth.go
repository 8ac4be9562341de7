package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xfcbe/fake-news-detection/internal/app"
)

// auth form field indices
const (
	fieldFullName = iota
	fieldEmail
	fieldPassword
	authFieldCount
)

func newAuthInputs() [authFieldCount]textinput.Model {
	var inputs [authFieldCount]textinput.Model

	inputs[fieldFullName] = textinput.New()
	inputs[fieldFullName].Placeholder = "John Doe"
	inputs[fieldFullName].CharLimit = 120

	inputs[fieldEmail] = textinput.New()
	inputs[fieldEmail].Placeholder = "your@email.com"
	inputs[fieldEmail].CharLimit = 254

	inputs[fieldPassword] = textinput.New()
	inputs[fieldPassword].Placeholder = "••••••••"
	inputs[fieldPassword].CharLimit = 128
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	return inputs
}

// authFields lists the fields shown for mode, in tab order.
func authFields(mode app.AuthMode) []int {
	if mode == app.AuthSignup {
		return []int{fieldFullName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m Model) updateAuth(msg tea.KeyMsg) (Model, tea.Cmd) {
	state := m.auth.State()
	if state.Loading {
		return m, nil
	}
	fields := authFields(state.Mode)

	switch msg.String() {
	case "ctrl+l", "ctrl+o":
		next := app.AuthSignup
		if state.Mode == app.AuthSignup {
			next = app.AuthLogin
		}
		m.auth.SetMode(next)
		return m, m.focusAuthField(authFields(next)[0])

	case "tab", "down":
		return m, m.focusAuthField(fields[(indexOf(fields, m.authFocus)+1)%len(fields)])

	case "shift+tab", "up":
		return m, m.focusAuthField(fields[(indexOf(fields, m.authFocus)-1+len(fields))%len(fields)])

	case "enter":
		if m.authFocus != fields[len(fields)-1] {
			return m, m.focusAuthField(fields[indexOf(fields, m.authFocus)+1])
		}
		return m, submitCmd(m.ctx, m.auth)

	case "ctrl+s":
		return m, submitCmd(m.ctx, m.auth)

	case "ctrl+t":
		m.workspace.ToggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	value := m.authInputs[m.authFocus].Value()
	switch m.authFocus {
	case fieldFullName:
		m.auth.SetFullName(value)
	case fieldEmail:
		m.auth.SetEmail(value)
	case fieldPassword:
		m.auth.SetPassword(value)
	}
	return m, cmd
}

func (m *Model) focusAuthField(field int) tea.Cmd {
	for i := range m.authInputs {
		m.authInputs[i].Blur()
	}
	m.authFocus = field
	return m.authInputs[field].Focus()
}

func indexOf(fields []int, field int) int {
	for i, f := range fields {
		if f == field {
			return i
		}
	}
	return 0
}

func (m Model) viewAuth(p palette) string {
	state := m.auth.State()

	var b strings.Builder
	b.WriteString(p.title.Render("VeriNews"))
	b.WriteString("\n")
	b.WriteString(p.subtitle.Render(" AI-Powered Fact Checking"))
	b.WriteString("\n\n")

	login, signup := p.tab, p.tab
	if state.Mode == app.AuthSignup {
		signup = p.tabActive
	} else {
		login = p.tabActive
	}
	b.WriteString(login.Render("Login") + " " + signup.Render("Sign Up"))
	b.WriteString("\n\n")

	labels := map[int]string{
		fieldFullName: "Full Name",
		fieldEmail:    "Email",
		fieldPassword: "Password",
	}
	for _, field := range authFields(state.Mode) {
		label := p.label
		if field == m.authFocus {
			label = p.labelOn
		}
		fmt.Fprintf(&b, "%s %s\n\n", label.Render(labels[field]), m.authInputs[field].View())
	}

	switch {
	case state.Loading:
		verb := "Signing in..."
		if state.Mode == app.AuthSignup {
			verb = "Creating account..."
		}
		b.WriteString(m.spinner.View() + " " + verb)
	case state.Error != "":
		b.WriteString(p.errorText.Render(state.Error))
	}
	b.WriteString("\n\n")

	action := "Enter: sign in"
	if state.Mode == app.AuthSignup {
		action = "Enter: create account"
	}
	b.WriteString(p.help.Render(action + "  Tab: next field  Ctrl+L: login/sign up  Ctrl+C: quit"))

	box := p.box.Width(64).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
