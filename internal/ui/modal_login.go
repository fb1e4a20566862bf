package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"arcai/internal/session"
)

// LoginModal asks for a user name and API secret.
type LoginModal struct {
	name     textinput.Model
	secret   textinput.Model
	redirect string
	err      string
}

// Ensure LoginModal implements View.
var _ View = (*LoginModal)(nil)

// NewLoginModal creates a login modal that returns to redirect on submit.
func NewLoginModal(redirect string) *LoginModal {
	name := textinput.New()
	name.Placeholder = "name"
	name.Width = 40
	_ = name.Cursor.SetMode(cursor.CursorStatic)
	name.Focus()

	secret := textinput.New()
	secret.Placeholder = "secret"
	secret.Width = 40
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	_ = secret.Cursor.SetMode(cursor.CursorStatic)

	return &LoginModal{name: name, secret: secret, redirect: redirect}
}

// Redirect returns the path shown after a successful login.
func (m *LoginModal) Redirect() string { return m.redirect }

// Init implements View.
func (m *LoginModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *LoginModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, emit(DismissModalMsg{})
		case "tab", "shift+tab":
			m.toggle()
			return m, nil
		case "enter":
			if m.name.Focused() {
				m.toggle()
				return m, nil
			}
			secret := strings.TrimSpace(m.secret.Value())
			if secret == "" {
				m.err = "Secret is required"
				return m, nil
			}
			m.err = ""
			u := session.User{Name: strings.TrimSpace(m.name.Value()), Secret: secret}
			return m, emit(LoginSubmittedMsg{User: u, Redirect: m.redirect})
		}
	}

	var cmd tea.Cmd
	if m.name.Focused() {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.secret, cmd = m.secret.Update(msg)
	}
	return m, cmd
}

func (m *LoginModal) toggle() {
	if m.name.Focused() {
		m.name.Blur()
		m.secret.Focus()
		return
	}
	m.secret.Blur()
	m.name.Focus()
}

// View implements View.
func (m *LoginModal) View() string {
	content := Styles.Title.Render("Sign in") + "\n\n"
	content += Styles.FieldLabel.Render("Name") + "\n" + m.name.View() + "\n\n"
	content += Styles.FieldLabel.Render("Secret") + "\n" + m.secret.View() + "\n\n"
	if m.err != "" {
		content += Styles.Error.Render(m.err) + "\n\n"
	}
	content += Styles.Muted.Render("Tab: switch field  Enter: sign in  Esc: cancel")
	return Styles.Box.Render(content)
}
