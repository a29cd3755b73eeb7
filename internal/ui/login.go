package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapshelf/swapshelf/internal/session"
)

type loggedInMsg struct {
	session *session.Session
	err     error
}

type LoginModel struct {
	app          *App
	inputs       []textinput.Model
	focusIndex   int
	submitting   bool
	spinner      spinner.Model
	err          error
	windowWidth  int
	windowHeight int
}

// NewLoginModel creates the email/password login form.
func NewLoginModel(app *App) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		app:          app,
		inputs:       []textinput.Model{email, password},
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		pair, err := m.app.Client.Login(ctx, email, password)
		if err != nil {
			return loggedInMsg{err: err}
		}

		sess, err := session.FromTokens(pair.AccessToken, pair.RefreshToken)
		if err != nil {
			return loggedInMsg{err: err}
		}

		m.app.Client.SetToken(sess.AccessToken)

		// The profile endpoint is authoritative for identity; token claims
		// only bootstrap it.
		if user, err := m.app.Client.Profile(ctx); err == nil {
			sess.UserID = user.ID
			sess.UserName = user.Name
		}

		if err := session.Save(m.app.DataDir, sess); err != nil {
			return loggedInMsg{err: err}
		}

		return loggedInMsg{session: sess}
	}
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case loggedInMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.app.Session = msg.session
		menuModel := NewMenuModel(m.app)
		if m.windowWidth > 0 {
			updatedModel, _ := menuModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			menuModel = updatedModel.(MenuModel)
		}
		return menuModel, menuModel.Init()

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}
			if m.focusIndex >= len(m.inputs) {
				m.focusIndex = 0
			}

			var cmds []tea.Cmd
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds = append(cmds, m.inputs[i].Focus())
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, tea.Batch(cmds...)

		case "enter", "ctrl+s":
			email := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if email == "" || password == "" {
				m.err = fmt.Errorf("email and password are required")
				return m, nil
			}

			m.err = nil
			m.submitting = true
			return m, tea.Batch(m.spinner.Tick, m.loginCmd(email, password))
		}

		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m LoginModel) View() string {
	s := titleStyle.Render("Swapshelf - Sign In") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	s += inputStyle.Render("Email:") + "\n"
	s += m.inputs[0].View() + "\n\n"
	s += inputStyle.Render("Password:") + "\n"
	s += m.inputs[1].View() + "\n\n"

	if m.submitting {
		s += fmt.Sprintf("%s Signing in...\n", m.spinner.View())
	} else {
		s += helpStyle.Render("tab: next field • enter: sign in • ctrl+c: quit")
	}

	return s
}
