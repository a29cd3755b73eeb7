package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

type MenuModel struct {
	app          *App
	list         list.Model
	windowWidth  int
	windowHeight int
}

// NewMenuModel creates the main menu shown after login.
func NewMenuModel(app *App) MenuModel {
	items := []list.Item{
		menuItem{title: "💬 Dialogs", desc: "Conversations about your and others' books"},
		menuItem{title: "📚 Browse listings", desc: "Search the book catalog"},
		menuItem{title: "🔁 My exchanges", desc: "Exchanges you proposed or received"},
		menuItem{title: "🚪 Log out", desc: "Clear the stored session"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(items, delegate, 80, 14)
	l.Title = "Swapshelf - Book Exchange Client"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		app:          app,
		list:         l,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

// handOff switches to the next view, replaying the current window size so
// the new view lays out correctly before the next resize event.
func (m MenuModel) handOff(next tea.Model) (tea.Model, tea.Cmd) {
	initCmd := next.Init()
	if m.windowWidth > 0 {
		resized, cmd := next.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		return resized, tea.Batch(initCmd, cmd)
	}
	return next, initCmd
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

		if msg.String() == "enter" {
			selectedItem, ok := m.list.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}

			switch selectedItem.title {
			case "💬 Dialogs":
				return m.handOff(NewDialogsModel(m.app))
			case "📚 Browse listings":
				return m.handOff(NewBrowseModel(m.app))
			case "🔁 My exchanges":
				return m.handOff(NewExchangesModel(m.app))
			case "🚪 Log out":
				m.app.Logout()
				return m.handOff(NewLoginModel(m.app))
			}
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: select • q: quit")
	return s
}
