package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swapshelf/swapshelf/internal/models"
)

type exchangeItem struct {
	exchange models.Exchange
}

func (i exchangeItem) Title() string {
	return fmt.Sprintf("%s ⇄ %s",
		i.exchange.OfferedListing.Book.Title,
		i.exchange.SelectedListing.Book.Title)
}

func (i exchangeItem) Description() string {
	return fmt.Sprintf("%s • %s", i.exchange.Status, i.exchange.CreatedAt.Format("Jan 2, 2006"))
}

func (i exchangeItem) FilterValue() string {
	return i.exchange.OfferedListing.Book.Title
}

type exchangesFetchedMsg struct {
	exchanges []models.Exchange
	err       error
}

// ExchangesModel lists the current user's exchanges with their status.
// Status changes happen in the dialog view; this is a read-only overview.
type ExchangesModel struct {
	app          *App
	exchanges    []models.Exchange
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewExchangesModel(app *App) ExchangesModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "My exchanges"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ExchangesModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ExchangesModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchExchangesCmd())
}

func (m ExchangesModel) fetchExchangesCmd() tea.Cmd {
	return func() tea.Msg {
		exchanges, err := m.app.Client.UserExchanges(context.Background())
		return exchangesFetchedMsg{exchanges: exchanges, err: err}
	}
}

func (m ExchangesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case exchangesFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.exchanges = msg.exchanges
		items := make([]list.Item, len(m.exchanges))
		for i, exchange := range m.exchanges {
			items[i] = exchangeItem{exchange: exchange}
		}
		m.list.SetItems(items)
		m.list.Title = fmt.Sprintf("My exchanges - %d", len(m.exchanges))
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			menuModel := NewMenuModel(m.app)
			if m.windowWidth > 0 {
				updatedModel, _ := menuModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				menuModel = updatedModel.(MenuModel)
			}
			return menuModel, menuModel.Init()
		}

		if msg.String() == "r" && !m.loading {
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchExchangesCmd())
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ExchangesModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading exchanges...\n", m.spinner.View())
	}

	if m.err != nil {
		s := titleStyle.Render("My exchanges") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back • q: quit")
		return s
	}

	if len(m.exchanges) == 0 {
		s := titleStyle.Render("My exchanges") + "\n\n"
		s += normalStyle.Render("  No exchanges yet.") + "\n"
		s += "\n" + helpStyle.Render("r: refresh • esc: back • q: quit")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • r: refresh • esc: back • q: quit")

	return s
}
