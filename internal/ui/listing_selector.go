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

const selectorPageSize = 50

// listingConsumer is a view that resumes with the picked listing.
type listingConsumer interface {
	tea.Model
	acceptListing(models.Listing) (tea.Model, tea.Cmd)
}

type listingItem struct {
	listing models.Listing
}

func (i listingItem) Title() string {
	title := fmt.Sprintf("%s — %s", i.listing.Book.Title, i.listing.Book.Author)
	if !i.listing.IsOpen {
		title += " (closed)"
	}
	return title
}

func (i listingItem) Description() string {
	return fmt.Sprintf("%s • %s", i.listing.City.Name, i.listing.Condition)
}

func (i listingItem) FilterValue() string {
	return i.listing.Book.Title
}

type userListingsFetchedMsg struct {
	listings []models.Listing
	err      error
}

// ListingSelectorModel lets the user pick one of a user's open listings and
// hands it back to the consumer view.
type ListingSelectorModel struct {
	app          *App
	userID       int64
	consumer     listingConsumer
	list         list.Model
	loading      bool
	err          error
	errLine      string
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewListingSelectorModel(app *App, userID int64, title string, consumer listingConsumer) ListingSelectorModel {
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
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ListingSelectorModel{
		app:          app,
		userID:       userID,
		consumer:     consumer,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ListingSelectorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchListingsCmd())
}

func (m ListingSelectorModel) fetchListingsCmd() tea.Cmd {
	return func() tea.Msg {
		page, err := m.app.Client.UserListings(context.Background(), m.userID, 0, selectorPageSize)
		return userListingsFetchedMsg{listings: page.Content, err: err}
	}
}

func (m ListingSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case userListingsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		items := make([]list.Item, len(msg.listings))
		for i, listing := range msg.listings {
			items[i] = listingItem{listing: listing}
		}
		m.list.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			return m.consumer, nil
		}

		if msg.String() == "enter" && !m.loading {
			item, ok := m.list.SelectedItem().(listingItem)
			if !ok {
				return m, nil
			}
			if !item.listing.IsOpen {
				m.errLine = "This listing is closed and cannot be offered"
				return m, nil
			}
			return m.consumer.acceptListing(item.listing)
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ListingSelectorModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading listings...\n", m.spinner.View())
	}

	if m.err != nil {
		s := titleStyle.Render("Select a listing") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("esc: back")
		return s
	}

	s := ""
	if m.errLine != "" {
		s += errorStyle.Render(m.errLine) + "\n"
	}
	s += m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: select • /: search • esc: cancel")

	return s
}
