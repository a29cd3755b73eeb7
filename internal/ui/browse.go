package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/swapshelf/swapshelf/internal/api"
	"github.com/swapshelf/swapshelf/internal/models"
)

const browsePageSize = 20

type catalogFetchedMsg struct {
	page models.ListingPage
	err  error
}

type listingDetailFetchedMsg struct {
	listing models.Listing
	err     error
}

// BrowseModel is the paged public catalog with a server-side title filter.
type BrowseModel struct {
	app          *App
	page         models.ListingPage
	pageIndex    int
	filter       api.ListingFilter
	list         list.Model
	filterInput  textinput.Model
	filtering    bool
	detail       *models.Listing
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewBrowseModel(app *App) BrowseModel {
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
	l.Title = "Book catalog"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	fi := textinput.New()
	fi.Placeholder = "title contains..."
	fi.CharLimit = 120

	return BrowseModel{
		app:          app,
		list:         l,
		filterInput:  fi,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCatalogCmd(0, m.filter))
}

func (m BrowseModel) fetchCatalogCmd(pageIndex int, filter api.ListingFilter) tea.Cmd {
	return func() tea.Msg {
		page, err := m.app.Client.Listings(context.Background(), pageIndex, browsePageSize, filter)
		return catalogFetchedMsg{page: page, err: err}
	}
}

func (m BrowseModel) fetchDetailCmd(listingID int64) tea.Cmd {
	return func() tea.Msg {
		listing, err := m.app.Client.Listing(context.Background(), listingID)
		return listingDetailFetchedMsg{listing: listing, err: err}
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 6)
		return m, nil

	case catalogFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.page = msg.page
		m.pageIndex = msg.page.Number
		items := make([]list.Item, len(msg.page.Content))
		for i, listing := range msg.page.Content {
			items[i] = listingItem{listing: listing}
		}
		m.list.SetItems(items)
		m.list.ResetSelected()
		return m, nil

	case listingDetailFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		listing := msg.listing
		m.detail = &listing
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

		if m.filtering {
			switch msg.String() {
			case "esc":
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			case "enter":
				m.filtering = false
				m.filterInput.Blur()
				m.filter.Title = strings.TrimSpace(m.filterInput.Value())
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchCatalogCmd(0, m.filter))
			default:
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				return m, cmd
			}
		}

		if m.detail != nil {
			if msg.String() == "esc" || msg.String() == "enter" || msg.String() == "q" {
				m.detail = nil
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "esc":
			menuModel := NewMenuModel(m.app)
			if m.windowWidth > 0 {
				updatedModel, _ := menuModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				menuModel = updatedModel.(MenuModel)
			}
			return menuModel, menuModel.Init()

		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink

		case "]", "right":
			if !m.loading && !m.page.Last {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchCatalogCmd(m.pageIndex+1, m.filter))
			}
			return m, nil

		case "[", "left":
			if !m.loading && m.pageIndex > 0 {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchCatalogCmd(m.pageIndex-1, m.filter))
			}
			return m, nil

		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchCatalogCmd(m.pageIndex, m.filter))
			}
			return m, nil

		case "enter":
			// The list row may be stale; fetch the listing fresh.
			if item, ok := m.list.SelectedItem().(listingItem); ok && !m.loading {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.fetchDetailCmd(item.listing.ID))
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m BrowseModel) detailView() string {
	listing := m.detail
	s := titleStyle.Render(fmt.Sprintf("%s — %s", listing.Book.Title, listing.Book.Author)) + "\n\n"
	s += normalStyle.Render(fmt.Sprintf("City: %s", listing.City.Name)) + "\n"
	s += normalStyle.Render(fmt.Sprintf("Condition: %s", listing.Condition)) + "\n"
	s += normalStyle.Render(fmt.Sprintf("Owner: %s", listing.Owner.Name)) + "\n"
	if !listing.IsOpen {
		s += errorStyle.Render("This listing is closed") + "\n"
	}
	if listing.Book.Description != "" {
		s += "\n" + normalStyle.Render(wordwrap.String(listing.Book.Description, 70)) + "\n"
	}
	for _, imageURL := range listing.ImageURLs {
		s += messageHeaderStyle.Render(fmt.Sprintf("🖼 %s", imageURL)) + "\n"
	}
	s += "\n" + helpStyle.Render("esc: back to catalog")
	return s
}

func (m BrowseModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading catalog...\n", m.spinner.View())
	}

	if m.err != nil {
		s := titleStyle.Render("Book catalog") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back • q: quit")
		return s
	}

	if m.detail != nil {
		return m.detailView()
	}

	if m.filtering {
		s := inputStyle.Render("Filter by title:") + "\n"
		s += m.filterInput.View() + "\n"
		s += helpStyle.Render("enter: apply • esc: cancel")
		return s
	}

	s := m.list.View() + "\n"
	pageLine := fmt.Sprintf("page %d/%d", m.pageIndex+1, max(m.page.TotalPages, 1))
	if m.filter.Title != "" {
		pageLine += fmt.Sprintf(" • filter: %q", m.filter.Title)
	}
	s += messageHeaderStyle.Render(pageLine) + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: detail • [ ]: page • /: filter • r: refresh • esc: back • q: quit")

	return s
}
