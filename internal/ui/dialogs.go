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

type dialogTab int

const (
	tabOutgoing dialogTab = iota // dialogs about other people's listings
	tabIncoming                  // dialogs about my listings
)

type dialogItem struct {
	dialog models.Dialog
}

func (i dialogItem) Title() string {
	return fmt.Sprintf("%s — %s", i.dialog.BookTitle, i.dialog.BookAuthor)
}

func (i dialogItem) Description() string {
	if i.dialog.LastMessageContent == "" {
		return "no messages yet"
	}
	preview := i.dialog.LastMessageContent
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	return fmt.Sprintf("%s: %s", i.dialog.LastMessageAuthor, preview)
}

func (i dialogItem) FilterValue() string {
	return i.dialog.BookTitle
}

type dialogsFetchedMsg struct {
	dialogs []models.Dialog
	err     error
}

type dialogFetchedMsg struct {
	dialog models.Dialog
	err    error
}

type DialogsModel struct {
	app          *App
	dialogs      []models.Dialog
	tab          dialogTab
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int

	// openDialogID, when set, jumps straight into that conversation once
	// the dialog list arrives. Backs the `swapshelf dialog <id>` deep link.
	openDialogID int64
}

// NewDialogsModel creates the dialog list view, outgoing tab first.
func NewDialogsModel(app *App) DialogsModel {
	return newDialogsModel(app, 0)
}

// NewDialogsModelOpening creates the dialog list and opens the given dialog
// as soon as the list loads.
func NewDialogsModelOpening(app *App, dialogID int64) DialogsModel {
	return newDialogsModel(app, dialogID)
}

func newDialogsModel(app *App, openDialogID int64) DialogsModel {
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
	l.Title = "Dialogs"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return DialogsModel{
		app:          app,
		tab:          tabOutgoing,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
		openDialogID: openDialogID,
	}
}

func (m DialogsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchDialogsCmd())
}

func (m DialogsModel) fetchDialogsCmd() tea.Cmd {
	return func() tea.Msg {
		dialogs, err := m.app.Client.Dialogs(context.Background())
		return dialogsFetchedMsg{dialogs: dialogs, err: err}
	}
}

func (m DialogsModel) fetchDialogCmd(dialogID int64) tea.Cmd {
	return func() tea.Msg {
		dialog, err := m.app.Client.Dialog(context.Background(), dialogID)
		return dialogFetchedMsg{dialog: dialog, err: err}
	}
}

// visibleDialogs partitions on listing ownership: dialogs about my own
// listings are incoming, everything else is outgoing. The two sets are
// disjoint by construction.
func (m DialogsModel) visibleDialogs() []models.Dialog {
	currentUserID := m.app.CurrentUserID()
	var visible []models.Dialog
	for _, dialog := range m.dialogs {
		mine := dialog.ListingOwnerID == currentUserID
		if (m.tab == tabIncoming) == mine {
			visible = append(visible, dialog)
		}
	}
	return visible
}

func (m *DialogsModel) refreshItems() {
	visible := m.visibleDialogs()
	items := make([]list.Item, len(visible))
	for i, dialog := range visible {
		items[i] = dialogItem{dialog: dialog}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m DialogsModel) openDialog(dialog models.Dialog) (tea.Model, tea.Cmd) {
	m.app.rememberDialog(dialog.DialogID)
	messagesModel := NewMessagesModel(m.app, dialog)
	if m.windowWidth > 0 {
		updatedModel, _ := messagesModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		messagesModel = updatedModel.(MessagesModel)
	}
	return messagesModel, messagesModel.Init()
}

func (m DialogsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 6)
		return m, nil

	case dialogsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.dialogs = msg.dialogs

		if m.openDialogID != 0 {
			for _, dialog := range m.dialogs {
				if dialog.DialogID == m.openDialogID {
					m.openDialogID = 0
					return m.openDialog(dialog)
				}
			}
			// Not in the list; the dialog may still exist, fetch it directly.
			id := m.openDialogID
			m.openDialogID = 0
			m.refreshItems()
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchDialogCmd(id))
		}

		m.refreshItems()
		return m, nil

	case dialogFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = fmt.Errorf("open dialog: %w", msg.err)
			return m, nil
		}
		return m.openDialog(msg.dialog)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
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

		if msg.String() == "tab" || msg.String() == "left" || msg.String() == "right" {
			if m.tab == tabOutgoing {
				m.tab = tabIncoming
			} else {
				m.tab = tabOutgoing
			}
			m.refreshItems()
			return m, nil
		}

		if msg.String() == "r" && !m.loading {
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchDialogsCmd())
		}

		if msg.String() == "enter" && !m.loading {
			if item, ok := m.list.SelectedItem().(dialogItem); ok {
				return m.openDialog(item.dialog)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DialogsModel) tabsLine() string {
	outgoing := "Outgoing"
	incoming := "My listings"
	if m.tab == tabOutgoing {
		return tabActiveStyle.Render(outgoing) + "  " + tabInactiveStyle.Render(incoming)
	}
	return tabInactiveStyle.Render(outgoing) + "  " + tabActiveStyle.Render(incoming)
}

func (m DialogsModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading dialogs...\n", m.spinner.View())
	}

	if m.err != nil {
		s := titleStyle.Render("Dialogs") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("r: retry • esc: back • q: quit")
		return s
	}

	s := m.tabsLine() + "\n"

	if len(m.visibleDialogs()) == 0 {
		s += "\n" + normalStyle.Render("  No dialogs here yet.") + "\n"
		s += "\n" + helpStyle.Render("tab: switch tab • r: refresh • esc: back • q: quit")
		return s
	}

	s += m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: open • tab: switch tab • /: search • r: refresh • esc: back • q: quit")

	return s
}
