package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/swapshelf/swapshelf/internal/api"
	"github.com/swapshelf/swapshelf/internal/models"
)

// maxAttachments caps images per outgoing message, mirroring the shared
// image picker limit.
const maxAttachments = 5

type feedFetchedMsg struct {
	gen      int
	page     int
	replace  bool
	messages []models.Message
	err      error
}

type messageSentMsg struct {
	err error
}

type exchangeProposedMsg struct {
	err error
}

type exchangeDecidedMsg struct {
	approved bool
	err      error
}

type MessagesModel struct {
	app    *App
	dialog models.Dialog

	// messages is the loaded window in chronological order. page is the
	// next backward page index; hasMore is inferred from a full last page
	// since the backend exposes no total.
	messages    []models.Message
	page        int
	hasMore     bool
	loadingMore bool

	// feedGen tags every fetch with the generation it was issued under.
	// Results for a stale generation are dropped, so a slow response for an
	// abandoned reload can never overwrite newer state.
	feedGen int

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	loading   bool
	sending   bool
	composing bool

	attaching   bool
	attachInput textinput.Model
	images      []string

	stagedOffer *models.Listing

	errLine      string
	infoLine     string
	windowWidth  int
	windowHeight int
}

// NewMessagesModel opens a conversation. Feed state always starts empty:
// switching dialogs must never show another dialog's messages, even
// momentarily.
func NewMessagesModel(app *App, dialog models.Dialog) MessagesModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.SetValue(app.draftFor(dialog.DialogID))

	ai := textinput.New()
	ai.Placeholder = "/path/to/image.jpg"
	ai.CharLimit = 500

	return MessagesModel{
		app:          app,
		dialog:       dialog,
		page:         0,
		hasMore:      true,
		viewport:     vp,
		textarea:     ta,
		attachInput:  ai,
		spinner:      s,
		loading:      true,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m MessagesModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadFeedCmd(m.feedGen, 0, true))
}

func (m MessagesModel) loadFeedCmd(gen, page int, replace bool) tea.Cmd {
	return func() tea.Msg {
		messages, err := m.app.Client.Messages(context.Background(), m.dialog.DialogID, page)
		return feedFetchedMsg{gen: gen, page: page, replace: replace, messages: messages, err: err}
	}
}

func (m MessagesModel) sendMessageCmd(content string, images []string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Client.SendMessage(context.Background(), m.dialog.ListingID, content, images)
		return messageSentMsg{err: err}
	}
}

func (m MessagesModel) proposeExchangeCmd(offeredListingID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Client.ProposeExchange(context.Background(), m.dialog.ListingID, offeredListingID)
		return exchangeProposedMsg{err: err}
	}
}

func (m MessagesModel) decideExchangeCmd(exchangeID int64, approve bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if approve {
			err = m.app.Client.ApproveExchange(context.Background(), exchangeID)
		} else {
			err = m.app.Client.RejectExchange(context.Background(), exchangeID)
		}
		return exchangeDecidedMsg{approved: approve, err: err}
	}
}

func (m MessagesModel) isOwner() bool {
	return m.dialog.ListingOwnerID == m.app.CurrentUserID()
}

// newestPendingExchange returns the most recent pending proposal in the
// loaded window, the one the a/x keys act on.
func (m MessagesModel) newestPendingExchange() *models.Exchange {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.IsExchangeProposal && msg.Exchange.Status == models.ExchangePending {
			return msg.Exchange
		}
	}
	return nil
}

// newestApprovedTarget returns the counterpart listing of the most recent
// approved exchange: the book this viewer receives.
func (m MessagesModel) newestApprovedTarget() *models.Listing {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.IsExchangeProposal && msg.Exchange.Status == models.ExchangeApproved {
			return m.counterpartListing(msg.Exchange)
		}
	}
	return nil
}

func (m MessagesModel) counterpartListing(exchange *models.Exchange) *models.Listing {
	if m.isOwner() {
		return &exchange.OfferedListing
	}
	return &exchange.SelectedListing
}

// reloadReplace issues a fresh page-0 fetch under a new generation. The
// current window stays visible until the replacement arrives.
func (m *MessagesModel) reloadReplace() tea.Cmd {
	m.feedGen++
	m.loading = true
	m.loadingMore = false
	m.page = 0
	m.hasMore = true
	return tea.Batch(m.spinner.Tick, m.loadFeedCmd(m.feedGen, 0, true))
}

// send dispatches exactly one composer action. A staged offer takes
// precedence over typed text; the text stays in the textarea unsent.
func (m MessagesModel) send() (MessagesModel, tea.Cmd) {
	if m.stagedOffer != nil {
		m.sending = true
		m.errLine = ""
		m.infoLine = ""
		return m, tea.Batch(m.spinner.Tick, m.proposeExchangeCmd(m.stagedOffer.ID))
	}

	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" && len(m.images) == 0 {
		m.errLine = "Message is empty"
		return m, nil
	}

	m.sending = true
	m.errLine = ""
	m.infoLine = ""
	return m, tea.Batch(m.spinner.Tick, m.sendMessageCmd(text, m.images))
}

// acceptListing receives the listing picked in the selector and stages it
// as the outgoing exchange offer.
func (m MessagesModel) acceptListing(listing models.Listing) (tea.Model, tea.Cmd) {
	m.stagedOffer = &listing
	m.errLine = ""
	m.infoLine = ""
	return m, nil
}

// mergeOlderPage prepends an older page, dropping rows already in the
// window. Index paging can re-serve rows when new messages arrive between
// fetches; deduplication by id absorbs that.
func (m *MessagesModel) mergeOlderPage(page []models.Message) {
	seen := make(map[int64]bool, len(m.messages))
	for _, msg := range m.messages {
		seen[msg.MessageID] = true
	}

	var fresh []models.Message
	for _, msg := range page {
		if !seen[msg.MessageID] {
			fresh = append(fresh, msg)
		}
	}

	m.messages = append(fresh, m.messages...)
}

// chronological reverses a newest-first page into oldest-first order.
func chronological(page []models.Message) []models.Message {
	out := make([]models.Message, len(page))
	for i, msg := range page {
		out[len(page)-1-i] = msg
	}
	return out
}

func (m MessagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		headerHeight := 5
		composerHeight := 6
		helpHeight := 2
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - headerHeight - composerHeight - helpHeight
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.updateViewportContent()
		return m, nil

	case feedFetchedMsg:
		if msg.gen != m.feedGen {
			return m, nil
		}

		m.loading = false
		m.loadingMore = false
		if msg.err != nil {
			m.errLine = "Could not load messages"
			return m, nil
		}

		page := chronological(msg.messages)
		if msg.replace {
			m.messages = page
		} else {
			m.mergeOlderPage(page)
		}
		m.page = msg.page + 1
		m.hasMore = len(msg.messages) == api.MessagePageSize

		m.updateViewportContent()
		if msg.replace {
			m.viewport.GotoBottom()
		}
		return m, nil

	case messageSentMsg:
		m.sending = false
		if msg.err != nil {
			m.errLine = "Could not send the message"
			return m, nil
		}

		m.textarea.Reset()
		m.images = nil
		m.composing = false
		m.app.saveDraft(m.dialog.DialogID, "")
		return m, m.reloadReplace()

	case exchangeProposedMsg:
		m.sending = false
		if msg.err != nil {
			if api.IsConflict(msg.err) {
				m.errLine = "One of the books is already part of another exchange"
			} else {
				m.errLine = "Could not propose the exchange"
			}
			return m, nil
		}

		m.stagedOffer = nil
		m.infoLine = "Exchange proposed"
		return m, m.reloadReplace()

	case exchangeDecidedMsg:
		m.sending = false
		if msg.err != nil {
			if msg.approved {
				m.errLine = "Could not approve the exchange"
			} else {
				m.errLine = "Could not reject the exchange"
			}
			return m, nil
		}
		return m, m.reloadReplace()

	case spinner.TickMsg:
		if m.loading || m.sending || m.loadingMore {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m MessagesModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.app.saveDraft(m.dialog.DialogID, m.textarea.Value())
		return m, tea.Quit
	}

	if m.attaching {
		switch msg.String() {
		case "esc":
			m.attaching = false
			m.attachInput.Reset()
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.attachInput.Value())
			if path == "" {
				m.attaching = false
				return m, nil
			}
			if _, err := os.Stat(path); err != nil {
				m.errLine = fmt.Sprintf("Cannot read %s", path)
				return m, nil
			}
			if len(m.images) >= maxAttachments {
				m.errLine = fmt.Sprintf("At most %d images per message", maxAttachments)
				return m, nil
			}
			m.images = append(m.images, path)
			m.errLine = ""
			m.attachInput.Reset()
			m.attaching = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.attachInput, cmd = m.attachInput.Update(msg)
			return m, cmd
		}
	}

	if msg.String() == "esc" {
		if m.composing {
			m.composing = false
			m.textarea.Blur()
			return m, nil
		}
		m.app.saveDraft(m.dialog.DialogID, m.textarea.Value())
		dialogsModel := NewDialogsModel(m.app)
		if m.windowWidth > 0 {
			updatedModel, cmd := dialogsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			dialogsModel = updatedModel.(DialogsModel)
			return dialogsModel, tea.Batch(dialogsModel.Init(), cmd)
		}
		return dialogsModel, dialogsModel.Init()
	}

	if msg.String() == "ctrl+s" {
		if m.sending {
			return m, nil
		}
		updated, cmd := m.send()
		return updated, cmd
	}

	if m.composing {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	if m.loading || m.sending {
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.app.saveDraft(m.dialog.DialogID, m.textarea.Value())
		return m, tea.Quit

	case "n", "c":
		m.composing = true
		m.errLine = ""
		m.textarea.Focus()
		return m, textarea.Blink

	case "i":
		m.attaching = true
		m.attachInput.Focus()
		return m, textinput.Blink

	case "o":
		// Only the non-owner side offers a book in trade.
		if m.isOwner() {
			return m, nil
		}
		selectorModel := NewListingSelectorModel(m.app, m.app.CurrentUserID(), "Offer a book for exchange", m)
		if m.windowWidth > 0 {
			updatedModel, _ := selectorModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
			selectorModel = updatedModel.(ListingSelectorModel)
		}
		return selectorModel, selectorModel.Init()

	case "u":
		m.stagedOffer = nil
		return m, nil

	case "a", "x":
		if !m.isOwner() {
			return m, nil
		}
		exchange := m.newestPendingExchange()
		if exchange == nil {
			return m, nil
		}
		m.sending = true
		m.errLine = ""
		return m, tea.Batch(m.spinner.Tick, m.decideExchangeCmd(exchange.ID, msg.String() == "a"))

	case "v":
		target := m.newestApprovedTarget()
		if target == nil {
			return m, nil
		}
		reviewModel := NewReviewFormModel(m.app, target.ID, m)
		return reviewModel, reviewModel.Init()

	case "z":
		target := m.newestApprovedTarget()
		complaintModel := NewComplaintFormModel(m.app, target, m)
		return complaintModel, complaintModel.Init()

	case "r":
		return m, m.reloadReplace()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		// Backward pagination: reaching the top of the window pulls one
		// older page. loadingMore keeps concurrent duplicates out.
		if m.viewport.AtTop() && m.hasMore && !m.loadingMore && !m.loading {
			m.loadingMore = true
			return m, tea.Batch(cmd, m.spinner.Tick, m.loadFeedCmd(m.feedGen, m.page, false))
		}
		return m, cmd
	}
}

func (m *MessagesModel) renderProposal(msg models.Message, wrapWidth int) string {
	exchange := msg.Exchange
	offered := exchange.OfferedListing

	var lines []string
	lines = append(lines, proposalStatusStyle.Render("Exchange proposal"))
	lines = append(lines, normalStyle.Render(fmt.Sprintf("%s — %s", offered.Book.Title, offered.Book.Author)))
	lines = append(lines, messageHeaderStyle.Render(fmt.Sprintf("Status: %s", exchange.Status)))

	switch exchange.Status {
	case models.ExchangePending:
		if m.isOwner() {
			lines = append(lines, helpStyle.Render("a: approve • x: reject"))
		}
	case models.ExchangeApproved:
		target := m.counterpartListing(exchange)
		lines = append(lines, "")
		lines = append(lines, normalStyle.Render(fmt.Sprintf("You receive: %s — %s", target.Book.Title, target.Book.Author)))
		lines = append(lines, normalStyle.Render("Exchange finished? Share how it went."))
		lines = append(lines, helpStyle.Render("v: leave a review • z: file a complaint"))
	}

	box := proposalBoxStyle.Width(min(wrapWidth-4, 60)).Render(strings.Join(lines, "\n"))
	return box
}

func (m *MessagesModel) updateViewportContent() {
	if len(m.messages) == 0 {
		m.viewport.SetContent("")
		return
	}

	var content strings.Builder
	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	currentUserID := m.app.CurrentUserID()

	for i, message := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		timestamp := message.CreatedAt.Format("Jan 2 15:04")
		fromMe := message.AuthorID == currentUserID

		sender := message.AuthorName
		if fromMe {
			sender = "You"
		}
		header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, timestamp))

		var body string
		if message.IsExchangeProposal {
			body = m.renderProposal(message, wrapWidth)
		} else {
			var parts []string
			if message.Content != "" {
				wrapped := wordwrap.String(message.Content, wrapWidth-10)
				if fromMe {
					parts = append(parts, messageFromMeStyle.Render(wrapped))
				} else {
					parts = append(parts, messageFromOtherStyle.Render(wrapped))
				}
			}
			for _, imageURL := range message.ImageURLs {
				parts = append(parts, messageHeaderStyle.Render(fmt.Sprintf("🖼 %s", imageURL)))
			}
			body = strings.Join(parts, "\n")
		}

		if fromMe && !message.IsExchangeProposal {
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(header) + "\n")
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(body) + "\n")
		} else {
			content.WriteString(header + "\n")
			content.WriteString(body + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m MessagesModel) View() string {
	if m.loading && len(m.messages) == 0 {
		return fmt.Sprintf("\n  %s Loading messages...\n", m.spinner.View())
	}

	title := fmt.Sprintf("💬 %s — %s", m.dialog.BookTitle, m.dialog.BookAuthor)
	s := titleStyle.Render(title) + "\n"
	s += messageHeaderStyle.Render(fmt.Sprintf("Listing owner: %s", m.dialog.ListingOwnerName)) + "\n\n"

	if m.errLine != "" {
		s += errorStyle.Render(m.errLine) + "\n"
	}
	if m.infoLine != "" {
		s += infoStyle.Render(m.infoLine) + "\n"
	}

	if m.loadingMore {
		s += fmt.Sprintf("  %s Loading older messages...\n", m.spinner.View())
	}

	if len(m.messages) == 0 && !m.loading {
		s += normalStyle.Render("  No messages in this conversation.") + "\n"
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.stagedOffer != nil {
		offer := fmt.Sprintf("Offering: %s — %s  (u: unstage)", m.stagedOffer.Book.Title, m.stagedOffer.Book.Author)
		s += offerStagedStyle.Render(offer) + "\n"
	}
	if len(m.images) > 0 {
		s += messageHeaderStyle.Render(fmt.Sprintf("Attachments: %s", strings.Join(m.images, ", "))) + "\n"
	}

	if m.sending {
		s += fmt.Sprintf("  %s Sending...\n", m.spinner.View())
	}

	if m.attaching {
		s += inputStyle.Render("Attach image:") + "\n"
		s += m.attachInput.View() + "\n"
		s += helpStyle.Render("enter: attach • esc: cancel")
		return s
	}

	if m.composing {
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("ctrl+s: send • esc: stop composing")
		return s
	}

	help := "n: compose • ctrl+s: send • i: attach image • r: refresh • esc: back • q: quit"
	if !m.isOwner() {
		help = "o: offer a book • " + help
	}
	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	s += helpStyle.Render(fmt.Sprintf("%s • %d%%", help, scrollPercent))

	return s
}
