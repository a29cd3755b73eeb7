package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapshelf/swapshelf/internal/models"
)

type reviewSubmittedMsg struct {
	err error
}

// ReviewFormModel files a review for a listing after a finished exchange.
// The listing id arrives pre-filled from the conversation.
type ReviewFormModel struct {
	app        *App
	listingID  int64
	parent     MessagesModel
	rating     textinput.Model
	comment    textarea.Model
	onComment  bool
	submitting bool
	errLine    string
	spinner    spinner.Model
}

func NewReviewFormModel(app *App, listingID int64, parent MessagesModel) ReviewFormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	rating := textinput.New()
	rating.Placeholder = "1-5"
	rating.CharLimit = 1
	rating.Focus()

	comment := textarea.New()
	comment.Placeholder = "How did the exchange go?"
	comment.CharLimit = 2000
	comment.SetHeight(4)
	comment.ShowLineNumbers = false

	return ReviewFormModel{
		app:       app,
		listingID: listingID,
		parent:    parent,
		rating:    rating,
		comment:   comment,
		spinner:   s,
	}
}

func (m ReviewFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ReviewFormModel) submitCmd(review models.CreateReview) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Client.SubmitReview(context.Background(), review, nil)
		return reviewSubmittedMsg{err: err}
	}
}

func (m ReviewFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.comment.SetWidth(msg.Width - 4)
		return m, nil

	case reviewSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errLine = "Could not submit the review"
			return m, nil
		}

		parent := m.parent
		parent.infoLine = "Review submitted"
		return parent, nil

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

		if msg.String() == "esc" {
			return m.parent, nil
		}

		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			m.onComment = !m.onComment
			if m.onComment {
				m.rating.Blur()
				m.comment.Focus()
				return m, textarea.Blink
			}
			m.comment.Blur()
			return m, m.rating.Focus()

		case "ctrl+s":
			rating, err := strconv.Atoi(strings.TrimSpace(m.rating.Value()))
			if err != nil || rating < 1 || rating > 5 {
				m.errLine = "Rating must be between 1 and 5"
				return m, nil
			}
			comment := strings.TrimSpace(m.comment.Value())
			if comment == "" {
				m.errLine = "Comment is required"
				return m, nil
			}

			m.errLine = ""
			m.submitting = true
			review := models.CreateReview{ListingID: m.listingID, Rating: rating, Comment: comment}
			return m, tea.Batch(m.spinner.Tick, m.submitCmd(review))
		}

		var cmd tea.Cmd
		if m.onComment {
			m.comment, cmd = m.comment.Update(msg)
		} else {
			m.rating, cmd = m.rating.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m ReviewFormModel) View() string {
	s := titleStyle.Render("Leave a review") + "\n\n"

	if m.errLine != "" {
		s += errorStyle.Render(m.errLine) + "\n\n"
	}

	s += inputStyle.Render("Rating (1-5):") + "\n"
	s += m.rating.View() + "\n\n"
	s += inputStyle.Render("Comment:") + "\n"
	s += m.comment.View() + "\n\n"

	if m.submitting {
		s += fmt.Sprintf("%s Submitting review...\n", m.spinner.View())
	} else {
		s += helpStyle.Render("tab: switch field • ctrl+s: submit • esc: back")
	}

	return s
}
