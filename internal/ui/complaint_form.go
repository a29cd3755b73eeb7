package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapshelf/swapshelf/internal/models"
)

type complaintSubmittedMsg struct {
	err error
}

// ComplaintFormModel files a complaint against a listing. The target may
// arrive pre-filled (post-approval flow) or be picked from the listing
// owner's books. The moderation pipeline behind the endpoint is entirely
// backend-owned.
type ComplaintFormModel struct {
	app         *App
	parent      MessagesModel
	target      *models.Listing
	comment     textarea.Model
	attaching   bool
	attachInput textinput.Model
	images      []string
	submitting  bool
	errLine     string
	spinner     spinner.Model
}

func NewComplaintFormModel(app *App, target *models.Listing, parent MessagesModel) ComplaintFormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	comment := textarea.New()
	comment.Placeholder = "Describe the problem..."
	comment.CharLimit = 2000
	comment.SetHeight(4)
	comment.ShowLineNumbers = false
	comment.Focus()

	ai := textinput.New()
	ai.Placeholder = "/path/to/evidence.jpg"
	ai.CharLimit = 500

	return ComplaintFormModel{
		app:         app,
		parent:      parent,
		target:      target,
		comment:     comment,
		attachInput: ai,
		spinner:     s,
	}
}

func (m ComplaintFormModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m ComplaintFormModel) submitCmd(complaint models.CreateComplaint, images []string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Client.SubmitComplaint(context.Background(), complaint, images)
		return complaintSubmittedMsg{err: err}
	}
}

// acceptListing receives the target picked in the listing selector.
func (m ComplaintFormModel) acceptListing(listing models.Listing) (tea.Model, tea.Cmd) {
	m.target = &listing
	m.errLine = ""
	return m, textarea.Blink
}

func (m ComplaintFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.comment.SetWidth(msg.Width - 4)
		return m, nil

	case complaintSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errLine = "Could not submit the complaint"
			return m, nil
		}

		parent := m.parent
		parent.infoLine = "Complaint submitted"
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

		if m.attaching {
			switch msg.String() {
			case "esc":
				m.attaching = false
				m.attachInput.Reset()
				return m, nil
			case "enter":
				path := strings.TrimSpace(m.attachInput.Value())
				if path != "" {
					if _, err := os.Stat(path); err != nil {
						m.errLine = fmt.Sprintf("Cannot read %s", path)
						return m, nil
					}
					if len(m.images) >= maxAttachments {
						m.errLine = fmt.Sprintf("At most %d images per complaint", maxAttachments)
						return m, nil
					}
					m.images = append(m.images, path)
					m.errLine = ""
				}
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
			return m.parent, nil
		}

		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+l":
			selectorModel := NewListingSelectorModel(m.app, m.parent.dialog.ListingOwnerID, "Which listing is the complaint about?", m)
			return selectorModel, selectorModel.Init()

		case "ctrl+i":
			m.attaching = true
			m.attachInput.Focus()
			return m, textinput.Blink

		case "ctrl+s":
			comment := strings.TrimSpace(m.comment.Value())
			if comment == "" {
				m.errLine = "Comment is required"
				return m, nil
			}
			if m.target == nil {
				m.errLine = "Select the listing the complaint is about"
				return m, nil
			}

			m.errLine = ""
			m.submitting = true
			complaint := models.CreateComplaint{ListingID: m.target.ID, Comment: comment}
			return m, tea.Batch(m.spinner.Tick, m.submitCmd(complaint, m.images))
		}

		var cmd tea.Cmd
		m.comment, cmd = m.comment.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ComplaintFormModel) View() string {
	s := titleStyle.Render("File a complaint") + "\n\n"

	if m.errLine != "" {
		s += errorStyle.Render(m.errLine) + "\n\n"
	}

	if m.target != nil {
		s += normalStyle.Render(fmt.Sprintf("About: %s — %s", m.target.Book.Title, m.target.Book.Author)) + "\n\n"
	} else {
		s += messageHeaderStyle.Render("No listing selected (ctrl+l to choose)") + "\n\n"
	}

	s += inputStyle.Render("Comment:") + "\n"
	s += m.comment.View() + "\n"

	if len(m.images) > 0 {
		s += messageHeaderStyle.Render(fmt.Sprintf("Attachments: %s", strings.Join(m.images, ", "))) + "\n"
	}

	if m.attaching {
		s += "\n" + inputStyle.Render("Attach image:") + "\n"
		s += m.attachInput.View() + "\n"
		s += helpStyle.Render("enter: attach • esc: cancel")
		return s
	}

	if m.submitting {
		s += fmt.Sprintf("\n%s Submitting complaint...\n", m.spinner.View())
	} else {
		s += "\n" + helpStyle.Render("ctrl+s: submit • ctrl+l: choose listing • ctrl+i: attach image • esc: back")
	}

	return s
}
