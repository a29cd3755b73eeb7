package ui

import (
	"github.com/swapshelf/swapshelf/internal/api"
	"github.com/swapshelf/swapshelf/internal/drafts"
	"github.com/swapshelf/swapshelf/internal/session"
)

// App bundles the long-lived collaborators every view needs: the backend
// client, the logged-in session and the local drafts store. One App is
// built in main and threaded through view constructors; views own all
// other state themselves.
type App struct {
	Client  *api.Client
	Session *session.Session
	Drafts  *drafts.Store
	DataDir string
}

// CurrentUserID returns the logged-in user's id, or 0 before login.
func (a *App) CurrentUserID() int64 {
	if a.Session == nil {
		return 0
	}
	return a.Session.UserID
}

// Logout drops the session in memory and on disk.
func (a *App) Logout() {
	a.Session = nil
	a.Client.SetToken("")
	session.Clear(a.DataDir)
}

// draftFor loads the stored composer draft for a dialog; errors degrade to
// an empty draft, a lost draft never blocks opening the conversation.
func (a *App) draftFor(dialogID int64) string {
	if a.Drafts == nil {
		return ""
	}
	draft, err := a.Drafts.Draft(dialogID)
	if err != nil {
		return ""
	}
	return draft
}

// rememberDialog records the last opened dialog for next launch.
func (a *App) rememberDialog(dialogID int64) {
	if a.Drafts != nil {
		a.Drafts.SetLastDialog(dialogID)
	}
}

// saveDraft persists composer text for a dialog, best effort.
func (a *App) saveDraft(dialogID int64, text string) {
	if a.Drafts != nil {
		a.Drafts.SaveDraft(dialogID, text)
	}
}
