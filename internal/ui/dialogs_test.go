package ui

import (
	"net/http"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapshelf/swapshelf/internal/models"
)

func sampleDialogs() []models.Dialog {
	return []models.Dialog{
		{
			DialogID:         10,
			ListingID:        42,
			BookTitle:        "Selected Book",
			ListingOwnerID:   1,
			ListingOwnerName: "Alice",
		},
		{
			DialogID:         11,
			ListingID:        55,
			BookTitle:        "Their Book",
			ListingOwnerID:   2,
			ListingOwnerName: "Bob",
		},
	}
}

func TestDialogTabsPartitionOnListingOwnership(t *testing.T) {
	app := testApp(t, http.NotFoundHandler(), 1)

	model := NewDialogsModel(app)
	updated, _ := model.Update(dialogsFetchedMsg{dialogs: sampleDialogs()})
	model = updated.(DialogsModel)

	outgoing := model.visibleDialogs()
	if len(outgoing) != 1 || outgoing[0].DialogID != 11 {
		t.Fatalf("outgoing tab must show dialogs about other people's listings, got %+v", outgoing)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(DialogsModel)
	if model.tab != tabIncoming {
		t.Fatalf("tab key must switch to the my-listings tab")
	}

	incoming := model.visibleDialogs()
	if len(incoming) != 1 || incoming[0].DialogID != 10 {
		t.Fatalf("my-listings tab must show dialogs about my listings, got %+v", incoming)
	}
}

func TestDeepLinkOpensDialogWithEmptyFeed(t *testing.T) {
	app := testApp(t, http.NotFoundHandler(), 1)

	model := NewDialogsModelOpening(app, 10)
	updated, _ := model.Update(dialogsFetchedMsg{dialogs: sampleDialogs()})

	messagesModel, ok := updated.(MessagesModel)
	if !ok {
		t.Fatalf("deep link must hand off to the conversation, got %T", updated)
	}
	if messagesModel.dialog.DialogID != 10 {
		t.Fatalf("expected dialog 10, got %d", messagesModel.dialog.DialogID)
	}

	// The fresh conversation must not carry any previous feed state.
	if len(messagesModel.messages) != 0 || messagesModel.page != 0 || !messagesModel.loading {
		t.Fatalf("handed-off conversation must start empty and loading, got %d messages page %d",
			len(messagesModel.messages), messagesModel.page)
	}
}

// pumpDialogs feeds a command's messages back into a DialogsModel, stopping
// if the model hands off to another view.
func pumpDialogs(t *testing.T, model DialogsModel, cmd tea.Cmd) tea.Model {
	t.Helper()
	var current tea.Model = model
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		dialogsModel, ok := current.(DialogsModel)
		if !ok {
			return current
		}
		current, _ = dialogsModel.Update(msg)
	}
	return current
}

func TestDeepLinkFallsBackToDirectFetch(t *testing.T) {
	app := testApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dialogs/12" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, models.Dialog{DialogID: 12, ListingID: 60, BookTitle: "Hidden Book", ListingOwnerID: 2})
	}), 1)

	model := NewDialogsModelOpening(app, 12)
	updated, cmd := model.Update(dialogsFetchedMsg{dialogs: sampleDialogs()})
	model = updated.(DialogsModel)
	if !model.loading {
		t.Fatalf("missing deep-link target must trigger a direct fetch")
	}

	result := pumpDialogs(t, model, cmd)
	messagesModel, ok := result.(MessagesModel)
	if !ok {
		t.Fatalf("direct fetch must hand off to the conversation, got %T", result)
	}
	if messagesModel.dialog.DialogID != 12 {
		t.Fatalf("expected dialog 12, got %d", messagesModel.dialog.DialogID)
	}
}

func TestDeepLinkToUnknownDialogReportsError(t *testing.T) {
	app := testApp(t, http.NotFoundHandler(), 1)

	model := NewDialogsModelOpening(app, 999)
	updated, cmd := model.Update(dialogsFetchedMsg{dialogs: sampleDialogs()})
	model = updated.(DialogsModel)

	result := pumpDialogs(t, model, cmd)
	model, ok := result.(DialogsModel)
	if !ok {
		t.Fatalf("unknown deep-link target must stay on the dialog list, got %T", result)
	}
	if model.err == nil {
		t.Fatalf("unknown deep-link target must surface an error")
	}
}
