package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/swapshelf/swapshelf/internal/api"
	"github.com/swapshelf/swapshelf/internal/config"
	"github.com/swapshelf/swapshelf/internal/drafts"
	"github.com/swapshelf/swapshelf/internal/session"
	"github.com/swapshelf/swapshelf/internal/ui"
)

const version = "1.0.0"

func main() {
	openDialogID := int64(0)
	openLastDialog := false

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Swapshelf v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		case "dialog":
			if len(os.Args) < 3 {
				fmt.Println("Usage: swapshelf dialog <id|last>")
				os.Exit(1)
			}
			if os.Args[2] == "last" {
				openLastDialog = true
				break
			}
			id, err := strconv.ParseInt(os.Args[2], 10, 64)
			if err != nil {
				fmt.Printf("Invalid dialog id: %s\n", os.Args[2])
				os.Exit(1)
			}
			openDialogID = id
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, _, err := config.LoadOrCreate()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dataDir, err := config.ResolveDataDir()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	client := api.New(cfg, func() {
		session.Clear(dataDir)
	})

	app := &ui.App{
		Client:  client,
		DataDir: dataDir,
	}

	if store, err := drafts.Open(dataDir); err == nil {
		app.Drafts = store
		defer store.Close()
	}

	if openLastDialog {
		if app.Drafts != nil {
			openDialogID, _ = app.Drafts.LastDialog()
		}
		if openDialogID == 0 {
			fmt.Println("No dialog has been opened yet")
			os.Exit(1)
		}
	}

	sess, err := session.Load(dataDir)
	switch {
	case err == nil && !sess.Expired():
		app.Session = sess
		client.SetToken(sess.AccessToken)
	case err != nil && !errors.Is(err, session.ErrNoSession):
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	initialModel := initialModelFor(app, openDialogID)
	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func initialModelFor(app *ui.App, openDialogID int64) tea.Model {
	if app.Session == nil {
		return ui.NewLoginModel(app)
	}
	if openDialogID != 0 {
		return ui.NewDialogsModelOpening(app, openDialogID)
	}
	return ui.NewMenuModel(app)
}

func printHelp() {
	help := `Swapshelf - Terminal Book Exchange Client

Usage:
  swapshelf              Start the client
  swapshelf dialog <id>  Open a specific conversation
  swapshelf dialog last  Reopen the last conversation
  swapshelf version      Show version information
  swapshelf help         Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists
  Enter             Select/Open item
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Menu:
  💬 Dialogs         Conversations about listings
  📚 Browse listings Search the book catalog
  🔁 My exchanges    Your proposed and received exchanges

Dialogs:
  tab               Switch between outgoing and my-listings tabs
  /                 Search dialogs
  r                 Refresh

Conversation:
  n or c            Compose a message
  ctrl+s            Send (staged exchange offer takes priority over text)
  i                 Attach an image by path
  o                 Offer one of your books for exchange
  a / x             Approve / reject the pending proposal (listing owner)
  v / z             Leave a review / file a complaint after approval
  r                 Reload the conversation

Configuration:
  ~/.swapshelf/config.yml   Backend URL and request timeout
  ~/.swapshelf/session.yml  Stored login session
  ~/.swapshelf/drafts.db    Unsent message drafts

Notes:
  - All marketplace data lives on the Swapshelf backend; the client
    re-fetches after every action instead of guessing locally.
`
	fmt.Print(help)
}
