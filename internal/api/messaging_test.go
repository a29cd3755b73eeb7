package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/swapshelf/swapshelf/internal/models"
)

func TestMessagesSendsFixedPageSize(t *testing.T) {
	var gotPath, gotPage, gotSize string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotSize = r.URL.Query().Get("size")
		w.Write([]byte(`[]`))
	}), nil)

	if _, err := client.Messages(context.Background(), 42, 3); err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if gotPath != "/api/dialogs/42/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotPage != "3" || gotSize != "20" {
		t.Fatalf("expected page=3 size=20, got page=%s size=%s", gotPage, gotSize)
	}
}

func TestMessagesNormalizesLooseWireFormat(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"messageId":1,"authorId":5,"content":"hi","isExchangeProposal":false},
			{"messageId":2,"authorId":5,"content":"","isExchangeProposal":true},
			{"messageId":3,"authorId":5,"content":"","isExchangeProposal":true,
			 "exchange":{"id":9,"status":"ACCEPTED"}}
		]`))
	}), nil)

	messages, err := client.Messages(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	if messages[0].ImageURLs == nil {
		t.Fatalf("expected nil image list to normalize to empty slice")
	}
	if messages[1].IsExchangeProposal {
		t.Fatalf("proposal flag without embedded exchange must demote to plain message")
	}
	if messages[2].Exchange.Status != models.ExchangeApproved {
		t.Fatalf("expected ACCEPTED to normalize to APPROVED, got %q", messages[2].Exchange.Status)
	}
}

func TestSendMessageBuildsMultipartForm(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg-bytes"), 0o600); err != nil {
		t.Fatalf("write fixture image: %v", err)
	}

	var gotPath, gotContent string
	var gotImageNames []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			return
		}
		gotContent = r.FormValue("content")
		for _, header := range r.MultipartForm.File["images"] {
			gotImageNames = append(gotImageNames, header.Filename)
		}
	}), nil)

	err := client.SendMessage(context.Background(), 7, "see attached", []string{imagePath})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if gotPath != "/api/listing/7/send" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotContent != "see attached" {
		t.Fatalf("unexpected content field %q", gotContent)
	}
	if len(gotImageNames) != 1 || gotImageNames[0] != "cover.jpg" {
		t.Fatalf("unexpected image parts %v", gotImageNames)
	}
}

func TestSendMessageFailsOnMissingAttachment(t *testing.T) {
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}), nil)

	err := client.SendMessage(context.Background(), 7, "", []string{"/nonexistent/image.png"})
	if err == nil {
		t.Fatalf("expected error for missing attachment")
	}
	if requests != 0 {
		t.Fatalf("expected no request for unreadable attachment, got %d", requests)
	}
}

func TestProposeExchangeSendsOfferedListingQuery(t *testing.T) {
	var gotMethod, gotPath, gotOffered string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotOffered = r.URL.Query().Get("offeredListingId")
	}), nil)

	if err := client.ProposeExchange(context.Background(), 42, 7); err != nil {
		t.Fatalf("ProposeExchange failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/listing/42/propose-exchange" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotOffered != "7" {
		t.Fatalf("expected offeredListingId=7, got %q", gotOffered)
	}
}

func TestApproveAndRejectUsePatch(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
	}), nil)

	if err := client.ApproveExchange(context.Background(), 9); err != nil {
		t.Fatalf("ApproveExchange failed: %v", err)
	}
	if err := client.RejectExchange(context.Background(), 9); err != nil {
		t.Fatalf("RejectExchange failed: %v", err)
	}

	want := []call{
		{http.MethodPatch, "/api/exchange/9/approve"},
		{http.MethodPatch, "/api/exchange/9/reject"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: expected %v, got %v", i, want[i], calls[i])
		}
	}
}
