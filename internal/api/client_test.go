package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/swapshelf/swapshelf/internal/config"
)

func testClient(t *testing.T, handler http.Handler, onUnauthorized func()) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		ClientID:       "test-client-id",
	}
	return New(cfg, onUnauthorized)
}

func TestRequestsCarryBearerTokenAndClientID(t *testing.T) {
	var gotAuth, gotClientID string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("X-Client-Id")
		w.Write([]byte(`[]`))
	}), nil)
	client.SetToken("secret-token")

	if _, err := client.Dialogs(context.Background()); err != nil {
		t.Fatalf("Dialogs failed: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotClientID != "test-client-id" {
		t.Fatalf("expected client id header, got %q", gotClientID)
	}
}

func TestUnauthorizedClearsTokenAndNotifiesHook(t *testing.T) {
	hookCalls := 0
	requests := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("Authorization") == "" {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}), func() { hookCalls++ })
	client.SetToken("stale-token")

	if _, err := client.Dialogs(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("expected unauthorized hook to fire once, got %d", hookCalls)
	}

	// The token was dropped, so the retry goes out unauthenticated.
	if _, err := client.Dialogs(context.Background()); err != nil {
		t.Fatalf("second Dialogs failed: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
}

func TestStatusErrorCarriesBackendMessage(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"listing already committed"}`))
	}), nil)

	err := client.ProposeExchange(context.Background(), 1, 2)
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.Message != "listing already committed" {
		t.Fatalf("expected backend message to surface, got %q", statusErr.Message)
	}
}

func TestIsConflictDistinguishesServerErrors(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	err := client.ProposeExchange(context.Background(), 1, 2)
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if IsConflict(err) {
		t.Fatalf("500 must not report as conflict")
	}
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
}
