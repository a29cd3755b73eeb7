package drafts

import "testing"

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDraftRoundTrip(t *testing.T) {
	store := openStore(t)

	if draft, err := store.Draft(1); err != nil || draft != "" {
		t.Fatalf("expected empty draft initially, got %q err %v", draft, err)
	}

	if err := store.SaveDraft(1, "half-typed reply"); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if err := store.SaveDraft(1, "half-typed reply, revised"); err != nil {
		t.Fatalf("SaveDraft update failed: %v", err)
	}

	draft, err := store.Draft(1)
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if draft != "half-typed reply, revised" {
		t.Fatalf("expected updated draft, got %q", draft)
	}

	if draft, err := store.Draft(2); err != nil || draft != "" {
		t.Fatalf("draft for another dialog must be empty, got %q err %v", draft, err)
	}
}

func TestSaveDraftWithEmptyTextDeletes(t *testing.T) {
	store := openStore(t)

	if err := store.SaveDraft(5, "something"); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if err := store.SaveDraft(5, ""); err != nil {
		t.Fatalf("SaveDraft with empty text failed: %v", err)
	}

	draft, err := store.Draft(5)
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if draft != "" {
		t.Fatalf("expected draft removed, got %q", draft)
	}
}

func TestLastDialogRoundTrip(t *testing.T) {
	store := openStore(t)

	last, err := store.LastDialog()
	if err != nil {
		t.Fatalf("LastDialog failed: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected no last dialog initially, got %d", last)
	}

	if err := store.SetLastDialog(42); err != nil {
		t.Fatalf("SetLastDialog failed: %v", err)
	}
	if err := store.SetLastDialog(43); err != nil {
		t.Fatalf("SetLastDialog update failed: %v", err)
	}

	last, err = store.LastDialog()
	if err != nil {
		t.Fatalf("LastDialog failed: %v", err)
	}
	if last != 43 {
		t.Fatalf("expected last dialog 43, got %d", last)
	}
}
