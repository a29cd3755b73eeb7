package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/swapshelf/swapshelf/internal/models"
)

func TestSubmitComplaintSendsJSONDataPart(t *testing.T) {
	var gotPath string
	var gotContentType string
	var gotData models.CreateComplaint
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		reader, err := r.MultipartReader()
		if err != nil {
			t.Errorf("multipart reader: %v", err)
			return
		}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("next part: %v", err)
				return
			}
			if part.FormName() != "data" {
				continue
			}
			gotContentType = part.Header.Get("Content-Type")
			if err := json.NewDecoder(part).Decode(&gotData); err != nil {
				t.Errorf("decode data part: %v", err)
			}
		}
	}), nil)

	complaint := models.CreateComplaint{ListingID: 42, Comment: "never shipped"}
	if err := client.SubmitComplaint(context.Background(), complaint, nil); err != nil {
		t.Fatalf("SubmitComplaint failed: %v", err)
	}
	if gotPath != "/api/complaints" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected application/json data part, got %q", gotContentType)
	}
	if gotData != complaint {
		t.Fatalf("expected data part %+v, got %+v", complaint, gotData)
	}
}

func TestSubmitReviewTargetsReviewsEndpoint(t *testing.T) {
	var gotPath string
	var gotData models.CreateReview
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &gotData); err != nil {
			t.Errorf("decode data field: %v", err)
		}
	}), nil)

	review := models.CreateReview{ListingID: 7, Rating: 5, Comment: "great trade"}
	if err := client.SubmitReview(context.Background(), review, nil); err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}
	if gotPath != "/api/reviews" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotData != review {
		t.Fatalf("expected data part %+v, got %+v", review, gotData)
	}
}
