package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/swapshelf/swapshelf/internal/models"
)

// SubmitReview files a review for a completed exchange. The payload goes as
// a multipart form: a JSON part named `data` plus `images` file parts.
func (c *Client) SubmitReview(ctx context.Context, review models.CreateReview, imagePaths []string) error {
	return c.postMultipartData(ctx, "/api/reviews", review, imagePaths)
}

// SubmitComplaint files a complaint against a listing. Same wire format as
// reviews; the moderation pipeline behind it is entirely backend-owned.
func (c *Client) SubmitComplaint(ctx context.Context, complaint models.CreateComplaint, imagePaths []string) error {
	return c.postMultipartData(ctx, "/api/complaints", complaint, imagePaths)
}

func (c *Client) postMultipartData(ctx context.Context, path string, payload any, imagePaths []string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s data part: %w", path, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="data"`)
	header.Set("Content-Type", "application/json")
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create data part: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return fmt.Errorf("write data part: %w", err)
	}

	for _, imagePath := range imagePaths {
		if err := attachFile(writer, "images", imagePath); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, nil)
}
