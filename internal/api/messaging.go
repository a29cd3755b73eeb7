package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/swapshelf/swapshelf/internal/models"
)

// MessagePageSize is the fixed page size for the message feed.
const MessagePageSize = 20

// Dialogs fetches the full dialog list for the current user. The endpoint
// is unpaged; partitioning into incoming/outgoing happens in the UI.
func (c *Client) Dialogs(ctx context.Context) ([]models.Dialog, error) {
	var dialogs []models.Dialog
	if err := c.getJSON(ctx, "/api/dialogs", nil, &dialogs); err != nil {
		return nil, err
	}
	return dialogs, nil
}

// Dialog fetches a single dialog by id.
func (c *Client) Dialog(ctx context.Context, dialogID int64) (models.Dialog, error) {
	var dialog models.Dialog
	err := c.getJSON(ctx, fmt.Sprintf("/api/dialogs/%d", dialogID), nil, &dialog)
	return dialog, err
}

// Messages fetches one page of a dialog's messages. Page 0 is the newest
// page; higher pages reach further back in time.
func (c *Client) Messages(ctx context.Context, dialogID int64, page int) ([]models.Message, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(MessagePageSize))

	var messages []models.Message
	if err := c.getJSON(ctx, fmt.Sprintf("/api/dialogs/%d/messages", dialogID), query, &messages); err != nil {
		return nil, err
	}

	for i := range messages {
		normalizeMessage(&messages[i])
	}

	return messages, nil
}

// normalizeMessage cleans up the loosely typed wire format at the one
// ingestion point, so render paths never null-check. A proposal flag
// without an embedded exchange demotes the message to plain text.
func normalizeMessage(m *models.Message) {
	if m.ImageURLs == nil {
		m.ImageURLs = []string{}
	}
	if m.IsExchangeProposal && m.Exchange == nil {
		m.IsExchangeProposal = false
	}
	if m.Exchange != nil && m.Exchange.Status == "ACCEPTED" {
		m.Exchange.Status = models.ExchangeApproved
	}
}

// SendMessage posts a plain message to a listing's dialog as a multipart
// form: a `content` text field plus zero or more `images` file parts.
func (c *Client) SendMessage(ctx context.Context, listingID int64, content string, imagePaths []string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("content", content); err != nil {
		return fmt.Errorf("write content field: %w", err)
	}
	for _, path := range imagePaths {
		if err := attachFile(writer, "images", path); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/listing/%d/send", listingID), nil, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, nil)
}

// ProposeExchange offers one of the caller's listings in trade for the
// dialog's listing. A 409 means one of the listings is already committed to
// another exchange; callers detect that with IsConflict.
func (c *Client) ProposeExchange(ctx context.Context, listingID, offeredListingID int64) error {
	query := url.Values{}
	query.Set("offeredListingId", strconv.FormatInt(offeredListingID, 10))

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/listing/%d/propose-exchange", listingID), query, nil)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

// ApproveExchange accepts a pending exchange. The caller must re-fetch the
// feed afterwards; the response carries no body worth reading.
func (c *Client) ApproveExchange(ctx context.Context, exchangeID int64) error {
	return c.patch(ctx, fmt.Sprintf("/api/exchange/%d/approve", exchangeID))
}

// RejectExchange declines a pending exchange.
func (c *Client) RejectExchange(ctx context.Context, exchangeID int64) error {
	return c.patch(ctx, fmt.Sprintf("/api/exchange/%d/reject", exchangeID))
}

func (c *Client) patch(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodPatch, path, nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func attachFile(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment %q: %w", path, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy attachment %q: %w", path, err)
	}

	return nil
}
