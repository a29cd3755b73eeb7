package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/swapshelf/swapshelf/internal/models"
)

// ListingFilter narrows the catalog browse. Empty fields are omitted.
type ListingFilter struct {
	Title  string
	Author string
}

// Listings fetches one page of the public catalog.
func (c *Client) Listings(ctx context.Context, page, size int, filter ListingFilter) (models.ListingPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if filter.Title != "" {
		query.Set("title", filter.Title)
	}
	if filter.Author != "" {
		query.Set("author", filter.Author)
	}

	var result models.ListingPage
	if err := c.getJSON(ctx, "/api/listings", query, &result); err != nil {
		return models.ListingPage{}, err
	}
	normalizeListings(result.Content)
	return result, nil
}

// Listing fetches a single listing by id.
func (c *Client) Listing(ctx context.Context, listingID int64) (models.Listing, error) {
	var listing models.Listing
	if err := c.getJSON(ctx, fmt.Sprintf("/api/listings/%d", listingID), nil, &listing); err != nil {
		return models.Listing{}, err
	}
	if listing.ImageURLs == nil {
		listing.ImageURLs = []string{}
	}
	return listing, nil
}

// UserListings fetches a user's own listings, paged. Feeds the listing
// selector when staging an exchange offer or picking a complaint target.
func (c *Client) UserListings(ctx context.Context, userID int64, page, size int) (models.ListingPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result models.ListingPage
	if err := c.getJSON(ctx, fmt.Sprintf("/api/listings/user/%d", userID), query, &result); err != nil {
		return models.ListingPage{}, err
	}
	normalizeListings(result.Content)
	return result, nil
}

func normalizeListings(listings []models.Listing) {
	for i := range listings {
		if listings[i].ImageURLs == nil {
			listings[i].ImageURLs = []string{}
		}
	}
}
