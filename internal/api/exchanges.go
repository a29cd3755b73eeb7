package api

import (
	"context"

	"github.com/swapshelf/swapshelf/internal/models"
)

// UserExchanges fetches the current user's exchanges, newest first.
func (c *Client) UserExchanges(ctx context.Context) ([]models.Exchange, error) {
	var exchanges []models.Exchange
	if err := c.getJSON(ctx, "/api/exchanges/user", nil, &exchanges); err != nil {
		return nil, err
	}

	for i := range exchanges {
		if exchanges[i].Status == "ACCEPTED" {
			exchanges[i].Status = models.ExchangeApproved
		}
	}

	return exchanges, nil
}
