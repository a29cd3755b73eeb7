package api

import (
	"context"

	"github.com/swapshelf/swapshelf/internal/models"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair. The token is not attached
// to the client automatically; callers decide what to do with it.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.postJSON(ctx, "/api/users/login", loginPayload{Email: email, Password: password}, &pair)
	return pair, err
}

// Profile fetches the authenticated user.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.getJSON(ctx, "/api/users/profile", nil, &user)
	return user, err
}
