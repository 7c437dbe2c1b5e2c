package userclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUserNotFound reports that the user service answered 4xx for the id,
// which the callers treat as "user does not exist".
var ErrUserNotFound = errors.New("user not found")

// Client checks user existence against the user service. It backs the
// UserExistenceChecker capability of the cart and product services.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(userServiceURL string) *Client {
	return &Client{
		baseURL: userServiceURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) UserExists(ctx context.Context, userID uint, token string) error {
	url := fmt.Sprintf("%s/duodeal/users/%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrUserNotFound
	default:
		return fmt.Errorf("user service answered status %d", resp.StatusCode)
	}
}
