package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client triggers bulk product deletion on the product service. It backs
// the ProductBulkDeleter capability of the user service; the caller's
// token travels as the request body, the way the product service expects
// the forwarded credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(productServiceURL string) *Client {
	return &Client{
		baseURL: productServiceURL,
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

func (c *Client) DeleteProductsByUser(ctx context.Context, userID uint, token string) error {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	url := fmt.Sprintf("%s/duodeal/products/user/%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("product service answered status %d", resp.StatusCode)
	}
	return nil
}
