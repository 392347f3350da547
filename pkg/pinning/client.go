package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Pinner defines the interface for pinning service operations
type Pinner interface {
	PinFile(ctx context.Context, reader io.Reader, name string) (*PinResponse, error)
	Unpin(ctx context.Context, cid string) error
	PinnedCount(ctx context.Context, cid string) (int, error)
	TestAuth(ctx context.Context) error
}

// Client wraps the pinning service HTTP API (Pinata-compatible)
type Client struct {
	apiURL     string
	jwt        string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the pinning client
type Config struct {
	// APIURL is the base URL for the pinning HTTP API (e.g., "https://api.pinata.cloud")
	// If empty, defaults to "https://api.pinata.cloud"
	APIURL string

	// JWT is the bearer token used for all pinning API calls
	JWT string

	// Timeout is the timeout for client operations
	// If zero, defaults to 60 seconds
	Timeout time.Duration
}

// PinResponse represents the response from pinning a file
type PinResponse struct {
	CID       string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// pinMetadata is the optional metadata blob attached to a pinned file
type pinMetadata struct {
	Name string `json:"name"`
}

// NewClient creates a new pinning service client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.pinata.cloud"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiURL: apiURL,
		jwt:    cfg.JWT,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.jwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.jwt)
	}
}

// TestAuth verifies that the configured credentials are accepted by the
// pinning service.
func (c *Client) TestAuth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL+"/data/testAuthentication", nil)
	if err != nil {
		return fmt.Errorf("failed to create auth test request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth test request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth test failed with status: %d", resp.StatusCode)
	}

	return nil
}

// PinFile uploads raw file bytes to the pinning service and returns the
// content identifier assigned to them.
func (c *Client) PinFile(ctx context.Context, reader io.Reader, name string) (*PinResponse, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to copy data: %w", err)
	}

	if name != "" {
		meta, err := json.Marshal(pinMetadata{Name: name})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal pin metadata: %w", err)
		}
		if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
			return nil, fmt.Errorf("failed to write pin metadata: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/pinning/pinFileToIPFS", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pin failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result PinResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}
	if result.CID == "" {
		return nil, fmt.Errorf("pin response missing CID")
	}

	c.logger.Debug("file pinned",
		zap.String("cid", result.CID),
		zap.String("name", name),
		zap.Int64("size", int64(len(data))),
	)

	return &result, nil
}

// Unpin removes a pinned CID from the pinning service
func (c *Client) Unpin(ctx context.Context, cid string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.apiURL+"/pinning/unpin/"+url.PathEscape(cid), nil)
	if err != nil {
		return fmt.Errorf("failed to create unpin request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unpin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unpin failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PinnedCount returns the number of pin rows matching the CID. Zero means
// the CID is not pinned under this account.
func (c *Client) PinnedCount(ctx context.Context, cid string) (int, error) {
	endpoint := c.apiURL + "/data/pinList?hashContains=" + url.QueryEscape(cid) + "&status=pinned"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create pin list request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pin list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pin list failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode pin list response: %w", err)
	}

	return result.Count, nil
}
