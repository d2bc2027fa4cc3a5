package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"geomark/pkg/platform/sentinel"
)

// Client calls a remote recognition model service over HTTP. The staged image
// is posted as multipart form data; the service answers with the recognized
// identity and confidence, or a null identity for no match.
type Client struct {
	url        string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient constructs a recognition gateway client for the given endpoint.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// recognizeResponse is the model service's answer.
type recognizeResponse struct {
	UserID     *string `json:"user_id"`
	Confidence float64 `json:"confidence"`
}

func (c *Client) Recognize(ctx context.Context, stagedPath string) (Result, error) {
	f, err := os.Open(stagedPath)
	if err != nil {
		return Result{}, fmt.Errorf("open staged image: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", filepath.Base(stagedPath))
	if err != nil {
		return Result{}, fmt.Errorf("build recognition request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return Result{}, fmt.Errorf("read staged image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize recognition request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return Result{}, fmt.Errorf("build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("recognition call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("recognition service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var decoded recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("decode recognition response: %w", err)
	}

	return Result{Identity: decoded.UserID, Confidence: decoded.Confidence}, nil
}
