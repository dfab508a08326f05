// Package api is the HTTP client for the notes and AI backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

// Client talks JSON to the notes API and the AI API.
type Client struct {
	http     *http.Client
	notesURL string
	aiURL    string
	pageSize int
	sortBy   string
	sortDir  string
	log      *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:     &http.Client{Timeout: cfg.RequestTimeout()},
		notesURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		aiURL:    strings.TrimRight(cfg.AIBaseURL, "/"),
		pageSize: cfg.PageSize,
		sortBy:   cfg.SortBy,
		sortDir:  cfg.SortDir,
		log:      logger,
	}
}

// Request performs one JSON round trip. A 204 yields a nil result.
func (c *Client) Request(ctx context.Context, method, rawURL string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("api request", "method", method, "url", rawURL)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("api error", "method", method, "url", rawURL, "status", resp.StatusCode)
		return nil, &HTTPError{Status: resp.StatusCode, Message: serverMessage(data), Body: data}
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// serverMessage pulls "error" or "message" out of a JSON error body.
func serverMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	data, err := c.Request(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if out == nil || data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get appends params to rawURL, skipping empty values.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, out any) error {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	if enc := q.Encode(); enc != "" {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + enc
	}
	return c.do(ctx, http.MethodGet, rawURL, nil, out)
}

func (c *Client) Post(ctx context.Context, rawURL string, body, out any) error {
	return c.do(ctx, http.MethodPost, rawURL, body, out)
}

func (c *Client) Put(ctx context.Context, rawURL string, body, out any) error {
	return c.do(ctx, http.MethodPut, rawURL, body, out)
}

func (c *Client) Delete(ctx context.Context, rawURL string) error {
	return c.do(ctx, http.MethodDelete, rawURL, nil, nil)
}
