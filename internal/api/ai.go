package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

type chatRequest struct {
	Question    string `json:"question"`
	NoteContent string `json:"noteContent"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Chat asks the AI about noteContent. An {error} payload, whatever its status,
// comes back as an error whose message is exactly the server's text.
func (c *Client) Chat(ctx context.Context, question, noteContent string) (string, error) {
	req := chatRequest{
		Question:    strings.TrimSpace(question),
		NoteContent: strings.TrimSpace(noteContent),
	}

	data, err := c.Request(ctx, http.MethodPost, c.aiURL+"/chat", req)
	if err != nil {
		var httpErr *HTTPError
		switch {
		case errors.Is(err, context.Canceled):
			return "", err
		case Status(err) == http.StatusServiceUnavailable:
			return "", ErrAIUnavailable
		case errors.As(err, &httpErr) && httpErr.Message != "":
			return "", errors.New(httpErr.Message)
		}
		return "", wrap(config.MsgAIRequestFailed, err)
	}
	return decodeChat(data)
}

func decodeChat(data json.RawMessage) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err == nil {
		switch {
		case resp.Success && resp.Response != "":
			return resp.Response, nil
		case resp.Error != "":
			return "", errors.New(resp.Error)
		}
		return "", ErrAIResponseFormat
	}

	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy, nil
	}
	return "", ErrAIResponseFormat
}

// Health probes the AI service. The endpoint answers in plain text, so only
// the status is inspected. It never fails; errors read as unavailable.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.aiURL+"/test", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("ai health probe failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("ai health probe", "status", resp.StatusCode)
		return false
	}
	c.log.Debug("ai health probe ok", "body", strings.TrimSpace(string(text)))
	return true
}
