package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client is a thin HTTP client against the notification gateway
// (Telegram/chat/email fan-out lives behind this one HTTP boundary).
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Send posts req to the notification gateway and waits for the response,
// returning an error on a transport failure or a non-2xx status. The
// notify.Queue calls it from its own drain goroutine.
func (c *Client) Send(ctx context.Context, req SendRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("notifier: send %s to %s failed: %v", req.TemplateID, req.Audience, err)
		return fmt.Errorf("%w: execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
	return nil
}
