package apns

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/http2"

	"github.com/stagebeat/workshop-notifier/internal/config"
)

// APNs gateways. The provider requires HTTP/2.
const (
	HostProduction = "https://api.push.apple.com"
	HostSandbox    = "https://api.sandbox.push.apple.com"
)

// Client transmits push notifications over the provider's HTTP/2 endpoint.
type Client struct {
	httpClient *http.Client
	host       string
	topic      string
	tokens     *TokenSource
	log        *slog.Logger
}

func NewClient(cfg config.APNsConfig, tokens *TokenSource, log *slog.Logger) *Client {
	host := HostProduction
	if cfg.Environment == "sandbox" {
		host = HostSandbox
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http2.Transport{},
			Timeout:   cfg.Timeout,
		},
		host:   host,
		topic:  cfg.Topic,
		tokens: tokens,
		log:    log,
	}
}

// Push POSTs one payload to a device token. Anything other than a 200 is an
// error; the provider's error body is logged, not parsed.
func (c *Client) Push(ctx context.Context, deviceToken string, body []byte) error {
	bearer, err := c.tokens.Bearer()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/3/device/%s", c.host, deviceToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("authorization", "bearer "+bearer)
	req.Header.Set("apns-topic", c.topic)
	req.Header.Set("apns-push-type", "alert")
	req.Header.Set("apns-priority", "10")
	req.Header.Set("apns-expiration", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push transport failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("Push rejected by provider",
			slog.Int("status", resp.StatusCode),
			slog.String("reason", string(reason)))
		return fmt.Errorf("push rejected: status %d", resp.StatusCode)
	}
	return nil
}
