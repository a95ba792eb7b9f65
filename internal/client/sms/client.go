// Package sms sends verification codes through an HTTP gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mini-ecom/pkg/utils"

	"go.uber.org/zap"
)

const (
	maxRetries     = 3
	retryDelay     = 500 * time.Millisecond
	requestTimeout = 10 * time.Second
)

type Sender interface {
	SendCode(ctx context.Context, phone, code string) error
}

type client struct {
	httpClient *http.Client
	gatewayURL string
	apiKey     string
	from       string
	log        *zap.Logger
}

func NewClient(config utils.SMSConfig, log *zap.Logger) Sender {
	return &client{
		httpClient: &http.Client{Timeout: requestTimeout},
		gatewayURL: config.GatewayURL,
		apiKey:     config.APIKey,
		from:       config.From,
		log:        log.With(zap.String("client", "sms")),
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (c *client) SendCode(ctx context.Context, phone, code string) error {
	body := sendRequest{
		To:      phone,
		From:    c.from,
		Message: fmt.Sprintf("Your verification code is %s", code),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal SMS payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.send(ctx, payload)
		if lastErr == nil {
			return nil
		}

		c.log.Warn("SMS send attempt failed",
			zap.Error(lastErr),
			zap.Int("attempt", attempt),
		)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("send SMS after %d attempts: %w", maxRetries, lastErr)
}

func (c *client) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	return nil
}
