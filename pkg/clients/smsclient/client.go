package smsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/reminders"
)

// sendRequest is the JSON body accepted by the SMS gateway
type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Sender  string `json:"sender,omitempty"`
}

// sendResponse is the gateway's reply
type sendResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Client sends text messages through an HTTP SMS gateway
type Client struct {
	httpClient *resty.Client
	sender     string
	logger     *zap.Logger
}

// NewClient creates an SMS gateway client
func NewClient(baseURL, apiKey, sender string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		sender:     sender,
		logger:     logger,
	}
}

// Send delivers one message. Failures are reported in the outcome rather than returned.
func (c *Client) Send(ctx context.Context, recipient, message string) reminders.Outcome {
	if recipient == "" {
		return reminders.Outcome{Error: "recipient has no phone number"}
	}

	var result sendResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(sendRequest{To: recipient, Message: message, Sender: c.sender}).
		SetResult(&result).
		SetError(&result).
		Post("/messages")
	if err != nil {
		c.logger.Warn("SMS request failed", zap.String("recipient", recipient), zap.Error(err))
		return reminders.Outcome{Error: fmt.Sprintf("request failed: %v", err)}
	}

	if resp.IsError() {
		errMsg := result.Error
		if errMsg == "" {
			errMsg = resp.Status()
		}
		c.logger.Warn("SMS gateway rejected message",
			zap.String("recipient", recipient),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("error", errMsg))
		return reminders.Outcome{Error: errMsg}
	}

	c.logger.Debug("SMS sent",
		zap.String("recipient", recipient),
		zap.String("message_id", result.ID),
		zap.String("status", result.Status))

	return reminders.Outcome{Delivered: true}
}
