package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookAgent delivers through an HTTP gateway that accepts a send request
// and answers 202 with a message ID.
type WebhookAgent struct {
	url    string
	client *http.Client
}

func NewWebhookAgent(url string) *WebhookAgent {
	return &WebhookAgent{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	Attachment  string `json:"attachment,omitempty"`
}

type sendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

func (a *WebhookAgent) Deliver(ctx context.Context, recipient, body, attachment string) (Ack, error) {
	reqBody, err := json.Marshal(sendRequest{
		PhoneNumber: recipient,
		Message:     body,
		Attachment:  attachment,
	})
	if err != nil {
		return Ack{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(reqBody))
	if err != nil {
		return Ack{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Ack{}, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return Ack{}, fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(respBody))
	}

	var sr sendResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return Ack{}, fmt.Errorf("failed to decode json: %w body=%q", err, string(respBody))
	}
	if sr.MessageID == "" {
		return Ack{}, fmt.Errorf("missing messageId in response body=%q", string(respBody))
	}

	return Ack{MessageID: sr.MessageID}, nil
}
