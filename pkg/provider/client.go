// Package provider implements the outbound client for the WhatsApp
// gateway. The provider is an opaque dependency: its response shape is
// only partially known and every call is handled defensively.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wachat/internal/waid"
	"wachat/pkg/provider/types"

	"github.com/sirupsen/logrus"
)

type Client interface {
	SendText(ctx context.Context, req types.SendTextRequest) *types.SendResponse
	DeleteMessage(ctx context.Context, req types.DeleteMessageRequest) error
}

type GatewayClient struct {
	baseURL       string
	client        *http.Client
	sendTimeout   time.Duration
	deleteTimeout time.Duration
	logger        *logrus.Logger
}

func NewClient(baseURL string, sendTimeout, deleteTimeout time.Duration, logger *logrus.Logger) Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	return &GatewayClient{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		client:        &http.Client{},
		sendTimeout:   sendTimeout,
		deleteTimeout: deleteTimeout,
		logger:        logger,
	}
}

// SendText posts one outbound text. Group destinations (15+ digit id)
// go through the group endpoint with an @g.us suffixed id; everything
// else is a direct send. Failures of any kind come back as a response
// with Error set so the caller can record the local outcome regardless.
func (c *GatewayClient) SendText(ctx context.Context, req types.SendTextRequest) *types.SendResponse {
	var endpoint string
	var payload interface{}

	if waid.IsGroupContact(req.To) {
		endpoint = types.EndpointGroupSend
		payload = types.GroupSendPayload{
			Token:       req.Token,
			From:        req.From,
			GroupID:     waid.GroupJID(req.To),
			MessageType: "text",
			Text:        req.Text,
		}
	} else {
		endpoint = types.EndpointSendMessage
		payload = types.DirectSendPayload{
			Token:       req.Token,
			From:        req.From,
			To:          req.To,
			MessageType: "text",
			Text:        req.Text,
		}
	}

	raw, err := c.post(ctx, endpoint, payload, c.sendTimeout)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("Provider send failed")
		return &types.SendResponse{Error: err.Error()}
	}

	return &types.SendResponse{
		MessageID: ExtractMessageID(raw),
		Raw:       raw,
	}
}

// DeleteMessage asks the provider to retract a sent message. Callers
// treat any error as log-only; the local delete proceeds either way.
func (c *GatewayClient) DeleteMessage(ctx context.Context, req types.DeleteMessageRequest) error {
	payload := types.DeletePayload{
		Token:     req.Token,
		From:      req.From,
		ChatID:    req.ChatJID,
		MessageID: req.MessageID,
		FromMe:    req.FromMe,
	}

	_, err := c.post(ctx, types.EndpointDeleteMessage, payload, c.deleteTimeout)
	return err
}

func (c *GatewayClient) post(ctx context.Context, endpoint string, payload interface{}, timeout time.Duration) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// The provider occasionally answers with non-JSON bodies; treat
	// those as empty rather than failing the send path.
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil
	}

	return raw, nil
}

// ExtractMessageID probes the known provider response shapes for the
// assigned message id, in order, and settles for empty when none match.
func ExtractMessageID(raw map[string]interface{}) string {
	if raw == nil {
		return ""
	}

	if data, ok := raw["data"].(map[string]interface{}); ok {
		if key, ok := data["key"].(map[string]interface{}); ok {
			if id, ok := key["id"].(string); ok && id != "" {
				return id
			}
		}
		if id, ok := data["messageId"].(string); ok && id != "" {
			return id
		}
	}

	if id, ok := raw["messageId"].(string); ok && id != "" {
		return id
	}

	if key, ok := raw["key"].(map[string]interface{}); ok {
		if id, ok := key["id"].(string); ok && id != "" {
			return id
		}
	}

	if id, ok := raw["id"].(string); ok && id != "" {
		return id
	}

	return ""
}
