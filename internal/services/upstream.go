package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"voltamax-backend/internal/models"
)

// Sentinel errors for the upstream status codes the handler maps onto its
// own responses. Upstream error bodies are logged here and never surfaced.
var (
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstreamQuota       = errors.New("upstream quota exhausted")
)

// systemPrompt is prepended to every forwarded conversation. The handler
// rejects client-supplied "system" messages, so this is the only system
// instruction the model ever sees.
const systemPrompt = `You are the VoltaMax support assistant on the VoltaMax battery storefront.
Answer questions about VoltaMax products, chemistry, compatibility, shipping and warranty.
Every VoltaMax battery carries a five-year warranty from the date of purchase.
Keep answers short and factual. If you are unsure, direct the customer to support@voltamax.energy.
Never discuss topics unrelated to VoltaMax products.`

// UpstreamClient talks to the OpenAI-compatible chat completions gateway.
type UpstreamClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewUpstreamClient(baseURL, apiKey, model string) *UpstreamClient {
	return &UpstreamClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{}, // no client timeout: responses are long-lived streams
	}
}

type upstreamRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

// StreamChat forwards the conversation with the fixed system prompt
// prepended and returns the raw event-stream body for passthrough. The
// caller owns the returned reader and must close it.
func (c *UpstreamClient) StreamChat(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error) {
	forwarded := make([]models.ChatMessage, 0, len(messages)+1)
	forwarded = append(forwarded, models.ChatMessage{Role: "system", Content: systemPrompt})
	forwarded = append(forwarded, messages...)

	body, err := json.Marshal(upstreamRequest{
		Model:    c.model,
		Messages: forwarded,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		log.Printf("upstream returned %d: %s", resp.StatusCode, string(errBody))

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, ErrUpstreamRateLimited
		case http.StatusPaymentRequired:
			return nil, ErrUpstreamQuota
		default:
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}
	}

	return resp.Body, nil
}
