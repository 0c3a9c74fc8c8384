// Package chatclient is the Go counterpart of the storefront chat widget: a
// bounded conversation transcript, one in-flight submission at a time, and
// incremental rendering of the streamed assistant reply.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"voltamax-backend/internal/models"
)

// Submission precondition violations. These mirror the server's validation
// so obviously bad input never leaves the client.
var (
	ErrBusy           = errors.New("a reply is still in progress")
	ErrEmptyInput     = errors.New("message is empty")
	ErrTooLong        = errors.New("message exceeds the maximum length")
	ErrTranscriptFull = errors.New("conversation has reached its maximum length")
)

const greeting = "Hi! I'm the VoltaMax assistant. Ask me about our batteries, shipping or warranty."

const fallbackMessage = "Sorry, something went wrong on our end. Please try again, or email support@voltamax.energy and we'll get back to you."

// Client holds the chat widget state. It is not safe for concurrent use;
// like the widget, it expects a single caller driving submissions.
type Client struct {
	endpoint   string
	authKey    string
	httpClient *http.Client
	transcript []models.ChatMessage
	awaiting   bool
	onUpdate   func(transcript []models.ChatMessage)
}

// New creates a client whose transcript is seeded with the assistant
// greeting. onUpdate is invoked after every transcript change; pass nil to
// skip rendering.
func New(endpoint, authKey string, onUpdate func([]models.ChatMessage)) *Client {
	return &Client{
		endpoint:   endpoint,
		authKey:    authKey,
		httpClient: &http.Client{},
		transcript: []models.ChatMessage{{Role: "assistant", Content: greeting}},
		onUpdate:   onUpdate,
	}
}

// Transcript returns a copy of the current conversation.
func (c *Client) Transcript() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Awaiting reports whether a submission is in flight.
func (c *Client) Awaiting() bool {
	return c.awaiting
}

// Send submits the user's input and streams the reply into the transcript.
// Precondition violations return a sentinel error without touching the
// transcript or contacting the server.
func (c *Client) Send(ctx context.Context, input string) error {
	if c.awaiting {
		return ErrBusy
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ErrEmptyInput
	}
	if len(trimmed) > models.MaxMessageLength {
		return ErrTooLong
	}
	if len(c.transcript) >= models.MaxConversationLength {
		return ErrTranscriptFull
	}

	c.awaiting = true
	defer func() { c.awaiting = false }()

	c.append(models.ChatMessage{Role: "user", Content: trimmed})
	// Placeholder the stream loop replaces wholesale on every fragment
	c.append(models.ChatMessage{Role: "assistant", Content: ""})

	if err := c.stream(ctx); err != nil {
		c.replaceLast(models.ChatMessage{Role: "assistant", Content: fallbackMessage})
		return nil
	}

	return nil
}

func (c *Client) stream(ctx context.Context) error {
	// The transcript minus the placeholder is what the server validates
	payload, err := json.Marshal(models.ChatRequest{Messages: c.transcript[:len(c.transcript)-1]})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	decoder := &streamDecoder{}
	accumulator := ""
	buf := make([]byte, 1024)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, fragment := range decoder.feed(string(buf[:n])) {
				accumulator += fragment
				c.replaceLast(models.ChatMessage{Role: "assistant", Content: accumulator})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
		if decoder.done {
			break
		}
	}

	if accumulator == "" {
		return errors.New("stream ended without content")
	}
	return nil
}

func (c *Client) append(msg models.ChatMessage) {
	c.transcript = append(c.transcript, msg)
	c.render()
}

func (c *Client) replaceLast(msg models.ChatMessage) {
	c.transcript[len(c.transcript)-1] = msg
	c.render()
}

func (c *Client) render() {
	if c.onUpdate != nil {
		c.onUpdate(c.Transcript())
	}
}
