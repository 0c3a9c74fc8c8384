package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voltamax-backend/internal/middleware"
	"voltamax-backend/internal/models"
	"voltamax-backend/internal/services"
)

type chatUpstream interface {
	StreamChat(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error)
}

type ChatHandler struct {
	upstream chatUpstream
	queue    *redis.Client // nil disables async usage logging
}

func NewChatHandler(upstream chatUpstream, queue *redis.Client) *ChatHandler {
	return &ChatHandler{
		upstream: upstream,
		queue:    queue,
	}
}

// Stream validates the conversation, forwards it upstream and relays the
// event stream back byte for byte. Rate limiting has already run in
// middleware by the time this handler sees the request.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	messages, errMsg := validateConversation(req.Messages)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", errMsg, r))
		return
	}

	clientID := middleware.GetClientID(r.Context())
	if clientID == "" {
		clientID = middleware.ClientID(r)
	}
	// Only the client identifier and message count are logged, never content.
	log.Printf("chat request from %s (%d messages)", clientID, len(messages))

	stream, err := h.upstream.StreamChat(r.Context(), messages)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUpstreamRateLimited):
			writeJSON(w, http.StatusTooManyRequests, errorResp("RATE_LIMITED", "The assistant is busy. Please try again in a moment.", r))
		case errors.Is(err, services.ErrUpstreamQuota):
			writeJSON(w, http.StatusPaymentRequired, errorResp("QUOTA_EXCEEDED", "The assistant is temporarily unavailable.", r))
		default:
			log.Printf("upstream chat request failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to get AI response", r))
		}
		return
	}
	defer stream.Close()

	h.enqueueUsageLog(clientID, len(messages))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				// Caller stopped reading; dropping the stream stops the
				// upstream pull as well.
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("upstream stream read ended: %v", err)
			}
			return
		}
	}
}

// validateConversation checks the inbound messages in order and returns the
// trimmed conversation, or a message describing the first violation.
func validateConversation(messages []models.ChatMessage) ([]models.ChatMessage, string) {
	if messages == nil {
		return nil, "Messages array is required"
	}
	if len(messages) == 0 {
		return nil, "Messages array cannot be empty"
	}
	if len(messages) > models.MaxConversationLength {
		return nil, fmt.Sprintf("Conversation exceeds the maximum of %d messages", models.MaxConversationLength)
	}

	validated := make([]models.ChatMessage, 0, len(messages))
	for i, msg := range messages {
		// Only user and assistant turns are accepted; a client-supplied
		// "system" role could override the fixed system prompt.
		if msg.Role != "user" && msg.Role != "assistant" {
			return nil, fmt.Sprintf("Message %d has an invalid role", i)
		}

		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return nil, fmt.Sprintf("Message %d content cannot be empty", i)
		}
		if len(msg.Content) > models.MaxMessageLength {
			return nil, fmt.Sprintf("Message %d exceeds the maximum length of %d characters", i, models.MaxMessageLength)
		}

		validated = append(validated, models.ChatMessage{Role: msg.Role, Content: content})
	}

	return validated, ""
}

// enqueueUsageLog pushes a chat-log job for the worker. Failures are logged
// and ignored; usage logging must never affect the request path.
func (h *ChatHandler) enqueueUsageLog(clientID string, messageCount int) {
	if h.queue == nil {
		return
	}

	job := models.Job{
		ID:   uuid.New(),
		Type: "chat-log",
	}
	payload, _ := json.Marshal(models.ChatLogPayload{
		ClientID:     clientID,
		MessageCount: messageCount,
		CreatedAt:    time.Now().Unix(),
	})
	job.PayloadJSON = payload

	jobBytes, _ := json.Marshal(job)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.queue.LPush(ctx, "queue:chat-log", string(jobBytes)).Err(); err != nil {
			log.Printf("failed to enqueue chat log: %v", err)
		}
	}()
}
