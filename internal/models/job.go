package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Job is a queued background task. Jobs here are fire-and-forget
// notifications, so retry state travels with the payload instead of a
// persisted job table.
type Job struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	PayloadJSON json.RawMessage `json:"payload_json"`
	RetryCount  int             `json:"retry_count"`
}

// QuoteEmailPayload is the payload for "quote-email" jobs.
type QuoteEmailPayload struct {
	QuoteID uuid.UUID `json:"quote_id"`
}

// WarrantyEmailPayload is the payload for "warranty-email" jobs.
type WarrantyEmailPayload struct {
	Serial string `json:"serial"`
}

// ChatLogPayload is the payload for "chat-log" jobs. Only the client
// identifier and message count are recorded, never message content.
type ChatLogPayload struct {
	ClientID     string `json:"client_id"`
	MessageCount int    `json:"message_count"`
	CreatedAt    int64  `json:"created_at"`
}
