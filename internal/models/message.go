package models

import (
	"time"
)

type Route string

const (
	RouteIncoming Route = "INCOMING"
	RouteOutgoing Route = "OUTGOING"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusPending   MessageStatus = "pending"
)

// Message is one row of the conversation log. RawContent holds the
// provider payload exactly as stored; the content normalizer turns it
// into a ParsedMessage at read time.
type Message struct {
	ID            int64         `json:"id"`
	ChatID        string        `json:"chatId"`
	LineUID       string        `json:"lineUid"`
	Type          string        `json:"type"`
	Route         Route         `json:"route"`
	Status        MessageStatus `json:"status"`
	RawContent    string        `json:"-"`
	ProviderMsgID *string       `json:"providerMessageId,omitempty"`
	QuotedContent *string       `json:"-"`
	Reaction      *string       `json:"reaction,omitempty"`
	Timestamp     int64         `json:"timestamp,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}
