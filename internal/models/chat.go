package models

import (
	"time"
)

// Chat is one conversation thread on one line, keyed by
// "<lineNumber>_<contactOrGroupId>".
type Chat struct {
	ChatID       string    `json:"chat_id"`
	LineUID      string    `json:"uid"`
	SenderName   string    `json:"sender_name"`
	SenderMobile string    `json:"sender_mobile"`
	Label        string    `json:"chat_label"`
	LastMessage  *string   `json:"-"`
	UnreadCount  int       `json:"unread_count"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LastMessageSnapshot is the denormalized preview stored in
// chats.last_message, refreshed on every send/receive.
type LastMessageSnapshot struct {
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Type      string `json:"type,omitempty"`
	Route     Route  `json:"route,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// ContactRow is one entry of the distinct-contacts listing for a line.
type ContactRow struct {
	SenderName   string `json:"sender_name"`
	SenderMobile string `json:"sender_mobile"`
	Label        string `json:"chat_label"`
	ChatID       string `json:"chat_id"`
	DisplayName  string `json:"displayName"`
}
