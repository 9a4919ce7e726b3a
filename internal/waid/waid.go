// Package waid implements the persisted chat-id convention
// "<lineNumber>_<contactOrGroupId>" and the group-detection heuristic
// keyed off it. Every layer that needs to tell groups from direct
// chats goes through this package so the predicate cannot drift.
package waid

import (
	"regexp"
	"strings"
)

// Group contact ids are long numeric runs (15 digits or more),
// optionally already suffixed with the group domain.
var groupContactPattern = regexp.MustCompile(`^\d{15,}(@g\.us)?$`)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// ChatID builds the composite chat id for a line number and contact id.
func ChatID(lineNumber, contactID string) string {
	return lineNumber + "_" + contactID
}

// Split separates a chat id into its line-number prefix and contact id.
// Contact ids may themselves contain underscores, so only the first
// separator counts. A chat id with no separator yields an empty
// contact id.
func Split(chatID string) (lineNumber, contactID string) {
	parts := strings.SplitN(chatID, "_", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// IsGroupContact reports whether a bare contact or destination id
// refers to a group.
func IsGroupContact(contactID string) bool {
	return groupContactPattern.MatchString(contactID)
}

// IsGroupChat reports whether a composite chat id refers to a group.
func IsGroupChat(chatID string) bool {
	_, contactID := Split(chatID)
	return IsGroupContact(contactID)
}

// GroupJID returns the provider-side JID for a group destination.
func GroupJID(contactID string) string {
	if strings.HasSuffix(contactID, "@g.us") {
		return contactID
	}
	return contactID + "@g.us"
}

// UserJID returns the provider-side JID for a direct destination.
func UserJID(contactID string) string {
	if strings.HasSuffix(contactID, "@s.whatsapp.net") {
		return contactID
	}
	return contactID + "@s.whatsapp.net"
}

// CleanNumber strips everything but digits from a phone number, the
// same cleanup applied before building a chat id for a new chat.
func CleanNumber(number string) string {
	return nonDigits.ReplaceAllString(number, "")
}
