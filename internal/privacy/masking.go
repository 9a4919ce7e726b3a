// Package privacy masks personal identifiers before they reach logs.
package privacy

import (
	"strings"
)

// MaskPhoneNumber masks a phone number showing only the last 4 digits.
// Example: "+96812345678" -> "+********5678".
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskChatID masks the contact segment of a composite chat id while
// keeping the structure readable.
// Example: "96812345678_96871234567" -> "96812345678_*******4567".
func MaskChatID(chatID string) string {
	if chatID == "" {
		return ""
	}

	parts := strings.SplitN(chatID, "_", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[0] + "_" + MaskPhoneNumber(parts[1])
	}

	if len(chatID) <= 4 {
		return strings.Repeat("*", len(chatID))
	}
	return strings.Repeat("*", len(chatID)-4) + chatID[len(chatID)-4:]
}
