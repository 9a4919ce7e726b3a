package validation

import (
	"fmt"
	"strings"
	"unicode"

	"wachat/internal/errors"
	"wachat/internal/waid"
)

const (
	minPhoneNumberLength = 6
	maxPhoneNumberLength = 20
	maxChatIDLength      = 64
	maxLabelLength       = 128
	maxMessageTextLength = 4096
)

// ValidatePhoneNumber validates a contact phone number after cleanup.
func ValidatePhoneNumber(phone string) error {
	cleaned := waid.CleanNumber(phone)
	if cleaned == "" {
		return errors.NewValidationError("contactNumber", "phone number cannot be empty")
	}

	if len(cleaned) < minPhoneNumberLength {
		return errors.NewValidationError("contactNumber",
			fmt.Sprintf("phone number must be at least %d digits", minPhoneNumberLength))
	}
	if len(cleaned) > maxPhoneNumberLength {
		return errors.NewValidationError("contactNumber",
			fmt.Sprintf("phone number too long (max %d digits)", maxPhoneNumberLength))
	}

	return nil
}

// ValidateChatID validates the composite "<line>_<contact>" id format.
func ValidateChatID(chatID string) error {
	if chatID == "" {
		return errors.NewValidationError("chatId", "chat id cannot be empty")
	}
	if len(chatID) > maxChatIDLength {
		return errors.NewValidationError("chatId",
			fmt.Sprintf("chat id too long (max %d characters)", maxChatIDLength))
	}
	if !strings.Contains(chatID, "_") {
		return errors.NewValidationError("chatId", "chat id must be in <line>_<contact> form")
	}

	for _, char := range chatID {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' && char != '@' && char != '.' && char != '-' {
			return errors.NewValidationError("chatId", "chat id contains invalid characters")
		}
	}

	return nil
}

// ValidateMessageText validates outbound text.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError("text", "message text cannot be empty")
	}
	if len(text) > maxMessageTextLength {
		return errors.NewValidationError("text",
			fmt.Sprintf("message text too long (max %d characters)", maxMessageTextLength))
	}
	return nil
}

// ValidateLabel validates a user-assigned chat label. Empty clears the
// label, so only the upper bound is enforced.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return errors.NewValidationError("label",
			fmt.Sprintf("label too long (max %d characters)", maxLabelLength))
	}
	return nil
}
