package service

import (
	"context"
	"testing"

	"wachat/internal/privacy"

	"github.com/stretchr/testify/assert"
)

func TestIsVerboseLoggingDefaultsOff(t *testing.T) {
	assert.False(t, IsVerboseLogging(context.Background()))
}

func TestMaskChatIDHonorsVerboseContext(t *testing.T) {
	chatID := "96890000000_96891111111"

	masked := MaskChatID(context.Background(), chatID)
	assert.Equal(t, privacy.MaskChatID(chatID), masked)
	assert.NotEqual(t, chatID, masked)

	verbose := context.WithValue(context.Background(), VerboseContextKey, true)
	assert.Equal(t, chatID, MaskChatID(verbose, chatID))
}
