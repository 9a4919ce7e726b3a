package service

import (
	"context"

	"wachat/internal/privacy"
)

// ContextKey is a package-local type to prevent context key collisions
type ContextKey string

// VerboseContextKey is the strongly-typed context key for verbose logging flag
const VerboseContextKey ContextKey = "verbose"

// IsVerboseLogging checks if verbose logging is enabled from context
func IsVerboseLogging(ctx context.Context) bool {
	if verbose, ok := ctx.Value(VerboseContextKey).(bool); ok {
		return verbose
	}
	return false
}

// MaskChatID hides the chat id in log fields unless verbose logging
// was requested on the context.
func MaskChatID(ctx context.Context, chatID string) string {
	if IsVerboseLogging(ctx) {
		return chatID
	}
	return privacy.MaskChatID(chatID)
}

// Standard field names used across all logging calls.
const (
	LogFieldRequestID = "request_id"
	LogFieldTraceID   = "trace_id"
	LogFieldChatID    = "chat_id"
	LogFieldMessageID = "message_id"
	LogFieldLineUID   = "line_uid"

	LogFieldService   = "service"
	LogFieldComponent = "component"
	LogFieldMethod    = "method"

	LogFieldDuration = "duration_ms"
	LogFieldSize     = "size_bytes"

	LogFieldURL        = "url"
	LogFieldEndpoint   = "endpoint"
	LogFieldStatusCode = "status_code"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"
)
