package services

import "context"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	channelIDKey contextKey = "channel_id"
	sessionIDKey contextKey = "session_id"
	commandKey   contextKey = "command"
)

// WithUserID annotates context with the invoking chat user identifier.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the invoking user identifier if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, userIDKey)
}

// WithChannelID annotates context with the conversation channel identifier.
func WithChannelID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, channelIDKey, id)
}

// ChannelIDFromContext extracts the conversation channel identifier if present.
func ChannelIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, channelIDKey)
}

// WithSessionID annotates context with the disambiguation session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the disambiguation session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, sessionIDKey)
}

// WithCommand annotates context with the chat command being handled.
func WithCommand(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, commandKey, name)
}

// CommandFromContext extracts the chat command name if present.
func CommandFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, commandKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if str, ok := ctx.Value(key).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
