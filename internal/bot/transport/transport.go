// Package transport defines the chat transport boundary: a stream of inbound
// (chat, text) messages and an outbound sender with optional reply keyboards.
package transport

import "context"

// Message is one inbound chat message. Order is preserved within a chat,
// unspecified across chats.
type Message struct {
	ChatID string
	Text   string
}

// Keyboard is a reply-keyboard hint: rows of suggested reply strings.
// It is a presentation affordance only, not required for correctness.
type Keyboard [][]string

// Sender delivers outbound replies to a chat
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
	SendKeyboard(ctx context.Context, chatID, text string, keyboard Keyboard) error
}
