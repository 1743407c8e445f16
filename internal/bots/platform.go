// Package bots defines the capability surface the core is written
// against: a Messenger per chat platform plus the polling runner. The
// session engine and notification dispatcher only ever see these types,
// never a platform wire format.
package bots

import "context"

// Button is one pressable element; Data non-empty makes it an inline
// callback button carrying an action token.
type Button struct {
	Text string
	Data string
}

// Keyboard is rendered either as a reply keyboard (menu) or as inline
// buttons under a message.
type Keyboard struct {
	Inline bool
	Rows   [][]Button
}

// Update is one inbound message or button press.
type Update struct {
	Platform string
	ChatID   int64
	Text     string
	Callback string // inline button token, empty for plain text
}

// Messenger is implemented once per platform.
type Messenger interface {
	Name() string
	SendText(ctx context.Context, chatID int64, text string, kb *Keyboard) error
	SendImage(ctx context.Context, chatID int64, image []byte, caption string, kb *Keyboard) error
	// Poll fetches pending updates after offset and returns the next
	// offset to poll from.
	Poll(ctx context.Context, offset int) ([]Update, int, error)
}

// Handler consumes inbound updates; implemented by the chat engine.
type Handler interface {
	HandleUpdate(ctx context.Context, m Messenger, u Update)
}
