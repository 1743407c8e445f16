package chat

import (
	"fmt"
	"sync"
)

// State names the step a conversation is waiting on. The zero value is
// idle: the next message is a command or menu choice, not a field.
type State string

const (
	StateIdle State = ""

	StateOrderAmount      State = "order_amount"
	StateOrderPayee       State = "order_payee"
	StateOrderDescription State = "order_description"

	StatePermitRecipient State = "permit_recipient"
	StatePermitGoods     State = "permit_goods"
	StatePermitCount     State = "permit_count"

	StateArchiveNumber State = "archive_number"
	StateArchiveDate   State = "archive_date"
)

// Session accumulates the fields of one multi-step flow. Sessions are
// in-memory only; a restart drops them and the user starts over from
// the menu.
type Session struct {
	State State
	Data  map[string]string
}

func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	s.Data[key] = value
}

// SessionStore keys sessions by platform and chat id, so the same
// person on two platforms runs two independent conversations.
type SessionStore interface {
	Get(platform string, chatID int64) *Session
	Put(platform string, chatID int64, s *Session)
	Reset(platform string, chatID int64)
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() SessionStore {
	return &memorySessions{sessions: map[string]*Session{}}
}

func sessionKey(platform string, chatID int64) string {
	return fmt.Sprintf("%s:%d", platform, chatID)
}

func (m *memorySessions) Get(platform string, chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionKey(platform, chatID)]; ok {
		return s
	}
	return &Session{}
}

func (m *memorySessions) Put(platform string, chatID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey(platform, chatID)] = s
}

func (m *memorySessions) Reset(platform string, chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(platform, chatID))
}
