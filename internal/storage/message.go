package storage

import (
	"sync"
	"time"
)

// QuestionMessage points at the Telegram message that shows a chat's current question.
type QuestionMessage struct {
	ChatID     int64
	MessageID  int
	Generation uint64 // session generation the message was rendered for
	SentAt     time.Time
}

type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]QuestionMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]QuestionMessage),
	}
}

func (s *MessageStorage) Store(msg QuestionMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	s.messages[msg.ChatID] = msg
}

func (s *MessageStorage) Get(chatID int64) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}
