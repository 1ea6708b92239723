package chat

import (
	"sync"

	"github.com/ashureev/folio/internal/domain"
)

// History is a fixed-size ring of chat messages. When full, appending
// overwrites the oldest message, so a long conversation keeps only its
// most recent turns.
type History struct {
	buf  []domain.ChatMessage
	size int
	head int // write position
	len  int
	mu   sync.RWMutex
}

// NewHistory creates a history holding at most size messages.
func NewHistory(size int) *History {
	if size <= 0 {
		size = 10
	}
	return &History{
		buf:  make([]domain.ChatMessage, size),
		size: size,
	}
}

// Append adds a message, evicting the oldest one when full.
func (h *History) Append(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf[h.head] = msg
	h.head = (h.head + 1) % h.size
	if h.len < h.size {
		h.len++
	}
}

// Messages returns the stored messages, oldest first.
func (h *History) Messages() []domain.ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.ChatMessage, 0, h.len)
	start := (h.head - h.len + h.size) % h.size
	for i := 0; i < h.len; i++ {
		out = append(out, h.buf[(start+i)%h.size])
	}
	return out
}

// Len returns the number of stored messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.len
}

// Reset clears the history.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.head = 0
	h.len = 0
	clear(h.buf)
}

// Capacity returns the maximum number of messages kept.
func (h *History) Capacity() int {
	return h.size
}

// lastN returns the trailing n messages of msgs.
func lastN(msgs []domain.ChatMessage, n int) []domain.ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
