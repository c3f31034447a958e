// Package notification implements a banner that holds at most one transient
// message and dismisses it after a fixed delay.
package notification

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is how long a message stays visible if nobody closes it
const DefaultDelay = 3000 * time.Millisecond

type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

type Message struct {
	ID       uint64    `json:"id"`
	Text     string    `json:"message"`
	Severity Severity  `json:"type"`
	ShownAt  time.Time `json:"shown_at"`
	Expires  time.Time `json:"expires"`
}

type Banner struct {
	mu      sync.Mutex
	delay   time.Duration
	logger  *zap.Logger
	lastID  uint64
	current *Message
	timer   *time.Timer
}

func NewBanner(logger *zap.Logger, delay time.Duration) *Banner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Banner{
		delay:  delay,
		logger: logger,
	}
}

// Show replaces visible message with new one and schedules its dismissal.
func (b *Banner) Show(text string, severity Severity) Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		b.dismissLocked("replaced")
	}
	b.lastID++
	now := time.Now()
	msg := Message{
		ID:       b.lastID,
		Text:     text,
		Severity: severity,
		ShownAt:  now,
		Expires:  now.Add(b.delay),
	}
	b.current = &msg
	id := msg.ID
	b.timer = time.AfterFunc(b.delay, func() {
		b.expire(id)
	})
	b.logger.Debug("notification shown",
		zap.Uint64("id", id),
		zap.String("severity", string(severity)),
		zap.String("message", text),
	)
	return msg
}

// Close dismisses message with given id immediately.
// It returns false if that message is not visible anymore.
func (b *Banner) Close(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.ID != id {
		return false
	}
	b.dismissLocked("closed")
	return true
}

// Current returns visible message
func (b *Banner) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Message{}, false
	}
	return *b.current, true
}

// Stop removes visible message and cancels pending dismissal
func (b *Banner) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		b.dismissLocked("stopped")
	}
}

func (b *Banner) expire(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// timer could fire right before its message was replaced or closed
	if b.current == nil || b.current.ID != id {
		return
	}
	b.timer = nil
	b.dismissLocked("timeout")
}

func (b *Banner) dismissLocked(reason string) {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.logger.Debug("notification dismissed",
		zap.Uint64("id", b.current.ID),
		zap.String("reason", reason),
	)
	b.current = nil
}

func (b *Banner) pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer != nil
}
