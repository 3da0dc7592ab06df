// Package session hands each user a conversation handle on the LLM runtime.
// A handle is created lazily on first prompt and dropped once it sits idle
// past the timeout, so the next prompt from that user starts a clean
// conversation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cexll/agentsdk-go/pkg/api"
)

// Runtime is the slice of the agent runtime the manager needs (allows
// mocking in tests).
type Runtime interface {
	Run(ctx context.Context, req api.Request) (*api.Response, error)
	Close()
}

type handle struct {
	id       string
	lastUsed time.Time
}

type Manager struct {
	runtime Runtime
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	handles map[string]*handle
}

func NewManager(rt Runtime, timeout time.Duration) *Manager {
	return NewManagerWithClock(rt, timeout, time.Now)
}

// NewManagerWithClock creates a Manager with an injectable clock for tests.
func NewManagerWithClock(rt Runtime, timeout time.Duration, now func() time.Time) *Manager {
	return &Manager{
		runtime: rt,
		timeout: timeout,
		now:     now,
		handles: make(map[string]*handle),
	}
}

// Prompt sends text on the user's current session, creating a fresh one if
// the user has none or the old one idled out. Failures surface to the caller
// unretried.
func (m *Manager) Prompt(ctx context.Context, userKey, text string) (string, error) {
	id := m.touch(userKey)

	resp, err := m.runtime.Run(ctx, api.Request{
		Prompt:    text,
		SessionID: id,
	})
	if err != nil {
		return "", fmt.Errorf("prompt session %s: %w", userKey, err)
	}
	if resp == nil || resp.Result == nil {
		return "", nil
	}
	return resp.Result.Output, nil
}

// touch returns the user's live session id, minting a new one when the old
// handle is gone or expired, and stamps last use.
func (m *Manager) touch(userKey string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	h, ok := m.handles[userKey]
	if !ok || now.Sub(h.lastUsed) > m.timeout {
		h = &handle{id: fmt.Sprintf("%s@%d", userKey, now.UnixNano())}
		m.handles[userKey] = h
	}
	h.lastUsed = now
	return h.id
}

// Sweep drops every handle idle past the timeout and returns how many went.
// Run it periodically; it only trims bookkeeping, in-flight prompts are
// unaffected.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	evicted := 0
	for key, h := range m.handles {
		if now.Sub(h.lastUsed) > m.timeout {
			delete(m.handles, key)
			evicted++
		}
	}
	return evicted
}

// ActiveSessions reports the number of live handles.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

func (m *Manager) Close() {
	if m.runtime != nil {
		m.runtime.Close()
	}
}
