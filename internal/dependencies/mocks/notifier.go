package mocks

import (
	"sync"

	"github.com/mcoot/sleuthgame-go/internal/model"
	"github.com/mcoot/sleuthgame-go/internal/services/notify"
)

// Notification is one recorded Notify call
type Notification struct {
	SessionID model.SessionID
	Phase     model.Phase
	Changes   model.Change
}

// MockNotifier records notifications for assertions
type MockNotifier struct {
	mu    sync.Mutex
	calls []Notification
}

// Ensure MockNotifier implements Notifier
var _ notify.Notifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the call
func (n *MockNotifier) Notify(session *model.Session, changes model.Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Notification{SessionID: session.ID, Phase: session.Phase, Changes: changes})
}

// Calls returns a copy of the recorded notifications
func (n *MockNotifier) Calls() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.calls...)
}

// Last returns the most recent notification and whether there was one
func (n *MockNotifier) Last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return Notification{}, false
	}
	return n.calls[len(n.calls)-1], true
}

// Reset forgets recorded notifications
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = nil
}
