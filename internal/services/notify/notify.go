package notify

import "github.com/mcoot/sleuthgame-go/internal/model"

// Notifier is told about committed session changes. Services call it only
// after the store has committed; implementations must not block and have
// no way to write back into the engine.
type Notifier interface {
	Notify(session *model.Session, changes model.Change)
}

// Nop discards every notification
type Nop struct{}

// Notify does nothing
func (Nop) Notify(*model.Session, model.Change) {}

var _ Notifier = Nop{}
