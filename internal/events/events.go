// Package events publishes change notifications so clients can drop cached
// lists after a mutation.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Event struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entityId"`
	At        time.Time `json:"at"`
}

func New(companyID, entity, action, entityID string) Event {
	return Event{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		At:        time.Now().UTC(),
	}
}

// Publisher is best effort: failures are logged by the implementation and
// never fail the request that triggered them.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
