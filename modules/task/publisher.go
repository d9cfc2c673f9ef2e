package task

import (
	"log"
	"time"

	domain "github.com/example/task-tracker-api/domain/task"
	"github.com/example/task-tracker-api/events"
	"github.com/go-monolith/mono"
)

// EventPublisher announces task mutations. Implementations must not fail the
// mutation that triggered them.
type EventPublisher interface {
	TaskCreated(t *domain.Task)
	TaskUpdated(t *domain.Task, actorID uint, changed []string)
	TaskDeleted(t *domain.Task, actorID uint)
}

// busPublisher publishes on the mono event bus, best-effort.
type busPublisher struct {
	bus mono.EventBus
}

func (p *busPublisher) TaskCreated(t *domain.Task) {
	if p.bus == nil {
		return
	}
	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
	}
	if err := events.TaskCreatedV1.Publish(p.bus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskCreated event for task %d: %v", t.ID, err)
	}
}

func (p *busPublisher) TaskUpdated(t *domain.Task, actorID uint, changed []string) {
	if p.bus == nil {
		return
	}
	event := events.TaskUpdatedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		UserID:    t.UserID,
		ActorID:   actorID,
		Changed:   changed,
		Completed: t.Completed,
		UpdatedAt: t.UpdatedAt,
	}
	if err := events.TaskUpdatedV1.Publish(p.bus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskUpdated event for task %d: %v", t.ID, err)
	}
}

func (p *busPublisher) TaskDeleted(t *domain.Task, actorID uint) {
	if p.bus == nil {
		return
	}
	event := events.TaskDeletedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		UserID:    t.UserID,
		ActorID:   actorID,
		DeletedAt: time.Now(),
	}
	if err := events.TaskDeletedV1.Publish(p.bus, event, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskDeleted event for task %d: %v", t.ID, err)
	}
}

type noopPublisher struct{}

func (noopPublisher) TaskCreated(*domain.Task) {}

func (noopPublisher) TaskUpdated(*domain.Task, uint, []string) {}

func (noopPublisher) TaskDeleted(*domain.Task, uint) {}
