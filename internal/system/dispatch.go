package system

import (
	"time"

	"github.com/targetrange/server/internal/core/event"
	coresys "github.com/targetrange/server/internal/core/system"
)

// EventDispatchSystem rotates the event bus buffers at tick start and
// delivers last tick's events to their subscribers.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
