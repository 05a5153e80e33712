// Package ecs provides ECS adapters for stagger.
package ecs

import (
	"github.com/phanxgames/stagger"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// StateEventType is the Donburi event type for stagger state events.
// Subscribe to this in your ECS systems to start delayed show/hide effects.
var StateEventType = events.NewEventType[stagger.StateEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// State events are published to StateEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) stagger.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitState(event stagger.StateEvent) {
	StateEventType.Publish(s.world, event)
}
