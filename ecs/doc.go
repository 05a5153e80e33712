// Package ecs provides ECS adapters for stagger's state events.
//
// The primary adapter is [NewDonburiSink], which forwards every state a
// stagger Tree emits into a [Donburi] world as a typed event. Subscribe to
// [StateEventType] in your ECS systems to receive them; the event's Delay
// tells the system how long to wait before showing or hiding the entity.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	tree.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
