// Package ecs bridges spotlight viewer events into a Donburi world.
//
// [NewDonburiSink] publishes every viewer event (open, load, navigate,
// close, calibrated, fullscreen) to [ViewerEventType]. Subscribe to it in
// your ECS systems and call ProcessEvents once per frame.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	viewer.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
