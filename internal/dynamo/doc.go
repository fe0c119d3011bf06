// Package dynamo provides the core simulation primitives for the desert drive.
//
// The package defines the fundamental types shared by the physics model,
// the game loop and the headless tooling:
//
//   - [State]: the vehicle's velocity state and trip progress
//   - [Intent]: per-tick steer/throttle snapshot built from [Signal]s
//   - [Outcome]: result of one physics tick (continue, crashed, finished)
//   - [System]: interface for the pure tick transition
//   - [Metric]: per-attempt telemetry observer
//   - [Stats]: session counters (trips, crashes)
//
// # Example
//
//	veh := physics.NewVehicle(cfg.PhysicsParams())
//	var s dynamo.State
//	in := dynamo.Intent{}.Apply(dynamo.SignalUp)
//	s, outcome := veh.Step(s, in)
//
// # Thread Safety
//
// None of the types here synchronize. A [State] and its [Stats] are owned
// by exactly one loop.
package dynamo
