// Package physics provides the vehicle model for the desert drive.
//
// [Vehicle] implements [dynamo.System]: a pure transition from the current
// [dynamo.State] and a tick's [dynamo.Intent] to the next state and an
// [dynamo.Outcome]. Per tick it
//
//   - updates the heading from steer input, then adds the passive lean
//   - accelerates or brakes, clamped to SpeedMax plus the overreach margin
//   - applies on-road or off-road drag (off-road drag below zero is a crash)
//   - moves along the heading at the effective speed, capped at SpeedMax
//   - reports Finished once the trip length is covered
//
// [Vehicle] also implements [dynamo.Configurable] so sweeps can retune it:
//
//	veh := physics.NewVehicle(physics.DefaultParams())
//	_ = veh.SetParam("angle_lean", math.Pi/10000)
package physics
