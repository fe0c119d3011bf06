// Package control provides non-human input sources for the drive.
//
// Every source here satisfies the game loop's InputSource contract: Poll
// returns at most one [dynamo.Signal] per call and reports false once
// nothing more is pending for the current tick.
//
//   - [Autopilot]: PID lane keeping plus a cruise throttle band
//   - [Script]: a fixed per-tick signal list, for tests and scenarios
//   - [None]: never signals
//
// # Usage
//
//	ap := control.NewAutopilot(params, control.AutopilotGains{Kp: 0.004, Kd: 0.2, Cruise: 0.9})
//	ap.Sync(state)          // once per tick, before draining
//	for sig, ok := ap.Poll(); ok; sig, ok = ap.Poll() { ... }
//
// [Autopilot] implements [dynamo.Configurable] for live tuning and sweeps.
package control
