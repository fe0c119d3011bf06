// Package game runs a driving session: the attempt loop, the fixed-tick
// loop inside it, and painting each frame onto a [Screen].
//
// A session is a sequence of attempts. Each attempt starts from a zero
// [dynamo.State] and ends in a crash (the session continues with a new
// attempt after a pause), an arrival, or a quit. Per tick the loop drains
// input, steps the physics model, handles crash and arrival, renders, and
// sleeps off whatever remains of the tick interval.
//
// Terminal I/O is never touched directly. Callers pass an [InputSource]
// and a [Screen]; package term provides tcell-backed ones.
package game
