// Package term adapts a tcell screen to the game's Screen and InputSource.
//
// One goroutine pumps tcell events into a buffered channel; Poll drains
// that channel without blocking. Colors come from a viz.Theme and are
// picked per cell by what the character is.
package term
