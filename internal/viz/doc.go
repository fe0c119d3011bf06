// Package viz holds everything drawn outside the game grid: color themes,
// lipgloss styles, the bubbletea intro screen and the end-of-session
// summary with asciigraph plots.
package viz
