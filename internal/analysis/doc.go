// Package analysis inspects recorded drive series. Its main use is spotting
// the slow left-right weave of a poorly tuned autopilot.
package analysis
