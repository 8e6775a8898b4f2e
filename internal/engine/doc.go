// Package engine keeps two playback channels in lock-step.
//
// Every logical command is issued to the primary channel first and the
// secondary second. Position and length are read from the primary only;
// drift between the two is not measured.
package engine
