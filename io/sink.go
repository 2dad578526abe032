// Package io provides the character output devices for the BIOS teletype
// service of the rm16 interpreter: a writer-backed Teletype for consoles and
// files, and an in-memory Capture for tests and tooling.
package io

// Sink consumes one character per teletype interrupt.
type Sink interface {
	// Putc emits a single character.
	Putc(c byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(c byte) error

// Putc calls the function.
func (fn SinkFunc) Putc(c byte) error {
	return fn(c)
}

// Discard is a Sink that drops every character.
var Discard Sink = SinkFunc(func(c byte) error { return nil })
