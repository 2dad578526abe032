package io

import (
	"io"
)

// Teletype writes each character to an io.Writer, as a console would.
type Teletype struct {
	Output io.Writer

	Count int  // Characters written since the last Rewind.
	Last  byte // Most recently written character.
}

var _ Sink = (*Teletype)(nil)

// Rewind resets the character statistics.
func (tc *Teletype) Rewind() {
	tc.Count = 0
	tc.Last = 0
}

// Putc writes a character to the output stream.
// A Teletype with no Output reports ErrNoOutput.
func (tc *Teletype) Putc(c byte) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = tc.Output.Write([]byte{c})
	if err != nil {
		return
	}

	tc.Count++
	tc.Last = c

	return
}
