package io

// Capture stores emitted characters in memory.
type Capture struct {
	Capacity int // Capacity in characters, or 0 for unlimited.

	Data []byte
}

var _ Sink = (*Capture)(nil)

// Rewind discards all captured characters.
func (cc *Capture) Rewind() {
	cc.Data = cc.Data[:0]
}

// Putc appends a character.
// Returns ErrSinkFull if the buffer has reached capacity.
func (cc *Capture) Putc(c byte) (err error) {
	if cc.Capacity > 0 && len(cc.Data) >= cc.Capacity {
		err = ErrSinkFull
		return
	}

	cc.Data = append(cc.Data, c)

	return
}

// Count returns the number of characters captured.
func (cc *Capture) Count() int {
	return len(cc.Data)
}

// Bytes returns the captured characters.
func (cc *Capture) Bytes() []byte {
	return cc.Data
}

// String returns the captured characters as a string.
func (cc *Capture) String() string {
	return string(cc.Data)
}
