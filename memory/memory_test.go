package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_New(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(0)
	assert.Equal(DEFAULT_SIZE, mem.Size())

	mem = NewMemory(16)
	assert.Equal(16, mem.Size())
}

func TestMemory_Byte(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DEFAULT_SIZE)

	err := mem.Write8(0x2000, 0xB4)
	assert.NoError(err)

	value, err := mem.Read8(0x2000)
	assert.NoError(err)
	assert.Equal(byte(0xB4), value)

	value, err = mem.Read8(DEFAULT_SIZE - 1)
	assert.NoError(err)
	assert.Equal(byte(0), value)
}

func TestMemory_WordLittleEndian(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DEFAULT_SIZE)

	err := mem.Write16(0x100, 0x1234)
	assert.NoError(err)

	lo, _ := mem.Read8(0x100)
	hi, _ := mem.Read8(0x101)
	assert.Equal(byte(0x34), lo)
	assert.Equal(byte(0x12), hi)

	word, err := mem.Read16(0x100)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), word)

	mem.Write8(0x200, 0xCD)
	mem.Write8(0x201, 0xAB)
	word, err = mem.Read16(0x200)
	assert.NoError(err)
	assert.Equal(uint16(0xABCD), word)
}

func TestMemory_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	table := [](struct {
		name    string
		access  func() error
		address uint32
	}){
		{"read8", func() error { _, err := mem.Read8(16); return err }, 16},
		{"write8", func() error { return mem.Write8(0x20, 1) }, 0x20},
		{"read16_split", func() error { _, err := mem.Read16(15); return err }, 16},
		{"write16_split", func() error { return mem.Write16(15, 0xffff) }, 16},
		{"load", func() error { return mem.Load(12, []byte{1, 2, 3, 4, 5}) }, 16},
		{"window", func() error { _, err := mem.Window(10, 8); return err }, 16},
		{"window_negative", func() error { _, err := mem.Window(5, -1); return err }, 5},
	}

	for _, entry := range table {
		var err error
		assert.NotPanics(func() { err = entry.access() }, entry.name)
		assert.Error(err, entry.name)
		assert.True(errors.Is(err, ErrAddressRange), entry.name)

		var addr *ErrAddress
		if assert.True(errors.As(err, &addr), entry.name) {
			assert.Equal(entry.address, addr.Address, entry.name)
			assert.Equal(16, addr.Size, entry.name)
		}
	}

	// A failed split write must not touch the in-range byte.
	value, err := mem.Read8(15)
	assert.NoError(err)
	assert.Equal(byte(0), value)
}

func TestMemory_LoadWindow(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(DEFAULT_SIZE)

	program := []byte{0xB4, 0x0E, 0xB0, 0x48, 0xCD, 0x10, 0xF4}
	err := mem.Load(0x2000, program)
	assert.NoError(err)

	window, err := mem.Window(0x2000, len(program))
	assert.NoError(err)
	assert.Equal(program, window)

	// Window is a copy.
	window[0] = 0
	value, _ := mem.Read8(0x2000)
	assert.Equal(byte(0xB4), value)
}

func TestMemory_Reset(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(32)
	mem.Write16(4, 0xffff)
	mem.Reset()

	word, err := mem.Read16(4)
	assert.NoError(err)
	assert.Equal(uint16(0), word)
}
