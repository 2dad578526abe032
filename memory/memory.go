// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat byte-addressable memory image shared by
// the CPU and its loader.
package memory

import (
	"log"
)

const (
	DEFAULT_SIZE = 0x10_0000 // 1MiB, the full real-mode address space.
)

// Memory is a fixed-size byte buffer with little-endian word accessors.
type Memory struct {
	Verbose bool // If set, logs out of range accesses.

	data []byte
}

// NewMemory creates a new zero-filled memory of size bytes.
func NewMemory(size int) (mem *Memory) {
	if size <= 0 {
		size = DEFAULT_SIZE
	}

	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size returns the number of bytes in the memory.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zero-fills the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// check verifies that count bytes starting at addr are within the buffer.
// A negative count is always out of range.
func (mem *Memory) check(addr uint32, count int) (err error) {
	if count < 0 {
		err = &ErrAddress{Address: addr, Size: len(mem.data)}
		return
	}

	end := uint64(addr) + uint64(count)
	if end > uint64(len(mem.data)) {
		bad := addr
		if uint64(addr) < uint64(len(mem.data)) {
			bad = uint32(len(mem.data))
		}
		err = &ErrAddress{Address: bad, Size: len(mem.data)}
		if mem.Verbose {
			log.Printf("memory: %v", err)
		}
	}

	return
}

// Read8 returns the byte at addr.
func (mem *Memory) Read8(addr uint32) (value byte, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// Write8 stores a byte at addr.
func (mem *Memory) Write8(addr uint32, value byte) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// Read16 returns the little-endian word at addr.
func (mem *Memory) Read16(addr uint32) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	value = uint16(mem.data[addr]) | (uint16(mem.data[addr+1]) << 8)
	return
}

// Write16 stores a little-endian word at addr.
// Neither byte is written if either is out of range.
func (mem *Memory) Write16(addr uint32, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	mem.data[addr] = byte(value & 0xff)
	mem.data[addr+1] = byte(value >> 8)
	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Window returns a copy of count bytes starting at addr.
func (mem *Memory) Window(addr uint32, count int) (window []byte, err error) {
	err = mem.check(addr, count)
	if err != nil {
		return
	}

	window = make([]byte, count)
	copy(window, mem.data[addr:])
	return
}
