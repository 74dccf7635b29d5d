package main

import (
	"encoding/binary"
	"math"
)

//
// The interpreter's flat addressable memory, backing the indirection
// operators ('?' byte, '!' word, ']' long, '|' float, '$' string).
// The evaluator only ever computes offsets; every access lands here
// and is bounds checked.  Addresses are plain offsets from zero, so
// no real pointers ever leak into BASIC programs
//

func newBasicMemory(size int) *basicMemory {

	basicAssert(size > 0, "Bad memory size")

	return &basicMemory{data: make([]byte, size)}
}

func (m *basicMemory) check(addr int64, span int64) int {

	// Written so addr+span can not overflow for huge addresses

	runtimeCheck(addr >= 0 && addr <= int64(len(m.data))-span, EADDRESS)

	return int(addr)
}

func (m *basicMemory) readByte(addr int64) uint8 {

	return m.data[m.check(addr, 1)]
}

func (m *basicMemory) writeByte(addr int64, v uint8) {

	m.data[m.check(addr, 1)] = v
}

func (m *basicMemory) readWord(addr int64) int32 {

	off := m.check(addr, 4)

	return int32(binary.LittleEndian.Uint32(m.data[off:]))
}

func (m *basicMemory) writeWord(addr int64, v int32) {

	off := m.check(addr, 4)

	binary.LittleEndian.PutUint32(m.data[off:], uint32(v))
}

func (m *basicMemory) readLong(addr int64) int64 {

	off := m.check(addr, 8)

	return int64(binary.LittleEndian.Uint64(m.data[off:]))
}

func (m *basicMemory) writeLong(addr int64, v int64) {

	off := m.check(addr, 8)

	binary.LittleEndian.PutUint64(m.data[off:], uint64(v))
}

func (m *basicMemory) readFloat(addr int64) float64 {

	off := m.check(addr, 8)

	return math.Float64frombits(binary.LittleEndian.Uint64(m.data[off:]))
}

func (m *basicMemory) writeFloat(addr int64, v float64) {

	off := m.check(addr, 8)

	binary.LittleEndian.PutUint64(m.data[off:], math.Float64bits(v))
}

//
// '$' strings are CR terminated in memory.  A read without a CR
// before the end of memory is an address fault, not a silent
// truncation
//

func (m *basicMemory) readString(addr int64) string {

	off := m.check(addr, 1)

	for end := off; end < len(m.data); end++ {
		if m.data[end] == '\r' {
			return string(m.data[off:end])
		}
	}

	runtimeError(EADDRESS)
	panic(nil) // avoid compiler complaint
}

func (m *basicMemory) writeString(addr int64, s string) {

	off := m.check(addr, int64(len(s))+1)

	copy(m.data[off:], s)
	m.data[off+len(s)] = '\r'
}
