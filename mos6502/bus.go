package mos6502

// Bus is the memory the CPU reads and writes. The 64 KiB address
// decode (RAM mirroring, PPU register mirroring, mapper dispatch) is
// not this package's concern; it belongs to whatever implements Bus
// (console.Bus in this module). Keeping the CPU decoupled from the
// address map lets it run against a flat test double, the way
// cpu_test.go's fake memory does.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// read16 returns the two bytes from memory at addr (lower byte
// first), matching the 6502's little-endian word layout.
func read16(b Bus, addr uint16) uint16 {
	lsb := uint16(b.Read(addr))
	msb := uint16(b.Read(addr + 1))
	return (msb << 8) | lsb
}

// read16ZeroPageWrap reads a 16-bit value out of the zero page,
// wrapping the high byte back to 0x00 instead of spilling into page
// one. This is the well known indexed-indirect/indirect-indexed
// addressing quirk: (zp,X) and (zp),Y never leave page zero for their
// pointer fetch, even when the pointer byte is 0xFF.
func read16ZeroPageWrap(b Bus, zp uint8) uint16 {
	lsb := uint16(b.Read(uint16(zp)))
	msb := uint16(b.Read(uint16(zp + 1)))
	return (msb << 8) | lsb
}
