package mappers

import (
	"log"

	"github.com/jrcoffey/gintendo/nesrom"
)

// CHR_RAM_SIZE is the fixed 8 KiB of CHR RAM some NROM boards carry
// in place of CHR ROM.
const CHR_RAM_SIZE = 8192

// mapper0 implements NROM: no bank switching, CPU $8000-$FFFF maps
// directly onto PRG ROM, mirrored down to 16 KiB if the cartridge
// only has one bank. CHR is usually ROM but some NROM boards use
// 8 KiB of CHR RAM instead; chrRAM backs that case.
// https://www.nesdev.org/wiki/NROM
type mapper0 struct {
	*baseMapper
	chrRAM []uint8 // non-nil only when the cartridge has no CHR ROM
}

func init() {
	RegisterMapper(0, &mapper0{baseMapper: newBaseMapper(0, "NROM")})
}

func (m *mapper0) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	if r.NumChrBlocks() == 0 {
		m.chrRAM = make([]uint8, CHR_RAM_SIZE)
	}
}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	addr -= 0x8000
	if m.rom.NumPrgBlocks() == 1 {
		addr %= 0x4000
	}
	return m.rom.PrgRead(addr)
}

// PrgWrite leaves PRG ROM unchanged and logs the ignored write: NROM
// carts have no PRG RAM or bank-select registers mapped into PRG space.
func (m *mapper0) PrgWrite(addr uint16, val uint8) {
	log.Printf("mappers: ignoring write of %02X to PRG ROM at %04X", val, addr)
}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	if m.chrRAM != nil {
		return m.chrRAM[addr]
	}
	return m.rom.ChrRead(addr)
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	if m.chrRAM != nil {
		m.chrRAM[addr] = val
	}
	// Writes to CHR ROM are simply ignored.
}
