package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	chr      [0x2000]uint8
	nmiCount int
}

func (b *fakeBus) ChrRead(addr uint16) uint8     { return b.chr[addr%uint16(len(b.chr))] }
func (b *fakeBus) ChrWrite(addr uint16, v uint8) { b.chr[addr%uint16(len(b.chr))] = v }
func (b *fakeBus) TriggerNMI()                   { b.nmiCount++ }

func dotsUntilVBlank(p *PPU) int {
	// New() starts at the pre-render line, dot 0: one scanline to
	// finish that line plus vblankLine more full scanlines, then the
	// one dot that sets VBlank.
	return DotsPerScanline*(1+vblankLine) + 1
}

func TestTickRaisesNMIAtVBlank(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.ctrl = CTRL_GENERATE_NMI

	p.Tick(dotsUntilVBlank(p))

	assert.Equal(t, 1, bus.nmiCount)
	assert.NotZero(t, p.status&STATUS_VERTICAL_BLANK)
}

func TestTickNoNMIWhenDisabled(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)

	p.Tick(dotsUntilVBlank(p))

	assert.Equal(t, 0, bus.nmiCount)
	assert.NotZero(t, p.status&STATUS_VERTICAL_BLANK, "status flag sets independent of NMI generation")
}

func TestReadStatusClearsVBlankAndLatch(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.Tick(dotsUntilVBlank(p))
	p.wLatch = true

	got := p.ReadReg(PPUSTATUS)

	assert.NotZero(t, got&STATUS_VERTICAL_BLANK)
	assert.Zero(t, p.status&STATUS_VERTICAL_BLANK)
	assert.False(t, p.wLatch)
}

func TestPPUAddrWriteIsTwoBytesBigEndian(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)

	p.WriteReg(PPUADDR, 0x21)
	p.WriteReg(PPUADDR, 0x08)

	assert.Equal(t, uint16(0x2108), p.v)
}

func TestPPUDataReadIsBufferedExceptPalette(t *testing.T) {
	bus := &fakeBus{}
	bus.chr[0x0010] = 0x42
	p := New(bus)

	p.WriteReg(PPUADDR, 0x00)
	p.WriteReg(PPUADDR, 0x10)

	first := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0), first, "first PPUDATA read returns the stale buffer")

	second := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0x42), second)

	bus.chr[0x1F00] = 0x0F // $3F00 as fakeBus sees it (8 KiB wrap)
	p.WriteReg(PPUADDR, 0x3F)
	p.WriteReg(PPUADDR, 0x00)

	palette := p.ReadReg(PPUDATA)
	assert.Equal(t, uint8(0x0F), palette, "palette PPUDATA reads skip the buffer")
}

func TestVramIncrementRespectsCtrl(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteReg(PPUCTRL, CTRL_VRAM_ADD_INCREMENT)

	before := p.v
	p.ReadReg(PPUDATA)

	assert.Equal(t, before+CTRL_INCR_DOWN, p.v)
}

func TestOAMDataPort(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)

	p.WriteReg(OAMADDR, 0x10)
	p.WriteReg(OAMDATA, 0xAB)

	assert.Equal(t, uint8(0xAB), p.oam[0x10])
	assert.Equal(t, uint8(0x11), p.oamAddr, "OAMDATA writes auto-increment OAMADDR")
}
