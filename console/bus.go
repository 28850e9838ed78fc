// Package console wires a CPU, a PPU and a cartridge mapper together
// into the NES's one real address bus, and drives the clock that
// alternates between them.
package console

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrcoffey/gintendo/mappers"
	"github.com/jrcoffey/gintendo/mos6502"
	"github.com/jrcoffey/gintendo/ppu"
	"github.com/pkg/errors"
)

const (
	NES_BASE_MEMORY = 0x800 // 2KB built-in RAM

	MAX_ADDRESS          = math.MaxUint16
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_IO_REG           = 0x4020
	MAX_SRAM             = 0x7FFF

	OAMDMA = 0x4014 // CPU write here triggers a 256-byte copy into OAM
)

// Bus implements the NES's 64 KiB CPU address space
// (https://www.nesdev.org/wiki/CPU_memory_map) and the PPU's 16 KiB
// VRAM address space, and satisfies both mos6502.Bus and ppu.Bus so
// the two chips never talk to each other directly.
type Bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	mapper mappers.Mapper
	ram    []uint8

	// PPU-side nametable/palette backing store; pattern tables live
	// on the cartridge via mapper.ChrRead/ChrWrite.
	vram    [0x800]uint8
	palette [0x20]uint8

	cycles uint64

	// Trace, if non-nil, receives one nestest-style line per
	// instruction: the supplemented trace harness from spec.md §6.
	Trace io.Writer

	Breakpoints map[uint16]struct{}
}

func New(m mappers.Mapper) *Bus {
	b := &Bus{
		mapper:      m,
		ram:         make([]uint8, NES_BASE_MEMORY),
		Breakpoints: make(map[uint16]struct{}),
	}
	b.cpu = mos6502.New(b)
	b.ppu = ppu.New(b)
	return b
}

// SetStrict toggles the CPU's strict stack-wraparound checking; see
// mos6502.CPU.Strict.
func (b *Bus) SetStrict(strict bool) {
	b.cpu.Strict = strict
}

// TriggerNMI lets the PPU signal the CPU at the start of VBlank; the
// only channel that runs from ppu back into mos6502.
func (b *Bus) TriggerNMI() {
	b.cpu.TriggerNMI()
}

// ChrRead/ChrWrite give the PPU its 14-bit address space: pattern
// tables ($0000-$1FFF) come from the cartridge, nametables
// ($2000-$3EFF, mirrored per the mapper's mirroring mode) from
// on-console VRAM, and palette RAM ($3F00-$3FFF, mirrored every $20
// bytes) from a small fixed array.
// https://www.nesdev.org/wiki/PPU_memory_map
func (b *Bus) ChrRead(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		return b.mapper.ChrRead(a)
	case a < 0x3F00:
		return b.vram[b.nametableAddr(a)]
	default:
		return b.palette[paletteAddr(a)]
	}
}

func (b *Bus) ChrWrite(addr uint16, val uint8) {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		b.mapper.ChrWrite(a, val)
	case a < 0x3F00:
		b.vram[b.nametableAddr(a)] = val
	default:
		b.palette[paletteAddr(a)] = val
	}
}

// Mirroring modes, matching nesrom's header-derived values.
const (
	mirrorHorizontal = iota
	mirrorVertical
	mirrorFourScreen
)

// nametableAddr folds one of the four logical 1 KiB nametables down
// onto the console's 2 KiB of physical VRAM according to the
// cartridge's mirroring mode.
// https://www.nesdev.org/wiki/Mirroring#Nametable_Mirroring
func (b *Bus) nametableAddr(a uint16) uint16 {
	a -= 0x2000
	switch b.mapper.MirroringMode() {
	case mirrorVertical:
		return a % 0x800
	case mirrorFourScreen:
		// No mapper in this module provides the extra VRAM four-
		// screen mirroring needs; fall back to vertical so a ROM
		// requesting it still runs instead of panicking.
		return a % 0x800
	default: // mirrorHorizontal
		if a >= 0x800 {
			return 0x0400 + (a-0x800)%0x400
		}
		return a % 0x0400
	}
}

func paletteAddr(a uint16) uint16 {
	x := (a - 0x3F00) % 0x20
	// $3F10/$3F14/$3F18/$3F1C mirror $3F00/$3F04/$3F08/$3F0C.
	if x >= 0x10 && x%4 == 0 {
		x -= 0x10
	}
	return x
}

// Read implements mos6502.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		return b.ram[addr&0x07FF]
	case addr <= MAX_PPU_REG_MIRRORED:
		return b.ppu.ReadReg(0x2000 + addr%8)
	case addr < MAX_IO_REG:
		return 0 // APU/controller ports: no audio, no input in this module
	case addr <= MAX_SRAM:
		return 0 // cartridge SRAM: no mapper here implements it
	default:
		return b.mapper.PrgRead(addr)
	}
}

// Write implements mos6502.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		b.ram[addr&0x07FF] = val
	case addr <= MAX_PPU_REG_MIRRORED:
		b.ppu.WriteReg(0x2000+addr%8, val)
	case addr == OAMDMA:
		b.doOAMDMA(val)
	case addr < MAX_IO_REG:
		// controller/APU writes: accepted, discarded
	case addr <= MAX_SRAM:
		// no SRAM-backed mapper wired
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// doOAMDMA copies 256 bytes starting at val<<8 directly into the
// PPU's OAM backing store and stalls the CPU 513 cycles, or 514 if
// the write landed on an odd CPU cycle -- matching real hardware's
// extra alignment cycle.
// https://www.nesdev.org/wiki/DMA
func (b *Bus) doOAMDMA(val uint8) {
	base := uint16(val) << 8
	oam := b.ppu.OAM()
	for i := 0; i < len(oam); i++ {
		oam[i] = b.Read(base + uint16(i))
	}

	stall := 513
	if b.cycles%2 != 0 {
		stall = 514
	}
	b.cpu.AddStallCycles(stall)
}

// Reset pulses the CPU's reset line.
func (b *Bus) Reset() {
	b.cpu.Reset()
}

// Run drives the clock: every CPU cycle the step consumes, the PPU
// ticks three times (https://www.nesdev.org/wiki/Cycle_reference_chart).
// It returns when ctx is cancelled, a breakpoint is hit, or the CPU
// jams.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, hit := b.Breakpoints[b.cpu.PC]; hit {
			return nil
		}

		if err := b.step(); err != nil {
			return err
		}
	}
}

// RunInteractive installs a SIGINT/SIGTERM handler and runs until one
// arrives or ctx is otherwise cancelled -- the non-UI remainder of the
// teacher's BIOS() loop, stripped of its breakpoint-menu REPL.
func (b *Bus) RunInteractive(ctx context.Context) error {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigQuit)

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-sigQuit:
			cancel()
		case <-cctx.Done():
		}
	}()

	return b.Run(cctx)
}

// Step executes exactly one CPU instruction and the PPU ticks it
// implies, writing a trace line first if Trace is set.
func (b *Bus) Step() error {
	return b.step()
}

func (b *Bus) step() error {
	if b.Trace != nil {
		fmt.Fprintln(b.Trace, b.cpu.String())
	}

	cycles, err := b.cpu.Step()
	if err != nil {
		if errors.Is(err, mos6502.ErrCPUJam) {
			log.Printf("cpu jammed: %v", err)
		}
		return err
	}

	b.ppu.Tick(int(cycles) * 3)
	b.cycles += uint64(cycles)

	return nil
}
