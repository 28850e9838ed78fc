// Package mos6502 implements the MOS Technology 6502 processor core
// used by the NES (the 2A03, a 6502 variant with the decimal mode
// silicon disconnected but the D flag still present).
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// 6502 interrupt vectors.
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE // BRK shares the IRQ vector
)

const stackPage = 0x0100

// CPU holds all architectural state for a single 6502/2A03 core: the
// three general registers, the stack pointer, program counter, status
// flags, and the running cycle count. Memory is never embedded
// directly; all access goes through Bus so the CPU stays decoupled
// from NES-specific address decoding.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8
	Cycles  uint64

	// Strict turns stack pointer wraparound into a fatal error
	// instead of the hardware-accurate wrap, which is otherwise
	// only logged. Off by
	// default; a trace-comparison harness turns it on so a
	// divergence fails loudly instead of quietly drifting.
	Strict bool

	bus Bus

	stall        int  // cycles to burn doing nothing (OAMDMA, etc)
	nmiPending   bool
	irqPending   bool
	jammed       bool
	extraCycles  uint8 // accumulated by addressing/branch during the current Step
	lastInstrPC  uint16
}

// New constructs a CPU wired to bus and powered on. Register values
// at power-on match real hardware:
// https://www.nesdev.org/wiki/CPU_power_up_state
func New(bus Bus) *CPU {
	c := &CPU{
		bus: bus,
		SP:  0xFD,
		P:   FlagUnused | FlagInterruptDisable,
	}
	c.PC = read16(bus, vectorReset)
	return c
}

func (c *CPU) String() string {
	return fmt.Sprintf("%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.PC, c.A, c.X, c.Y, c.P, c.SP, c.Cycles)
}

// Reset pulses the reset line: PC is reloaded from the reset vector,
// I is forced on, and SP drops by 3 (the three phantom stack pushes a
// real reset performs, without actually writing memory).
func (c *CPU) Reset() {
	c.SP -= 3
	c.flagsOn(FlagInterruptDisable | FlagUnused)
	c.PC = read16(c.bus, vectorReset)
	c.jammed = false
}

// TriggerNMI latches a non-maskable interrupt to be serviced at the
// start of the next Step. This is the only channel the PPU has back
// into the CPU — a narrow callback, never a direct method call into
// instruction dispatch.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// TriggerIRQ latches a maskable interrupt; it is serviced only if
// FlagInterruptDisable is clear.
func (c *CPU) TriggerIRQ() {
	c.irqPending = true
}

// AddStallCycles burns n cycles doing nothing before the next
// instruction fetch. OAMDMA (spec'd at 513 or 514 cycles depending on
// CPU alignment) is the only user of this today.
func (c *CPU) AddStallCycles(n int) {
	c.stall += n
}

// Jammed reports whether the CPU has executed a JAM/KIL opcode. Only
// Reset clears this.
func (c *CPU) Jammed() bool {
	return c.jammed
}

// Step executes exactly one instruction (or burns one stalled cycle,
// or services one pending interrupt) and returns the number of CPU
// cycles it consumed. Callers drive the PPU/APU by this many cycles
// times three before calling Step again.
func (c *CPU) Step() (cycles uint8, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				cycles, err = 0, e
				return
			}
			panic(r)
		}
	}()

	if c.stall > 0 {
		c.stall--
		c.Cycles++
		return 1, nil
	}

	if c.jammed {
		return 0, errors.Wrapf(ErrCPUJam, "pc=%04X", c.PC)
	}

	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(vectorNMI, false)
		c.Cycles += 7
		return 7, nil
	}

	if c.irqPending {
		c.irqPending = false
		if !c.flagTest(FlagInterruptDisable) {
			c.serviceInterrupt(vectorIRQ, false)
			c.Cycles += 7
			return 7, nil
		}
	}

	opByte := c.bus.Read(c.PC)
	op := opcodes[opByte]
	c.lastInstrPC = c.PC
	c.PC++

	if op.bytes == 0 {
		return 0, errors.Wrapf(ErrUnknownOpcode, "opcode=%02X pc=%04X", opByte, c.lastInstrPC)
	}

	c.extraCycles = 0
	fn, ok := dispatch[op.inst]
	if !ok {
		return 0, errors.Wrapf(ErrUnimplementedOpcode, "opcode=%02X pc=%04X", opByte, c.lastInstrPC)
	}
	fn(c, op.mode)

	cycles = op.cycles
	if op.pageCross {
		cycles += c.extraCycles
	} else if op.mode == Relative {
		cycles += c.extraCycles
	}
	c.Cycles += uint64(cycles)

	return cycles, nil
}

// serviceInterrupt pushes PC and status and jumps through vector, the
// shape shared by NMI, IRQ and BRK. brk is true only for the BRK
// instruction itself: the status byte it pushes has the B flag set,
// while a hardware-triggered NMI/IRQ pushes it clear -- the one
// difference between the three on real silicon.
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushAddr(c.PC)
	p := c.P | FlagUnused
	if brk {
		p |= FlagBreak
	} else {
		p &^= FlagBreak
	}
	c.pushStack(p)
	c.flagsOn(FlagInterruptDisable)
	c.PC = read16(c.bus, vector)
}

// pageCrossed reports whether a and b fall in different 256-byte
// pages, the condition that costs most indexed addressing modes (and
// taken branches) an extra cycle.
func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (c *CPU) stackAddr() uint16 {
	return stackPage + uint16(c.SP)
}

func (c *CPU) pushStack(v uint8) {
	c.bus.Write(c.stackAddr(), v)
	if c.SP == 0x00 {
		if c.Strict {
			panic(errors.Wrapf(ErrStackOverflow, "pc=%04X", c.PC))
		}
		log.Printf("mos6502: stack pointer wrapped from 0x00 to 0xFF at pc=%04X", c.PC)
	}
	c.SP--
}

func (c *CPU) popStack() uint8 {
	if c.SP == 0xFF {
		if c.Strict {
			panic(errors.Wrapf(ErrStackUnderflow, "pc=%04X", c.PC))
		}
		log.Printf("mos6502: stack pointer wrapped from 0xFF to 0x00 at pc=%04X", c.PC)
	}
	c.SP++
	return c.bus.Read(c.stackAddr())
}

func (c *CPU) pushAddr(addr uint16) {
	c.pushStack(uint8(addr >> 8))
	c.pushStack(uint8(addr & 0x00FF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.popStack())
	hi := uint16(c.popStack())
	return (hi << 8) | lo
}

// operandAddr resolves mode against the byte(s) immediately following
// the opcode, advancing PC past whatever operand bytes it consumes.
// Accumulator and Implicit never call this; Relative has its own path
// via branch(), since only branches use it.
func (c *CPU) operandAddr(mode uint8) uint16 {
	switch mode {
	case Immediate:
		addr := c.PC
		c.PC++
		return addr
	case ZeroPage:
		addr := uint16(c.bus.Read(c.PC))
		c.PC++
		return addr
	case ZeroPageX:
		zp := c.bus.Read(c.PC) + c.X
		c.PC++
		return uint16(zp)
	case ZeroPageY:
		zp := c.bus.Read(c.PC) + c.Y
		c.PC++
		return uint16(zp)
	case Absolute:
		addr := read16(c.bus, c.PC)
		c.PC += 2
		return addr
	case AbsoluteX:
		base := read16(c.bus, c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		if pageCrossed(base, addr) {
			c.extraCycles++
		}
		return addr
	case AbsoluteY:
		base := read16(c.bus, c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		if pageCrossed(base, addr) {
			c.extraCycles++
		}
		return addr
	case Indirect:
		ptr := read16(c.bus, c.PC)
		c.PC += 2
		return c.indirectRead(ptr)
	case IndirectX:
		zp := c.bus.Read(c.PC) + c.X
		c.PC++
		return read16ZeroPageWrap(c.bus, zp)
	case IndirectY:
		zp := c.bus.Read(c.PC)
		c.PC++
		base := read16ZeroPageWrap(c.bus, zp)
		addr := base + uint16(c.Y)
		if pageCrossed(base, addr) {
			c.extraCycles++
		}
		return addr
	default:
		panic(fmt.Sprintf("mos6502: addressing mode %d has no operand address", mode))
	}
}

// indirectRead implements JMP (ind), including the famous page-wrap
// hardware bug: when the pointer's low byte is 0xFF, the high byte is
// fetched from the start of the *same* page instead of the next one.
func (c *CPU) indirectRead(ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.bus.Read(hiAddr))
	return (hi << 8) | lo
}

func (c *CPU) relativeTarget() uint16 {
	offset := int8(c.bus.Read(c.PC))
	c.PC++
	return uint16(int32(c.PC) + int32(offset))
}

// branch evaluates cond and, if true, jumps to the relative target,
// charging the extra cycle(s) taken branches and page-crossing
// branches cost. The page-cross comparison is against the
// instruction's end address (c.PC, after consuming the offset byte),
// not PC-1 as a naive port of the reference implementation would do.
func (c *CPU) branch(cond bool) {
	target := c.relativeTarget()
	if !cond {
		return
	}
	c.extraCycles++
	if pageCrossed(c.PC, target) {
		c.extraCycles++
	}
	c.PC = target
}

func (c *CPU) readOperand(mode uint8) uint8 {
	return c.bus.Read(c.operandAddr(mode))
}

// addWithOverflow is ADC's core: adds b and the carry flag into A,
// setting C/V/N/Z. SBC reuses it with b's ones' complement, which is
// the standard no-borrow formulation: C ends up set when no borrow
// occurred.
func (c *CPU) addWithOverflow(b uint8) {
	sum := uint16(c.A) + uint16(b) + uint16(c.P&FlagCarry)
	result := uint8(sum)

	overflow := (c.A^result)&(b^result)&0x80 != 0

	c.flagSet(FlagCarry, sum > 0xFF)
	c.flagSet(FlagOverflow, overflow)
	c.A = result
	c.setNegativeAndZeroFlags(c.A)
}

func (c *CPU) compare(reg, val uint8) {
	c.flagSet(FlagCarry, reg >= val)
	c.setNegativeAndZeroFlags(reg - val)
}

func (c *CPU) aslValue(v uint8) uint8 {
	res := v << 1
	c.flagSet(FlagCarry, v&0x80 != 0)
	c.setNegativeAndZeroFlags(res)
	return res
}

func (c *CPU) lsrValue(v uint8) uint8 {
	res := v >> 1
	c.flagSet(FlagCarry, v&0x01 != 0)
	c.setNegativeAndZeroFlags(res)
	return res
}

func (c *CPU) rolValue(v uint8) uint8 {
	res := (v << 1) | (c.P & FlagCarry)
	c.flagSet(FlagCarry, v&0x80 != 0)
	c.setNegativeAndZeroFlags(res)
	return res
}

func (c *CPU) rorValue(v uint8) uint8 {
	res := (v >> 1) | ((c.P & FlagCarry) << 7)
	c.flagSet(FlagCarry, v&0x01 != 0)
	c.setNegativeAndZeroFlags(res)
	return res
}
