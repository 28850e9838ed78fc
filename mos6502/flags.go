package mos6502

import "strings"

// 6502 Processor Status Flags
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry            = 1 << 0 // C
	FlagZero             = 1 << 1 // Z
	FlagInterruptDisable = 1 << 2 // I
	FlagDecimal          = 1 << 3 // D, readable/writable, never consulted by ADC/SBC
	FlagBreak            = 1 << 4 // B, a "ghost" bit: never stored in status, only ever seen on the stack
	FlagUnused           = 1 << 5 // always reads as 1, never otherwise meaningful
	FlagOverflow         = 1 << 6 // V
	FlagNegative         = 1 << 7 // N
)

var flagLetters = []struct {
	mask uint8
	ch   byte
}{
	{FlagNegative, 'N'},
	{FlagOverflow, 'V'},
	{FlagUnused, '-'},
	{FlagBreak, 'B'},
	{FlagDecimal, 'D'},
	{FlagInterruptDisable, 'I'},
	{FlagZero, 'Z'},
	{FlagCarry, 'C'},
}

// statusString renders p as the letters NV-BDIZC with unset bits
// shown as a dot.
func statusString(p uint8) string {
	var sb strings.Builder
	for _, f := range flagLetters {
		if p&f.mask != 0 {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// flagsOn forces every bit set in mask on in the status register.
func (c *CPU) flagsOn(mask uint8) {
	c.P |= mask
}

// flagsOff forces every bit set in mask off in the status register.
func (c *CPU) flagsOff(mask uint8) {
	c.P &^= mask
}

func (c *CPU) flagSet(mask uint8, on bool) {
	if on {
		c.flagsOn(mask)
	} else {
		c.flagsOff(mask)
	}
}

func (c *CPU) flagTest(mask uint8) bool {
	return c.P&mask != 0
}

// setNegativeAndZeroFlags sets FlagNegative and FlagZero according to
// n, as essentially every load/transfer/arithmetic instruction does.
func (c *CPU) setNegativeAndZeroFlags(n uint8) {
	c.flagSet(FlagZero, n == 0)
	c.flagSet(FlagNegative, n&0x80 != 0)
}
