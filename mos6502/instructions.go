package mos6502

// dispatch maps an instruction id (opcode.inst) to the function that
// executes it. mode is passed through so one function can serve every
// addressing mode an instruction supports.
var dispatch = map[uint8]func(*CPU, uint8){
	ADC: (*CPU).adc,
	AND: (*CPU).and,
	ASL: (*CPU).asl,
	BCC: func(c *CPU, _ uint8) { c.branch(!c.flagTest(FlagCarry)) },
	BCS: func(c *CPU, _ uint8) { c.branch(c.flagTest(FlagCarry)) },
	BEQ: func(c *CPU, _ uint8) { c.branch(c.flagTest(FlagZero)) },
	BIT: (*CPU).bit,
	BMI: func(c *CPU, _ uint8) { c.branch(c.flagTest(FlagNegative)) },
	BNE: func(c *CPU, _ uint8) { c.branch(!c.flagTest(FlagZero)) },
	BPL: func(c *CPU, _ uint8) { c.branch(!c.flagTest(FlagNegative)) },
	BRK: (*CPU).brk,
	BVC: func(c *CPU, _ uint8) { c.branch(!c.flagTest(FlagOverflow)) },
	BVS: func(c *CPU, _ uint8) { c.branch(c.flagTest(FlagOverflow)) },
	CLC: func(c *CPU, _ uint8) { c.flagsOff(FlagCarry) },
	CLD: func(c *CPU, _ uint8) { c.flagsOff(FlagDecimal) },
	CLI: func(c *CPU, _ uint8) { c.flagsOff(FlagInterruptDisable) },
	CLV: func(c *CPU, _ uint8) { c.flagsOff(FlagOverflow) },
	CMP: func(c *CPU, mode uint8) { c.compare(c.A, c.readOperand(mode)) },
	CPX: func(c *CPU, mode uint8) { c.compare(c.X, c.readOperand(mode)) },
	CPY: func(c *CPU, mode uint8) { c.compare(c.Y, c.readOperand(mode)) },
	DEC: (*CPU).dec,
	DEX: func(c *CPU, _ uint8) { c.X--; c.setNegativeAndZeroFlags(c.X) },
	DEY: func(c *CPU, _ uint8) { c.Y--; c.setNegativeAndZeroFlags(c.Y) },
	EOR: func(c *CPU, mode uint8) { c.A ^= c.readOperand(mode); c.setNegativeAndZeroFlags(c.A) },
	INC: (*CPU).inc,
	INX: func(c *CPU, _ uint8) { c.X++; c.setNegativeAndZeroFlags(c.X) },
	INY: func(c *CPU, _ uint8) { c.Y++; c.setNegativeAndZeroFlags(c.Y) },
	JMP: func(c *CPU, mode uint8) { c.PC = c.operandAddr(mode) },
	JSR: (*CPU).jsr,
	LDA: func(c *CPU, mode uint8) { c.A = c.readOperand(mode); c.setNegativeAndZeroFlags(c.A) },
	LDX: func(c *CPU, mode uint8) { c.X = c.readOperand(mode); c.setNegativeAndZeroFlags(c.X) },
	LDY: func(c *CPU, mode uint8) { c.Y = c.readOperand(mode); c.setNegativeAndZeroFlags(c.Y) },
	LSR: (*CPU).lsr,
	NOP: func(c *CPU, _ uint8) {},
	ORA: func(c *CPU, mode uint8) { c.A |= c.readOperand(mode); c.setNegativeAndZeroFlags(c.A) },
	PHA: func(c *CPU, _ uint8) { c.pushStack(c.A) },
	PHP: func(c *CPU, _ uint8) { c.pushStack(c.P | FlagBreak | FlagUnused) },
	PLA: func(c *CPU, _ uint8) { c.A = c.popStack(); c.setNegativeAndZeroFlags(c.A) },
	PLP: func(c *CPU, _ uint8) { c.P = (c.popStack() &^ FlagBreak) | FlagUnused },
	ROL: (*CPU).rol,
	ROR: (*CPU).ror,
	RTI: (*CPU).rti,
	RTS: (*CPU).rts,
	SBC: func(c *CPU, mode uint8) { c.addWithOverflow(^c.readOperand(mode)) },
	SEC: func(c *CPU, _ uint8) { c.flagsOn(FlagCarry) },
	SED: func(c *CPU, _ uint8) { c.flagsOn(FlagDecimal) },
	SEI: func(c *CPU, _ uint8) { c.flagsOn(FlagInterruptDisable) },
	STA: func(c *CPU, mode uint8) { c.bus.Write(c.operandAddr(mode), c.A) },
	STX: func(c *CPU, mode uint8) { c.bus.Write(c.operandAddr(mode), c.X) },
	STY: func(c *CPU, mode uint8) { c.bus.Write(c.operandAddr(mode), c.Y) },
	TAX: func(c *CPU, _ uint8) { c.X = c.A; c.setNegativeAndZeroFlags(c.X) },
	TAY: func(c *CPU, _ uint8) { c.Y = c.A; c.setNegativeAndZeroFlags(c.Y) },
	TSX: func(c *CPU, _ uint8) { c.X = c.SP; c.setNegativeAndZeroFlags(c.X) },
	TXA: func(c *CPU, _ uint8) { c.A = c.X; c.setNegativeAndZeroFlags(c.A) },
	TXS: func(c *CPU, _ uint8) { c.SP = c.X },
	TYA: func(c *CPU, _ uint8) { c.A = c.Y; c.setNegativeAndZeroFlags(c.A) },

	iSLO: (*CPU).slo,
	iRLA: (*CPU).rla,
	iSRE: (*CPU).sre,
	iRRA: (*CPU).rra,
	iSAX: func(c *CPU, mode uint8) { c.bus.Write(c.operandAddr(mode), c.A&c.X) },
	iLAX: func(c *CPU, mode uint8) {
		c.A = c.readOperand(mode)
		c.X = c.A
		c.setNegativeAndZeroFlags(c.A)
	},
	iDCP: (*CPU).dcp,
	iISC: (*CPU).isc,
	iANC: func(c *CPU, mode uint8) {
		c.A &= c.readOperand(mode)
		c.setNegativeAndZeroFlags(c.A)
		c.flagSet(FlagCarry, c.A&0x80 != 0)
	},
	iALR: func(c *CPU, mode uint8) {
		c.A &= c.readOperand(mode)
		c.A = c.lsrValue(c.A)
	},
	iARR: (*CPU).arr,
	iSBX: func(c *CPU, mode uint8) {
		v := c.readOperand(mode)
		and := c.A & c.X
		c.flagSet(FlagCarry, and >= v)
		c.X = and - v
		c.setNegativeAndZeroFlags(c.X)
	},
	iSBC: func(c *CPU, mode uint8) { c.addWithOverflow(^c.readOperand(mode)) },
	iLAS: func(c *CPU, mode uint8) {
		v := c.readOperand(mode) & c.SP
		c.A, c.X, c.SP = v, v, v
		c.setNegativeAndZeroFlags(v)
	},
	iNOP: func(c *CPU, mode uint8) {
		if mode != Implicit {
			c.operandAddr(mode) // still consumes/charges the operand
		}
	},
	iJAM: func(c *CPU, _ uint8) { c.jammed = true },
}

func (c *CPU) adc(mode uint8) {
	c.addWithOverflow(c.readOperand(mode))
}

func (c *CPU) and(mode uint8) {
	c.A &= c.readOperand(mode)
	c.setNegativeAndZeroFlags(c.A)
}

func (c *CPU) asl(mode uint8) {
	if mode == Accumulator {
		c.A = c.aslValue(c.A)
		return
	}
	addr := c.operandAddr(mode)
	c.bus.Write(addr, c.aslValue(c.bus.Read(addr)))
}

func (c *CPU) lsr(mode uint8) {
	if mode == Accumulator {
		c.A = c.lsrValue(c.A)
		return
	}
	addr := c.operandAddr(mode)
	c.bus.Write(addr, c.lsrValue(c.bus.Read(addr)))
}

func (c *CPU) rol(mode uint8) {
	if mode == Accumulator {
		c.A = c.rolValue(c.A)
		return
	}
	addr := c.operandAddr(mode)
	c.bus.Write(addr, c.rolValue(c.bus.Read(addr)))
}

func (c *CPU) ror(mode uint8) {
	if mode == Accumulator {
		c.A = c.rorValue(c.A)
		return
	}
	addr := c.operandAddr(mode)
	c.bus.Write(addr, c.rorValue(c.bus.Read(addr)))
}

func (c *CPU) bit(mode uint8) {
	v := c.readOperand(mode)
	c.flagSet(FlagZero, v&c.A == 0)
	c.flagSet(FlagNegative, v&FlagNegative != 0)
	c.flagSet(FlagOverflow, v&FlagOverflow != 0)
}

func (c *CPU) dec(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.bus.Read(addr) - 1
	c.bus.Write(addr, v)
	c.setNegativeAndZeroFlags(v)
}

func (c *CPU) inc(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.bus.Read(addr) + 1
	c.bus.Write(addr, v)
	c.setNegativeAndZeroFlags(v)
}

func (c *CPU) jsr(mode uint8) {
	target := c.operandAddr(mode)
	// Return address pushed is the last byte of the JSR
	// instruction, not the next instruction; RTS adds the 1 back.
	c.pushAddr(c.PC - 1)
	c.PC = target
}

func (c *CPU) rts(_ uint8) {
	c.PC = c.popAddr() + 1
}

func (c *CPU) brk(_ uint8) {
	c.PC++ // BRK's second byte is a padding byte, still consumed
	c.serviceInterrupt(vectorIRQ, true)
}

func (c *CPU) rti(_ uint8) {
	c.P = (c.popStack() &^ FlagBreak) | FlagUnused
	c.PC = c.popAddr()
}

// slo: ASL memory, then OR the result into A. Carries matching the
// documented ASL out of the shift, not out of the OR.
func (c *CPU) slo(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.aslValue(c.bus.Read(addr))
	c.bus.Write(addr, v)
	c.A |= v
	c.setNegativeAndZeroFlags(c.A)
}

func (c *CPU) rla(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rolValue(c.bus.Read(addr))
	c.bus.Write(addr, v)
	c.A &= v
	c.setNegativeAndZeroFlags(c.A)
}

func (c *CPU) sre(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.lsrValue(c.bus.Read(addr))
	c.bus.Write(addr, v)
	c.A ^= v
	c.setNegativeAndZeroFlags(c.A)
}

func (c *CPU) rra(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rorValue(c.bus.Read(addr))
	c.bus.Write(addr, v)
	c.addWithOverflow(v)
}

func (c *CPU) dcp(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.bus.Read(addr) - 1
	c.bus.Write(addr, v)
	c.compare(c.A, v)
}

func (c *CPU) isc(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.bus.Read(addr) + 1
	c.bus.Write(addr, v)
	c.addWithOverflow(^v)
}

// arr: AND then ROR A, but C/V come out of the rotated result's
// bits 6 and 5 rather than the usual ROR/ADC derivation — a quirk of
// the unintended opcode's shared adder/shifter hardware path.
func (c *CPU) arr(mode uint8) {
	c.A &= c.readOperand(mode)
	c.A = (c.A >> 1) | ((c.P & FlagCarry) << 7)
	c.setNegativeAndZeroFlags(c.A)
	c.flagSet(FlagCarry, c.A&0x40 != 0)
	c.flagSet(FlagOverflow, (c.A>>6)&1 != (c.A>>5)&1)
}
