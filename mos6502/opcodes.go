package mos6502

import "fmt"

// Addressing modes.
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	Implicit = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // Indexed Indirect: (zp,X)
	IndirectY // Indirect Indexed: (zp),Y
)

var modeNames = map[uint8]string{
	Implicit: "impl", Accumulator: "A", Immediate: "#",
	ZeroPage: "zpg", ZeroPageX: "zpg,X", ZeroPageY: "zpg,Y",
	Relative: "rel", Absolute: "abs", AbsoluteX: "abs,X", AbsoluteY: "abs,Y",
	Indirect: "ind", IndirectX: "X,ind", IndirectY: "ind,Y",
}

// Instruction identifiers. The documented instructions come first, in
// the same order the 6502 references list them; the undocumented ones
// (the NMOS 6510 "unintended opcodes") are appended with their common
// lowercase-i-prefixed names.
const (
	ADC = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	// Undocumented/"illegal" opcodes. Names and behavior per the
	// NMOS 6510 unintended-opcode reference.
	iSLO // ASL then ORA
	iRLA // ROL then AND
	iSRE // LSR then EOR
	iRRA // ROR then ADC
	iSAX // store (A & X)
	iLAX // LDA then TAX
	iDCP // DEC then CMP
	iISC // INC then SBC
	iANC // AND, then copy N into C
	iALR // AND then LSR A
	iARR // AND then ROR A, with quirky flag derivation
	iSBX // (A & X) - operand -> X
	iSBC // identical to documented SBC
	iLAS // (mem & SP) -> A, X, SP
	iNOP // no-op, with a byte-count/cycle cost that varies by opcode
	iJAM // locks the CPU; only a reset recovers
)

type opcode struct {
	inst   uint8
	name   string
	mode   uint8
	bytes  uint8
	cycles uint8
	// pageCross is true when an extra cycle is charged if the
	// effective address crosses a page boundary.
	pageCross bool
}

func (o opcode) String() string {
	return fmt.Sprintf("%s %s", o.name, modeNames[o.mode])
}

// opcodes is the full 256-entry dispatch table: the 151 documented
// 6502 opcodes plus the NMOS unintended opcodes a real NES CPU
// (and nestest-style trace logs) also executes. Source: the standard
// 6502 reference plus the "NMOS 6510 Unintended Opcodes" table.
var opcodes = [256]opcode{
	0x00: {BRK, "BRK", Implicit, 1, 7, false},
	0x01: {ORA, "ORA", IndirectX, 2, 6, false},
	0x02: {iJAM, "JAM", Implicit, 1, 0, false},
	0x03: {iSLO, "SLO", IndirectX, 2, 8, false},
	0x04: {iNOP, "NOP", ZeroPage, 2, 3, false},
	0x05: {ORA, "ORA", ZeroPage, 2, 3, false},
	0x06: {ASL, "ASL", ZeroPage, 2, 5, false},
	0x07: {iSLO, "SLO", ZeroPage, 2, 5, false},
	0x08: {PHP, "PHP", Implicit, 1, 3, false},
	0x09: {ORA, "ORA", Immediate, 2, 2, false},
	0x0A: {ASL, "ASL", Accumulator, 1, 2, false},
	0x0B: {iANC, "ANC", Immediate, 2, 2, false},
	0x0C: {iNOP, "NOP", Absolute, 3, 4, false},
	0x0D: {ORA, "ORA", Absolute, 3, 4, false},
	0x0E: {ASL, "ASL", Absolute, 3, 6, false},
	0x0F: {iSLO, "SLO", Absolute, 3, 6, false},

	0x10: {BPL, "BPL", Relative, 2, 2, false},
	0x11: {ORA, "ORA", IndirectY, 2, 5, true},
	0x12: {iJAM, "JAM", Implicit, 1, 0, false},
	0x13: {iSLO, "SLO", IndirectY, 2, 8, false},
	0x14: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0x15: {ORA, "ORA", ZeroPageX, 2, 4, false},
	0x16: {ASL, "ASL", ZeroPageX, 2, 6, false},
	0x17: {iSLO, "SLO", ZeroPageX, 2, 6, false},
	0x18: {CLC, "CLC", Implicit, 1, 2, false},
	0x19: {ORA, "ORA", AbsoluteY, 3, 4, true},
	0x1A: {iNOP, "NOP", Implicit, 1, 2, false},
	0x1B: {iSLO, "SLO", AbsoluteY, 3, 7, false},
	0x1C: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0x1D: {ORA, "ORA", AbsoluteX, 3, 4, true},
	0x1E: {ASL, "ASL", AbsoluteX, 3, 7, false},
	0x1F: {iSLO, "SLO", AbsoluteX, 3, 7, false},

	0x20: {JSR, "JSR", Absolute, 3, 6, false},
	0x21: {AND, "AND", IndirectX, 2, 6, false},
	0x22: {iJAM, "JAM", Implicit, 1, 0, false},
	0x23: {iRLA, "RLA", IndirectX, 2, 8, false},
	0x24: {BIT, "BIT", ZeroPage, 2, 3, false},
	0x25: {AND, "AND", ZeroPage, 2, 3, false},
	0x26: {ROL, "ROL", ZeroPage, 2, 5, false},
	0x27: {iRLA, "RLA", ZeroPage, 2, 5, false},
	0x28: {PLP, "PLP", Implicit, 1, 4, false},
	0x29: {AND, "AND", Immediate, 2, 2, false},
	0x2A: {ROL, "ROL", Accumulator, 1, 2, false},
	0x2B: {iANC, "ANC", Immediate, 2, 2, false},
	0x2C: {BIT, "BIT", Absolute, 3, 4, false},
	0x2D: {AND, "AND", Absolute, 3, 4, false},
	0x2E: {ROL, "ROL", Absolute, 3, 6, false},
	0x2F: {iRLA, "RLA", Absolute, 3, 6, false},

	0x30: {BMI, "BMI", Relative, 2, 2, false},
	0x31: {AND, "AND", IndirectY, 2, 5, true},
	0x32: {iJAM, "JAM", Implicit, 1, 0, false},
	0x33: {iRLA, "RLA", IndirectY, 2, 8, false},
	0x34: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0x35: {AND, "AND", ZeroPageX, 2, 4, false},
	0x36: {ROL, "ROL", ZeroPageX, 2, 6, false},
	0x37: {iRLA, "RLA", ZeroPageX, 2, 6, false},
	0x38: {SEC, "SEC", Implicit, 1, 2, false},
	0x39: {AND, "AND", AbsoluteY, 3, 4, true},
	0x3A: {iNOP, "NOP", Implicit, 1, 2, false},
	0x3B: {iRLA, "RLA", AbsoluteY, 3, 7, false},
	0x3C: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0x3D: {AND, "AND", AbsoluteX, 3, 4, true},
	0x3E: {ROL, "ROL", AbsoluteX, 3, 7, false},
	0x3F: {iRLA, "RLA", AbsoluteX, 3, 7, false},

	0x40: {RTI, "RTI", Implicit, 1, 6, false},
	0x41: {EOR, "EOR", IndirectX, 2, 6, false},
	0x42: {iJAM, "JAM", Implicit, 1, 0, false},
	0x43: {iSRE, "SRE", IndirectX, 2, 8, false},
	0x44: {iNOP, "NOP", ZeroPage, 2, 3, false},
	0x45: {EOR, "EOR", ZeroPage, 2, 3, false},
	0x46: {LSR, "LSR", ZeroPage, 2, 5, false},
	0x47: {iSRE, "SRE", ZeroPage, 2, 5, false},
	0x48: {PHA, "PHA", Implicit, 1, 3, false},
	0x49: {EOR, "EOR", Immediate, 2, 2, false},
	0x4A: {LSR, "LSR", Accumulator, 1, 2, false},
	0x4B: {iALR, "ALR", Immediate, 2, 2, false},
	0x4C: {JMP, "JMP", Absolute, 3, 3, false},
	0x4D: {EOR, "EOR", Absolute, 3, 4, false},
	0x4E: {LSR, "LSR", Absolute, 3, 6, false},
	0x4F: {iSRE, "SRE", Absolute, 3, 6, false},

	0x50: {BVC, "BVC", Relative, 2, 2, false},
	0x51: {EOR, "EOR", IndirectY, 2, 5, true},
	0x52: {iJAM, "JAM", Implicit, 1, 0, false},
	0x53: {iSRE, "SRE", IndirectY, 2, 8, false},
	0x54: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0x55: {EOR, "EOR", ZeroPageX, 2, 4, false},
	0x56: {LSR, "LSR", ZeroPageX, 2, 6, false},
	0x57: {iSRE, "SRE", ZeroPageX, 2, 6, false},
	0x58: {CLI, "CLI", Implicit, 1, 2, false},
	0x59: {EOR, "EOR", AbsoluteY, 3, 4, true},
	0x5A: {iNOP, "NOP", Implicit, 1, 2, false},
	0x5B: {iSRE, "SRE", AbsoluteY, 3, 7, false},
	0x5C: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0x5D: {EOR, "EOR", AbsoluteX, 3, 4, true},
	0x5E: {LSR, "LSR", AbsoluteX, 3, 7, false},
	0x5F: {iSRE, "SRE", AbsoluteX, 3, 7, false},

	0x60: {RTS, "RTS", Implicit, 1, 6, false},
	0x61: {ADC, "ADC", IndirectX, 2, 6, false},
	0x62: {iJAM, "JAM", Implicit, 1, 0, false},
	0x63: {iRRA, "RRA", IndirectX, 2, 8, false},
	0x64: {iNOP, "NOP", ZeroPage, 2, 3, false},
	0x65: {ADC, "ADC", ZeroPage, 2, 3, false},
	0x66: {ROR, "ROR", ZeroPage, 2, 5, false},
	0x67: {iRRA, "RRA", ZeroPage, 2, 5, false},
	0x68: {PLA, "PLA", Implicit, 1, 4, false},
	0x69: {ADC, "ADC", Immediate, 2, 2, false},
	0x6A: {ROR, "ROR", Accumulator, 1, 2, false},
	0x6B: {iARR, "ARR", Immediate, 2, 2, false},
	0x6C: {JMP, "JMP", Indirect, 3, 5, false},
	0x6D: {ADC, "ADC", Absolute, 3, 4, false},
	0x6E: {ROR, "ROR", Absolute, 3, 6, false},
	0x6F: {iRRA, "RRA", Absolute, 3, 6, false},

	0x70: {BVS, "BVS", Relative, 2, 2, false},
	0x71: {ADC, "ADC", IndirectY, 2, 5, true},
	0x72: {iJAM, "JAM", Implicit, 1, 0, false},
	0x73: {iRRA, "RRA", IndirectY, 2, 8, false},
	0x74: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0x75: {ADC, "ADC", ZeroPageX, 2, 4, false},
	0x76: {ROR, "ROR", ZeroPageX, 2, 6, false},
	0x77: {iRRA, "RRA", ZeroPageX, 2, 6, false},
	0x78: {SEI, "SEI", Implicit, 1, 2, false},
	0x79: {ADC, "ADC", AbsoluteY, 3, 4, true},
	0x7A: {iNOP, "NOP", Implicit, 1, 2, false},
	0x7B: {iRRA, "RRA", AbsoluteY, 3, 7, false},
	0x7C: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0x7D: {ADC, "ADC", AbsoluteX, 3, 4, true},
	0x7E: {ROR, "ROR", AbsoluteX, 3, 7, false},
	0x7F: {iRRA, "RRA", AbsoluteX, 3, 7, false},

	0x80: {iNOP, "NOP", Immediate, 2, 2, false},
	0x81: {STA, "STA", IndirectX, 2, 6, false},
	0x82: {iNOP, "NOP", Immediate, 2, 2, false},
	0x83: {iSAX, "SAX", IndirectX, 2, 6, false},
	0x84: {STY, "STY", ZeroPage, 2, 3, false},
	0x85: {STA, "STA", ZeroPage, 2, 3, false},
	0x86: {STX, "STX", ZeroPage, 2, 3, false},
	0x87: {iSAX, "SAX", ZeroPage, 2, 3, false},
	0x88: {DEY, "DEY", Implicit, 1, 2, false},
	0x89: {iNOP, "NOP", Immediate, 2, 2, false},
	0x8A: {TXA, "TXA", Implicit, 1, 2, false},
	0x8C: {STY, "STY", Absolute, 3, 4, false},
	0x8D: {STA, "STA", Absolute, 3, 4, false},
	0x8E: {STX, "STX", Absolute, 3, 4, false},
	0x8F: {iSAX, "SAX", Absolute, 3, 4, false},

	0x90: {BCC, "BCC", Relative, 2, 2, false},
	0x91: {STA, "STA", IndirectY, 2, 6, false},
	0x92: {iJAM, "JAM", Implicit, 1, 0, false},
	0x94: {STY, "STY", ZeroPageX, 2, 4, false},
	0x95: {STA, "STA", ZeroPageX, 2, 4, false},
	0x96: {STX, "STX", ZeroPageY, 2, 4, false},
	0x97: {iSAX, "SAX", ZeroPageY, 2, 4, false},
	0x98: {TYA, "TYA", Implicit, 1, 2, false},
	0x99: {STA, "STA", AbsoluteY, 3, 5, false},
	0x9A: {TXS, "TXS", Implicit, 1, 2, false},
	0x9D: {STA, "STA", AbsoluteX, 3, 5, false},

	0xA0: {LDY, "LDY", Immediate, 2, 2, false},
	0xA1: {LDA, "LDA", IndirectX, 2, 6, false},
	0xA2: {LDX, "LDX", Immediate, 2, 2, false},
	0xA3: {iLAX, "LAX", IndirectX, 2, 6, false},
	0xA4: {LDY, "LDY", ZeroPage, 2, 3, false},
	0xA5: {LDA, "LDA", ZeroPage, 2, 3, false},
	0xA6: {LDX, "LDX", ZeroPage, 2, 3, false},
	0xA7: {iLAX, "LAX", ZeroPage, 2, 3, false},
	0xA8: {TAY, "TAY", Implicit, 1, 2, false},
	0xA9: {LDA, "LDA", Immediate, 2, 2, false},
	0xAA: {TAX, "TAX", Implicit, 1, 2, false},
	0xAC: {LDY, "LDY", Absolute, 3, 4, false},
	0xAD: {LDA, "LDA", Absolute, 3, 4, false},
	0xAE: {LDX, "LDX", Absolute, 3, 4, false},
	0xAF: {iLAX, "LAX", Absolute, 3, 4, false},

	0xB0: {BCS, "BCS", Relative, 2, 2, false},
	0xB1: {LDA, "LDA", IndirectY, 2, 5, true},
	0xB2: {iJAM, "JAM", Implicit, 1, 0, false},
	0xB3: {iLAX, "LAX", IndirectY, 2, 5, true},
	0xB4: {LDY, "LDY", ZeroPageX, 2, 4, false},
	0xB5: {LDA, "LDA", ZeroPageX, 2, 4, false},
	0xB6: {LDX, "LDX", ZeroPageY, 2, 4, false},
	0xB7: {iLAX, "LAX", ZeroPageY, 2, 4, false},
	0xB8: {CLV, "CLV", Implicit, 1, 2, false},
	0xB9: {LDA, "LDA", AbsoluteY, 3, 4, true},
	0xBA: {TSX, "TSX", Implicit, 1, 2, false},
	0xBB: {iLAS, "LAS", AbsoluteY, 3, 4, true},
	0xBC: {LDY, "LDY", AbsoluteX, 3, 4, true},
	0xBD: {LDA, "LDA", AbsoluteX, 3, 4, true},
	0xBE: {LDX, "LDX", AbsoluteY, 3, 4, true},
	0xBF: {iLAX, "LAX", AbsoluteY, 3, 4, true},

	0xC0: {CPY, "CPY", Immediate, 2, 2, false},
	0xC1: {CMP, "CMP", IndirectX, 2, 6, false},
	0xC2: {iNOP, "NOP", Immediate, 2, 2, false},
	0xC3: {iDCP, "DCP", IndirectX, 2, 8, false},
	0xC4: {CPY, "CPY", ZeroPage, 2, 3, false},
	0xC5: {CMP, "CMP", ZeroPage, 2, 3, false},
	0xC6: {DEC, "DEC", ZeroPage, 2, 5, false},
	0xC7: {iDCP, "DCP", ZeroPage, 2, 5, false},
	0xC8: {INY, "INY", Implicit, 1, 2, false},
	0xC9: {CMP, "CMP", Immediate, 2, 2, false},
	0xCA: {DEX, "DEX", Implicit, 1, 2, false},
	0xCB: {iSBX, "SBX", Immediate, 2, 2, false},
	0xCC: {CPY, "CPY", Absolute, 3, 4, false},
	0xCD: {CMP, "CMP", Absolute, 3, 4, false},
	0xCE: {DEC, "DEC", Absolute, 3, 6, false},
	0xCF: {iDCP, "DCP", Absolute, 3, 6, false},

	0xD0: {BNE, "BNE", Relative, 2, 2, false},
	0xD1: {CMP, "CMP", IndirectY, 2, 5, true},
	0xD2: {iJAM, "JAM", Implicit, 1, 0, false},
	0xD3: {iDCP, "DCP", IndirectY, 2, 8, false},
	0xD4: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0xD5: {CMP, "CMP", ZeroPageX, 2, 4, false},
	0xD6: {DEC, "DEC", ZeroPageX, 2, 6, false},
	0xD7: {iDCP, "DCP", ZeroPageX, 2, 6, false},
	0xD8: {CLD, "CLD", Implicit, 1, 2, false},
	0xD9: {CMP, "CMP", AbsoluteY, 3, 4, true},
	0xDA: {iNOP, "NOP", Implicit, 1, 2, false},
	0xDB: {iDCP, "DCP", AbsoluteY, 3, 7, false},
	0xDC: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0xDD: {CMP, "CMP", AbsoluteX, 3, 4, true},
	0xDE: {DEC, "DEC", AbsoluteX, 3, 7, false},
	0xDF: {iDCP, "DCP", AbsoluteX, 3, 7, false},

	0xE0: {CPX, "CPX", Immediate, 2, 2, false},
	0xE1: {SBC, "SBC", IndirectX, 2, 6, false},
	0xE2: {iNOP, "NOP", Immediate, 2, 2, false},
	0xE3: {iISC, "ISC", IndirectX, 2, 8, false},
	0xE4: {CPX, "CPX", ZeroPage, 2, 3, false},
	0xE5: {SBC, "SBC", ZeroPage, 2, 3, false},
	0xE6: {INC, "INC", ZeroPage, 2, 5, false},
	0xE7: {iISC, "ISC", ZeroPage, 2, 5, false},
	0xE8: {INX, "INX", Implicit, 1, 2, false},
	0xE9: {SBC, "SBC", Immediate, 2, 2, false},
	0xEA: {NOP, "NOP", Implicit, 1, 2, false},
	0xEB: {iSBC, "SBC", Immediate, 2, 2, false},
	0xEC: {CPX, "CPX", Absolute, 3, 4, false},
	0xED: {SBC, "SBC", Absolute, 3, 4, false},
	0xEE: {INC, "INC", Absolute, 3, 6, false},
	0xEF: {iISC, "ISC", Absolute, 3, 6, false},

	0xF0: {BEQ, "BEQ", Relative, 2, 2, false},
	0xF1: {SBC, "SBC", IndirectY, 2, 5, true},
	0xF2: {iJAM, "JAM", Implicit, 1, 0, false},
	0xF3: {iISC, "ISC", IndirectY, 2, 8, false},
	0xF4: {iNOP, "NOP", ZeroPageX, 2, 4, false},
	0xF5: {SBC, "SBC", ZeroPageX, 2, 4, false},
	0xF6: {INC, "INC", ZeroPageX, 2, 6, false},
	0xF7: {iISC, "ISC", ZeroPageX, 2, 6, false},
	0xF8: {SED, "SED", Implicit, 1, 2, false},
	0xF9: {SBC, "SBC", AbsoluteY, 3, 4, true},
	0xFA: {iNOP, "NOP", Implicit, 1, 2, false},
	0xFB: {iISC, "ISC", AbsoluteY, 3, 7, false},
	0xFC: {iNOP, "NOP", AbsoluteX, 3, 4, true},
	0xFD: {SBC, "SBC", AbsoluteX, 3, 4, true},
	0xFE: {INC, "INC", AbsoluteX, 3, 7, false},
	0xFF: {iISC, "ISC", AbsoluteX, 3, 7, false},
}

// 0x8B (XAA), 0x93/0x9B/0x9C/0x9E/0x9F (the SHA/TAS/SHY/SHX family) and
// 0xAB (LXA) are deliberately left unset in the table above: their
// real behavior depends on analog bus-capacitance effects that differ
// between chip revisions, and they aren't in the set of unofficial
// opcodes this core documents. Per spec.md §4.1 an unofficial opcode
// missing from that list is unassigned and must decode fatally rather
// than silently run as something else; their zero-valued bytes field
// (no legitimate opcode has bytes == 0) is what Step checks to raise
// ErrUnknownOpcode.
