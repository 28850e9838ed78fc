package mos6502

import "github.com/pkg/errors"

// Sentinel errors surfaced by the CPU core. Callers compare against
// these with errors.Is; call sites wrap them with errors.Wrapf to
// attach PC/opcode context.
var (
	// ErrUnknownOpcode is returned when the byte at PC does not
	// appear in the opcode table at all.
	ErrUnknownOpcode = errors.New("mos6502: unknown opcode")

	// ErrUnimplementedOpcode is returned when the opcode table
	// has an entry but no dispatch function is wired for it.
	ErrUnimplementedOpcode = errors.New("mos6502: unimplemented opcode")

	// ErrStackOverflow is returned in strict mode when SP wraps
	// from 0x00 to 0xFF on a push.
	ErrStackOverflow = errors.New("mos6502: stack pointer overflow")

	// ErrStackUnderflow is returned in strict mode when SP wraps
	// from 0xFF to 0x00 on a pull.
	ErrStackUnderflow = errors.New("mos6502: stack pointer underflow")

	// ErrCPUJam is returned by every Step after a JAM/KIL opcode
	// has executed, until Reset; on real hardware JAM locks the bus
	// until reset.
	ErrCPUJam = errors.New("mos6502: cpu jammed")
)
