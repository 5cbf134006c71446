// Package cpu implements the virtual CPU and its assembler.
//
// The CPU has four 16-bit general-purpose registers (r0-r3), a flags
// register, and an instruction pointer (IP) owned by the driver. Memory is
// reached through the active RAM device on the CPU's device bus.
//
// Instructions are an 8-bit opcode, an operand byte (source selector in the
// low nibble, destination in the high nibble), and a 16-bit immediate.
// Decoding is total: unknown opcodes decode to inv, unknown operands to none.
//
// A nop sets the NOP flag, which causes the next instruction to be skipped.
package cpu
