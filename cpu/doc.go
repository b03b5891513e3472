// Package cpu implements the instruction set, execution engine and
// assembler for the comp machine.
//
// An instruction word is split into a class nibble and an operand nibble.
// Execution is a pipeline of three stages: Decode the word into an
// Instruction with its first-order operand addresses, Resolve the effective
// address against the register and memory, and Execute it. Every word
// decodes to exactly one operation, so the engine has no illegal
// instructions.
//
// The LOGIC class selects a sub-operation with its operand nibble. Four of
// those encodings name a fixed data address (the bound addresses 1, 2, 3
// and 7), which the editor must never relocate.
//
// The assembler translates a small mnemonic language into a memory image,
// supporting labels, equates, sections, and compile-time expression
// evaluation.
package cpu
