// Package cpu defines the privileged-instruction boundary of the boot
// stage. Everything the loader cannot express as ordinary code (descriptor
// table loads, control register writes, far transfers, halting) is a method
// on the CPU interface; the rest of the loader is structured code calling
// these primitives. On real hardware each method maps to one short
// instruction sequence; the sim package provides the implementation used by
// tests and the boot simulator.
package cpu

// TablePointer is the 6-byte operand consumed by the LGDT and LIDT
// instructions: the size of the descriptor table minus one and its linear
// base address.
type TablePointer struct {
	Limit uint16
	Base  uint32
}

// CPU exposes the privileged primitives required for the mode transition
// and the kernel handoff.
type CPU interface {
	// DisableInterrupts masks maskable interrupts (CLI).
	DisableInterrupts()

	// EnableInterrupts unmasks maskable interrupts (STI).
	EnableInterrupts()

	// InstallGDT loads the global descriptor table register (LGDT).
	InstallGDT(ptr TablePointer)

	// InstallIDT loads the interrupt descriptor table register (LIDT).
	InstallIDT(ptr TablePointer)

	// EnableProtection sets the protection-enable bit in CR0. Until the
	// far jump that follows completes, no instruction may touch data
	// memory; implementations must not require any.
	EnableProtection()

	// FarJump transfers control through the given code selector,
	// resuming at offset with the new code segment in effect. This is
	// the only way to reload the code segment register.
	FarJump(selector uint16, offset uint32)

	// LoadDataSegments reloads DS, ES, FS, GS and SS with the given
	// data selector.
	LoadDataSegments(selector uint16)

	// SetStackPointer establishes a new stack within the flat address
	// space.
	SetStackPointer(sp uint32)

	// SetVector installs handler as the target of a software interrupt
	// vector.
	SetVector(vector uint8, handler uint32)

	// RaiseInterrupt raises a software interrupt (INT vector).
	RaiseInterrupt(vector uint8)

	// Halt stops the CPU until the next hardware interrupt (HLT) and
	// reports true when one woke it. On real hardware Halt can only
	// return true; simulated implementations return false once nothing
	// can ever wake the CPU again, so callers spinning on Halt
	// terminate instead of deadlocking the test harness.
	Halt() bool
}

// Memory exposes the machine's physical memory to the loader. The loader
// only ever reads structures it previously asked the firmware to load, and
// writes the descriptor table it is about to install.
type Memory interface {
	// Bytes returns the length bytes starting at addr, or nil if the
	// range falls outside physical memory.
	Bytes(addr, length uint32) []byte

	// Write copies p into memory at addr and reports whether the range
	// was valid.
	Write(addr uint32, p []byte) bool
}
