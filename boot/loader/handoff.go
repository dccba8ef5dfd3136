package loader

import (
	"encoding/binary"

	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/boot/idt"
)

// Handoff transfers control into the loaded kernel exactly once: the entry
// address at the payload's fixed offset becomes the handler of the reserved
// handoff vector, and that vector is raised. Reaching the handler is
// defined to be a call into the kernel's first instruction.
//
// The load of the entry address is the one place where bytes read from disk
// are reinterpreted as code. The payload contract, not this loader,
// guarantees that offset EntryOffset holds an entry address and not
// arbitrary data.
//
// If the handoff interrupt ever returns, interrupts come back on and the
// loader enters its terminal idle state: halt, wake on hardware interrupt,
// halt again. The loop schedules nothing and exists only to avoid burning
// cycles; the loader's decision-making ends at the handoff.
func Handoff(ctx *boot.Context, hw cpu.CPU, mem cpu.Memory) *boot.Error {
	entryBytes := mem.Bytes(ctx.Geometry.KernelAddr()+boot.EntryOffset, 4)
	if entryBytes == nil {
		hang(hw)
		return errPayloadUnmapped
	}
	ctx.KernelEntry = binary.LittleEndian.Uint32(entryBytes)

	hw.SetVector(idt.HandoffVector, ctx.KernelEntry)
	hw.RaiseInterrupt(idt.HandoffVector)

	hw.EnableInterrupts()
	for hw.Halt() {
	}
	return nil
}
