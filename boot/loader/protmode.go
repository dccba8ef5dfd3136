package loader

import (
	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/boot/gdt"
	"unboot/boot/idt"
)

// gdtBase is where the descriptor table is placed before LGDT: free
// real-mode memory well below the load base, untouched by the image read.
const gdtBase = 0x0800

var errGDTPlacement = &boot.Error{Module: "loader", Message: "descriptor table outside memory"}

// EnterProtectedMode moves the CPU from real-mode segment addressing into
// the flat 32-bit model:
//
//  1. mask interrupts: no handler is valid during the switch
//  2. place the descriptor table and load GDTR, plus an empty IDTR
//  3. set CR0.PE
//  4. far jump through the code selector; the only way to reload CS
//  5. reload the remaining segment registers and switch to the big stack
//
// Between steps 3 and 4 nothing may touch data memory; the cpu primitives
// carry that invariant. None of this can fail at runtime with well-formed
// descriptors, and the descriptors are fixed at build time.
func EnterProtectedMode(hw cpu.CPU, mem cpu.Memory) *boot.Error {
	hw.DisableInterrupts()

	table := gdt.FlatTable()
	if !mem.Write(gdtBase, table.Encode()) {
		return errGDTPlacement
	}
	hw.InstallGDT(table.Pointer(gdtBase))
	hw.InstallIDT(idt.EmptyPointer())

	hw.EnableProtection()
	hw.FarJump(gdt.SelectorCode, boot.LoadBase)

	hw.LoadDataSegments(gdt.SelectorData)
	hw.SetStackPointer(boot.StackTop)
	return nil
}
