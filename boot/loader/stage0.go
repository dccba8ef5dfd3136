package loader

import (
	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/firmware"
	"unboot/unfs"
)

// diagMsg is the only diagnostic the boot stage can ever display. It is
// emitted one character at a time through the firmware text service; at
// this point no larger output facility exists.
const diagMsg = "Could not read disk"

var (
	errDiskRead        = &boot.Error{Module: "loader", Message: "could not read disk"}
	errHeaderUnmapped  = &boot.Error{Module: "loader", Message: "container header outside memory"}
	errPayloadUnmapped = &boot.Error{Module: "loader", Message: "kernel payload outside memory"}
)

// Stage0 loads the remainder of the image: the rest of the loader, the
// container header and the kernel payload, as one contiguous run of blocks
// starting immediately after the boot block. The firmware extended-read
// service is invoked exactly once; on failure the fixed diagnostic is
// printed and the CPU halts without returning control.
func Stage0(ctx *boot.Context, fw firmware.Services, hw cpu.CPU) *boot.Error {
	pkt := firmware.NewDiskPacket(1, ctx.Geometry.ReadBlocks(), boot.LoadBase+boot.BlockSize)
	if err := fw.ReadSectors(ctx.Drive, &pkt); err != nil {
		fatal(fw, hw)
		return errDiskRead
	}
	return nil
}

// CheckContainer validates the now-resident container header. The
// historical loader skipped this check; a conformant one stops on an
// unsupported container, though without a display message: the disk
// diagnostic is the only user-visible error this stage owns.
func CheckContainer(ctx *boot.Context, hw cpu.CPU, mem cpu.Memory) *boot.Error {
	block := mem.Bytes(ctx.Geometry.HeaderAddr(), unfs.HeaderSize)
	if block == nil {
		hang(hw)
		return errHeaderUnmapped
	}
	if _, err := unfs.Decode(block); err != nil {
		hang(hw)
		return err
	}
	return nil
}

// fatal emits the diagnostic character by character, then stops the CPU in
// a low-power halt from which it does not return. Fatal and non-retried:
// there is no alternate device and no memory for a retry strategy.
func fatal(fw firmware.TextOutput, hw cpu.CPU) {
	for i := 0; i < len(diagMsg); i++ {
		fw.PutChar(diagMsg[i])
	}
	hang(hw)
}
