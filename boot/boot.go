// Package boot defines the constants, geometry calculations and shared
// context that the boot stages thread between them. Everything here is
// fixed at image-build time; the loader performs no dynamic allocation.
package boot

const (
	// BlockSize is the size of one disk block (sector) in bytes.
	BlockSize = 512

	// LoadBase is the address where the firmware places the boot block
	// and where the rest of the image is read to, block for block. The
	// byte at LoadBase+n*BlockSize always mirrors disk block n.
	LoadBase = 0x7C00

	// StackTop is the flat-mode stack pointer installed after the mode
	// transition. It leaves far more headroom than the small real-mode
	// stack that grows down from LoadBase.
	StackTop = 0x200000

	// EntryOffset is the byte offset inside the kernel payload holding
	// the 32-bit address of the kernel's first instruction. The payload
	// is otherwise an opaque flat blob.
	EntryOffset = 0x18

	// MaxReadBlocks is the largest transfer a single firmware extended
	// read can describe: the disk packet's block count field is 16-bit.
	// The image builder refuses images whose loader, header and payload
	// exceed it.
	MaxReadBlocks = 0xFFFF
)

// Geometry describes where the container header and the kernel payload sit
// on the medium relative to the boot block. Both the image builder and the
// stage-0 loader derive their block ranges from the same Geometry so the
// addressing decisions cannot drift apart.
type Geometry struct {
	// ExtraLoaderBlocks counts the loader blocks that follow the boot
	// block but precede the container header. Zero when the entire
	// loader fits in the boot block.
	ExtraLoaderBlocks uint16

	// PayloadBlocks is the size of the kernel payload rounded up to
	// whole blocks.
	PayloadBlocks uint16
}

// GeometryFor returns the geometry for a kernel payload of payloadBytes
// bytes placed behind extraLoaderBlocks additional loader blocks. The
// payload must span at most MaxReadBlocks blocks; the image builder
// enforces that bound before a medium can exist.
func GeometryFor(payloadBytes int64, extraLoaderBlocks uint16) Geometry {
	return Geometry{
		ExtraLoaderBlocks: extraLoaderBlocks,
		PayloadBlocks:     uint16((payloadBytes + BlockSize - 1) / BlockSize),
	}
}

// HeaderLBA returns the block address of the container header. It matches
// the header's position inside the built image: (offset - base) / BlockSize.
func (g Geometry) HeaderLBA() uint64 {
	return 1 + uint64(g.ExtraLoaderBlocks)
}

// KernelLBA returns the block address of the first kernel payload block.
func (g Geometry) KernelLBA() uint64 {
	return g.HeaderLBA() + 1
}

// ReadBlocks returns the number of blocks stage-0 must read: the remainder
// of the loader, the container header and the kernel payload. The header
// block keeps the count above zero even for an empty payload.
func (g Geometry) ReadBlocks() uint16 {
	return g.ExtraLoaderBlocks + 1 + g.PayloadBlocks
}

// HeaderAddr returns the memory address of the loaded container header.
func (g Geometry) HeaderAddr() uint32 {
	return LoadBase + uint32(g.HeaderLBA())*BlockSize
}

// KernelAddr returns the memory address of the loaded kernel payload.
func (g Geometry) KernelAddr() uint32 {
	return LoadBase + uint32(g.KernelLBA())*BlockSize
}

// Context carries the mutable boot state between the stages. Each field has
// a single writer and a single reader: Drive is written by the firmware
// entry shim and read by stage-0; KernelEntry is written by the handoff and
// read by the interrupt dispatch.
type Context struct {
	// Drive is the firmware drive identifier the boot block was read
	// from.
	Drive uint8

	// Geometry locates the header and payload on the medium.
	Geometry Geometry

	// KernelEntry is the kernel entry address read from the payload at
	// EntryOffset. Valid only after the handoff stage ran.
	KernelEntry uint32
}
