// Package image assembles bootable UnFS media: a signed boot block,
// optional extra loader blocks, the container header at its computed block
// address and the kernel payload rounded up to whole blocks. The package
// runs on the build host and therefore uses ordinary errors rather than the
// boot-stage error type.
package image

import (
	"fmt"

	"unboot/boot"
	"unboot/unfs"
)

// The two-byte trailer the firmware requires at offsets 510-511 of the boot
// block before it will execute it. External constraint, not a choice.
const (
	bootSignatureOff   = 510
	bootSignatureByte1 = 0x55
	bootSignatureByte2 = 0xAA
)

// MaxStage0Size is the code capacity of the boot block: everything up to
// the boot signature.
const MaxStage0Size = bootSignatureOff

// Layout describes the regions of a bootable image in disk order.
type Layout struct {
	// Stage0 is the boot block code, at most MaxStage0Size bytes.
	Stage0 []byte

	// LoaderRest is loader code that did not fit the boot block. May be
	// empty; it is padded to whole blocks.
	LoaderRest []byte

	// Header is the container header describing the volume.
	Header unfs.Header

	// Kernel is the raw kernel payload.
	Kernel []byte
}

// Geometry returns the block geometry of the image, shared verbatim with
// the stage-0 loader so the builder and the loader cannot disagree about
// where anything lives. It is meaningful only for layouts Build accepts;
// Build rejects layouts whose block counts exceed the firmware's 16-bit
// transfer limit before the narrow counts here are ever used.
func (l *Layout) Geometry() boot.Geometry {
	return boot.GeometryFor(int64(len(l.Kernel)), uint16(wholeBlocks(len(l.LoaderRest))))
}

// Build assembles the image. The result length is always a whole number of
// blocks and block n of the result is what the loader expects to find at
// LBA n.
func (l *Layout) Build() ([]byte, error) {
	if len(l.Stage0) > MaxStage0Size {
		return nil, fmt.Errorf("stage0 is %d bytes; the boot block holds at most %d", len(l.Stage0), MaxStage0Size)
	}
	if n := wholeBlocks(len(l.LoaderRest)) + 1 + wholeBlocks(len(l.Kernel)); n > boot.MaxReadBlocks {
		return nil, fmt.Errorf("image spans %d blocks past the boot block; a single firmware read transfers at most %d", n, boot.MaxReadBlocks)
	}

	headerBlock, err := l.Header.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode container header: %w", err)
	}

	g := l.Geometry()
	out := make([]byte, (1+uint64(g.ReadBlocks()))*boot.BlockSize)

	copy(out, l.Stage0)
	out[bootSignatureOff] = bootSignatureByte1
	out[bootSignatureOff+1] = bootSignatureByte2

	copy(out[boot.BlockSize:], l.LoaderRest)
	copy(out[g.HeaderLBA()*boot.BlockSize:], headerBlock)
	copy(out[g.KernelLBA()*boot.BlockSize:], l.Kernel)
	return out, nil
}

// wholeBlocks returns the number of whole blocks covering n bytes, wide
// enough that no payload wraps the count.
func wholeBlocks(n int) int64 {
	return (int64(n) + boot.BlockSize - 1) / boot.BlockSize
}
