package image

import (
	"encoding/binary"
	"fmt"

	"unboot/boot"
	"unboot/unfs"
)

// Info is what Inspect recovers from a built image.
type Info struct {
	// Geometry locates the header and payload, reconstructed from the
	// image size.
	Geometry boot.Geometry

	// Header is the decoded container header.
	Header unfs.Header

	// Entry is the kernel entry address stored at the payload's fixed
	// offset, or zero when the payload is too small to carry one.
	Entry uint32
}

// Inspect validates a built image the way the platform consumes it: boot
// signature first, then the container header at its computed block address.
// extraLoaderBlocks must match the value the image was built with; it is
// not recorded on the medium.
func Inspect(img []byte, extraLoaderBlocks uint16) (*Info, error) {
	if len(img) < boot.BlockSize || len(img)%boot.BlockSize != 0 {
		return nil, fmt.Errorf("image size %d is not a whole number of blocks", len(img))
	}
	if img[bootSignatureOff] != bootSignatureByte1 || img[bootSignatureOff+1] != bootSignatureByte2 {
		return nil, fmt.Errorf("boot block is not signed; firmware would refuse it")
	}

	totalBlocks := uint64(len(img)) / boot.BlockSize
	headerLBA := 1 + uint64(extraLoaderBlocks)
	if totalBlocks < headerLBA+1 {
		return nil, fmt.Errorf("image has %d blocks, too few to hold the container header", totalBlocks)
	}

	hdr, err := unfs.Decode(img[headerLBA*boot.BlockSize:])
	if err != nil {
		return nil, fmt.Errorf("container header: %w", err)
	}

	payloadBlocks := totalBlocks - headerLBA - 1
	if uint64(extraLoaderBlocks)+1+payloadBlocks > boot.MaxReadBlocks {
		return nil, fmt.Errorf("image payload spans %d blocks; a single firmware read transfers at most %d", payloadBlocks, boot.MaxReadBlocks)
	}

	info := &Info{
		Geometry: boot.Geometry{
			ExtraLoaderBlocks: extraLoaderBlocks,
			PayloadBlocks:     uint16(payloadBlocks),
		},
		Header: hdr,
	}

	entryOff := info.Geometry.KernelLBA()*boot.BlockSize + boot.EntryOffset
	if entryOff+4 <= uint64(len(img)) {
		info.Entry = binary.LittleEndian.Uint32(img[entryOff:])
	}
	return info, nil
}
