package firmware

import (
	"encoding/binary"

	"unboot/boot"
)

// PacketSize is the fixed size of an encoded disk address packet.
const PacketSize = 16

var (
	errShortPacket   = &boot.Error{Module: "firmware", Message: "disk address packet truncated"}
	errBadPacketSize = &boot.Error{Module: "firmware", Message: "disk address packet size mismatch"}
)

// DiskPacket is the disk address packet handed to the extended-read
// service. It describes one contiguous transfer: count of 512-byte blocks,
// a segmented destination address and the starting logical block address.
// The packet does not know the medium's size; the firmware validates the
// range and reports failure through the call's status.
type DiskPacket struct {
	// BlockCount is the number of blocks to transfer. The firmware
	// replaces it with the count actually transferred.
	BlockCount uint16

	// DestOffset and DestSegment form the segmented destination
	// address. The segment is conventionally zero in this design; all
	// destinations fit in the offset.
	DestOffset  uint16
	DestSegment uint16

	// StartLBA is the starting logical block address. Only the low 32
	// bits are used here; the upper half is reserved for devices that
	// need a full 64-bit address and is always zero.
	StartLBA uint64
}

// NewDiskPacket describes a transfer of count blocks starting at lba into
// memory at dest.
func NewDiskPacket(lba uint64, count uint16, dest uint16) DiskPacket {
	return DiskPacket{
		BlockCount: count,
		DestOffset: dest,
		StartLBA:   lba,
	}
}

// Encode returns the 16-byte little-endian layout the firmware consumes:
// packet size, a reserved byte, block count, destination offset:segment and
// the 64-bit starting block address.
func (p *DiskPacket) Encode() [PacketSize]byte {
	var b [PacketSize]byte
	b[0] = PacketSize
	binary.LittleEndian.PutUint16(b[2:], p.BlockCount)
	binary.LittleEndian.PutUint16(b[4:], p.DestOffset)
	binary.LittleEndian.PutUint16(b[6:], p.DestSegment)
	binary.LittleEndian.PutUint64(b[8:], p.StartLBA)
	return b
}

// DecodeDiskPacket parses an encoded packet. Used by tests and by firmware
// implementations that receive the packet as raw memory. The declared size
// in byte 0 must match PacketSize; the firmware rejects packets announcing
// any other layout.
func DecodeDiskPacket(b []byte) (DiskPacket, *boot.Error) {
	if len(b) < PacketSize {
		return DiskPacket{}, errShortPacket
	}
	if b[0] != PacketSize {
		return DiskPacket{}, errBadPacketSize
	}

	return DiskPacket{
		BlockCount:  binary.LittleEndian.Uint16(b[2:]),
		DestOffset:  binary.LittleEndian.Uint16(b[4:]),
		DestSegment: binary.LittleEndian.Uint16(b[6:]),
		StartLBA:    binary.LittleEndian.Uint64(b[8:]),
	}, nil
}
