// Package firmware declares the contracts of the platform firmware services
// the boot stage consumes. The services are external collaborators reached
// through software interrupts on real hardware; the loader never reimplements
// them and never retries them. The sim package implements both contracts for
// testing.
package firmware

import "unboot/boot"

// DiskReader is the extended-read disk service (the INT 13h/AH=42h
// contract): it performs raw block I/O against a storage device with no
// filesystem knowledge. The call blocks until the firmware completes or
// reports failure; the firmware decides how long to wait on the device.
type DiskReader interface {
	// ReadSectors transfers the block range described by pkt from the
	// given drive into memory at the packet's destination. The firmware
	// overwrites pkt.BlockCount with the number of blocks actually
	// transferred, so callers must not treat it as stable input after
	// the call. A non-nil error models the carry flag.
	ReadSectors(drive uint8, pkt *DiskPacket) *boot.Error
}

// TextOutput is the teletype output service (the INT 10h/AH=0Eh contract):
// one character appears on the primary display per call.
type TextOutput interface {
	PutChar(c byte)
}

// Services groups everything the boot stage is allowed to ask of the
// firmware.
type Services interface {
	DiskReader
	TextOutput
}
