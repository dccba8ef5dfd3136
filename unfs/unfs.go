// Package unfs implements the UnFS container header: the single-volume
// on-disk structure that identifies a bootable medium and points at its
// root entry list and free-space map. The header occupies exactly one
// block. It is written once when the image is built and read once per boot;
// nothing mutates it at runtime.
//
// The boot stage locates the kernel payload by fixed offset rather than by
// walking the root entry list; the list pointer is carried and round-trips
// but is deliberately not traversed.
package unfs

import (
	"encoding/binary"

	"unboot/boot"
)

const (
	// Magic is the 4-byte signature identifying an UnFS volume.
	Magic = "UnFS"

	// Version is the only header version this package can interpret.
	Version = 1

	// HeaderSize is the encoded header size: one block.
	HeaderSize = boot.BlockSize

	// VolumeNameSize is the capacity of the null-terminated volume
	// name field; names may be at most VolumeNameSize-1 characters.
	VolumeNameSize = HeaderSize - len(Magic) - 4 - 8 - 8
)

var (
	// ErrBadSignature reports a medium that is not an UnFS container.
	ErrBadSignature = &boot.Error{Module: "unfs", Message: "unsupported container: bad signature"}

	// ErrBadVersion reports a container whose version this code cannot
	// interpret.
	ErrBadVersion = &boot.Error{Module: "unfs", Message: "unsupported container: unknown version"}

	// ErrShortHeader reports a buffer smaller than one block.
	ErrShortHeader = &boot.Error{Module: "unfs", Message: "container header truncated"}

	// ErrNameTooLong reports a volume name that does not fit the
	// fixed-capacity name field with its terminator.
	ErrNameTooLong = &boot.Error{Module: "unfs", Message: "volume name too long"}
)

// Header describes a single UnFS volume.
type Header struct {
	// Version of the header layout; must equal Version.
	Version uint32

	// RootSectorList is the block address of the root directory entry
	// list, relative to the start of the medium.
	RootSectorList uint64

	// FreeSpaceLBA is the block address of the free-space map. Zero
	// means the volume carries no free-space map (append-only,
	// single-file medium).
	FreeSpaceLBA uint64

	// VolumeName is the human-readable volume label.
	VolumeName string
}

// Encode serializes the header into exactly one block: signature, version,
// the two block pointers and the null-terminated volume name, all
// little-endian.
func (h *Header) Encode() ([]byte, *boot.Error) {
	if len(h.VolumeName) >= VolumeNameSize {
		return nil, ErrNameTooLong
	}

	b := make([]byte, HeaderSize)
	copy(b, Magic)
	binary.LittleEndian.PutUint32(b[4:], h.Version)
	binary.LittleEndian.PutUint64(b[8:], h.RootSectorList)
	binary.LittleEndian.PutUint64(b[16:], h.FreeSpaceLBA)
	copy(b[24:], h.VolumeName)
	return b, nil
}

// Decode parses and validates a header block. Any signature mismatch or
// uninterpretable version yields a distinct unsupported-container error; a
// conformant loader must stop rather than proceed on such a medium.
func Decode(b []byte) (Header, *boot.Error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	if string(b[:4]) != Magic {
		return Header{}, ErrBadSignature
	}

	h := Header{
		Version:        binary.LittleEndian.Uint32(b[4:]),
		RootSectorList: binary.LittleEndian.Uint64(b[8:]),
		FreeSpaceLBA:   binary.LittleEndian.Uint64(b[16:]),
		VolumeName:     cString(b[24 : 24+VolumeNameSize]),
	}
	if h.Version != Version {
		return Header{}, ErrBadVersion
	}
	return h, nil
}

// cString returns the bytes of b up to but not including the first null.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
