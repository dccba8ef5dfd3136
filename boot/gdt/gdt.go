// Package gdt builds the global descriptor table installed during the
// transition to flat 32-bit protected mode. The table contents are fixed at
// build time: a null descriptor, a flat code descriptor and a flat data
// descriptor. Nothing validates them at runtime; a malformed descriptor
// faults with no handler installed, so correctness rests on the
// construction in this package.
package gdt

import "unboot/boot/cpu"

// Access byte bits.
const (
	// AccessPresent marks the descriptor as present.
	AccessPresent = 1 << 7

	// AccessCodeData marks the descriptor as a code or data segment
	// (as opposed to a system segment).
	AccessCodeData = 1 << 4

	// AccessExec marks the segment as executable.
	AccessExec = 1 << 3

	// AccessRW makes a code segment readable or a data segment
	// writable.
	AccessRW = 1 << 1
)

// Flag nibble bits (upper half of the limit-high byte).
const (
	// FlagGranularity4K scales the 20-bit limit by 4 KiB pages.
	FlagGranularity4K = 1 << 7

	// FlagOperand32 selects a 32-bit default operand size.
	FlagOperand32 = 1 << 6
)

// Selectors into the flat table, in table order.
const (
	SelectorNull uint16 = 0x00
	SelectorCode uint16 = 0x08
	SelectorData uint16 = 0x10
)

// flatLimit is the 20-bit limit that, combined with 4 KiB granularity,
// spans the full 32-bit address space.
const flatLimit = 0xFFFFF

// EntrySize is the encoded size of one descriptor in bytes.
const EntrySize = 8

// Entry is one 8-byte segment descriptor in the packed layout the processor
// consumes: base and limit are scattered across the fields for backwards
// compatibility with the 286 descriptor format.
type Entry struct {
	LimitLow       uint16
	BaseLow        uint16
	BaseMid        uint8
	Access         uint8
	LimitHighFlags uint8
	BaseHigh       uint8
}

// NewEntry packs base, a 20-bit limit, an access byte and the flag nibble
// into a descriptor.
func NewEntry(base, limit uint32, access, flags uint8) Entry {
	return Entry{
		LimitLow:       uint16(limit),
		BaseLow:        uint16(base),
		BaseMid:        uint8(base >> 16),
		Access:         access,
		LimitHighFlags: uint8(limit>>16)&0x0F | flags&0xF0,
		BaseHigh:       uint8(base >> 24),
	}
}

// Base returns the 32-bit segment base encoded in the descriptor.
func (e Entry) Base() uint32 {
	return uint32(e.BaseLow) | uint32(e.BaseMid)<<16 | uint32(e.BaseHigh)<<24
}

// Limit returns the byte limit of the segment, expanded by the granularity
// flag the way the processor expands it.
func (e Entry) Limit() uint32 {
	limit := uint32(e.LimitLow) | uint32(e.LimitHighFlags&0x0F)<<16
	if e.LimitHighFlags&FlagGranularity4K != 0 {
		limit = limit<<12 | 0xFFF
	}
	return limit
}

// Encode returns the descriptor in the byte order the processor reads it.
func (e Entry) Encode() [EntrySize]byte {
	return [EntrySize]byte{
		byte(e.LimitLow), byte(e.LimitLow >> 8),
		byte(e.BaseLow), byte(e.BaseLow >> 8),
		e.BaseMid,
		e.Access,
		e.LimitHighFlags,
		e.BaseHigh,
	}
}

// DecodeEntry unpacks an encoded descriptor. Used by tests and the boot
// simulator to inspect installed tables.
func DecodeEntry(b [EntrySize]byte) Entry {
	return Entry{
		LimitLow:       uint16(b[0]) | uint16(b[1])<<8,
		BaseLow:        uint16(b[2]) | uint16(b[3])<<8,
		BaseMid:        b[4],
		Access:         b[5],
		LimitHighFlags: b[6],
		BaseHigh:       b[7],
	}
}

// Table is the three-descriptor table the loader installs. The null entry
// is required by the processor and never referenced.
type Table [3]Entry

// FlatTable returns the table for the flat 32-bit memory model: code and
// data descriptors with base 0 and a limit covering the full address space.
func FlatTable() Table {
	return Table{
		{}, // null descriptor
		NewEntry(0, flatLimit, AccessPresent|AccessCodeData|AccessExec|AccessRW, FlagGranularity4K|FlagOperand32),
		NewEntry(0, flatLimit, AccessPresent|AccessCodeData|AccessRW, FlagGranularity4K|FlagOperand32),
	}
}

// Encode returns the packed table image that gets copied to the address the
// table pointer will reference.
func (t Table) Encode() []byte {
	out := make([]byte, 0, len(t)*EntrySize)
	for _, e := range t {
		enc := e.Encode()
		out = append(out, enc[:]...)
	}
	return out
}

// Pointer returns the LGDT operand for the table once it has been placed at
// base.
func (t Table) Pointer(base uint32) cpu.TablePointer {
	return cpu.TablePointer{
		Limit: uint16(len(t)*EntrySize - 1),
		Base:  base,
	}
}
