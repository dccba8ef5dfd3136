package unfs

import (
	"strings"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	specs := []Header{
		// Minimal: empty name, no pointers.
		{Version: Version},
		// Typical.
		{Version: Version, RootSectorList: 2, FreeSpaceLBA: 0, VolumeName: "Root Filesystem"},
		// Maximum-length name and large pointers.
		{
			Version:        Version,
			RootSectorList: 0xFFFFFFFFFFFFFFFF,
			FreeSpaceLBA:   0x123456789ABCDEF0,
			VolumeName:     strings.Repeat("n", VolumeNameSize-1),
		},
	}

	for specIndex, spec := range specs {
		block, err := spec.Encode()
		if err != nil {
			t.Errorf("[spec %d] unexpected encode error: %s", specIndex, err.Message)
			continue
		}
		if len(block) != HeaderSize {
			t.Errorf("[spec %d] expected header to encode to exactly %d bytes; got %d", specIndex, HeaderSize, len(block))
			continue
		}

		got, err := Decode(block)
		if err != nil {
			t.Errorf("[spec %d] unexpected decode error: %s", specIndex, err.Message)
			continue
		}
		if got != spec {
			t.Errorf("[spec %d] expected round trip %+v; got %+v", specIndex, spec, got)
		}
	}
}

func TestDecodeRejectsCorruptSignature(t *testing.T) {
	hdr := Header{Version: Version, VolumeName: "Root Filesystem"}
	block, err := hdr.Encode()
	if err != nil {
		t.Fatalf("unexpected encode error: %s", err.Message)
	}

	// Altering any single signature byte must yield the distinct
	// unsupported-container error rather than a parsed header.
	for i := 0; i < len(Magic); i++ {
		corrupt := make([]byte, len(block))
		copy(corrupt, block)
		corrupt[i] ^= 0xFF

		if _, err := Decode(corrupt); err != ErrBadSignature {
			t.Errorf("signature byte %d: expected ErrBadSignature; got %v", i, err)
		}
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	hdr := Header{Version: Version}
	block, err := hdr.Encode()
	if err != nil {
		t.Fatalf("unexpected encode error: %s", err.Message)
	}

	for _, version := range []byte{0, 2, 0xFF} {
		block[4] = version
		if _, err := Decode(block); err != ErrBadVersion {
			t.Errorf("version %d: expected ErrBadVersion; got %v", version, err)
		}
	}
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	if _, err := Decode(make([]byte, HeaderSize-1)); err != ErrShortHeader {
		t.Fatalf("expected ErrShortHeader; got %v", err)
	}
}

func TestEncodeRejectsOversizedName(t *testing.T) {
	hdr := Header{Version: Version, VolumeName: strings.Repeat("n", VolumeNameSize)}
	if _, err := hdr.Encode(); err != ErrNameTooLong {
		t.Fatalf("expected ErrNameTooLong; got %v", err)
	}
}

func TestVolumeNameCapacity(t *testing.T) {
	// The header must occupy exactly one block: 4 signature bytes, a
	// 32-bit version, two 64-bit block pointers and the name field.
	if got := VolumeNameSize; got != 488 {
		t.Fatalf("expected a 488-byte name field; got %d", got)
	}
}
