package firmware

import "testing"

func TestDiskPacketEncodedLayout(t *testing.T) {
	pkt := NewDiskPacket(9, 10, 0x7E00)
	enc := pkt.Encode()

	exp := [PacketSize]byte{
		16, 0, // packet size, reserved
		10, 0, // block count
		0x00, 0x7E, // destination offset
		0, 0, // destination segment (conventionally zero)
		9, 0, 0, 0, 0, 0, 0, 0, // 64-bit starting LBA, upper half unused
	}
	if enc != exp {
		t.Fatalf("expected encoded packet % x; got % x", exp, enc)
	}
}

func TestDiskPacketRoundTrip(t *testing.T) {
	specs := []DiskPacket{
		{BlockCount: 1, DestOffset: 0x7E00, StartLBA: 1},
		{BlockCount: 0xFFFF, DestOffset: 0xFFFF, DestSegment: 0xF000, StartLBA: 0xFFFFFFFF},
		{BlockCount: 0, DestOffset: 0, StartLBA: 0},
	}

	for specIndex, spec := range specs {
		enc := spec.Encode()
		got, err := DecodeDiskPacket(enc[:])
		if err != nil {
			t.Errorf("[spec %d] unexpected decode error: %s", specIndex, err.Message)
			continue
		}
		if got != spec {
			t.Errorf("[spec %d] expected round trip %+v; got %+v", specIndex, spec, got)
		}
	}
}

func TestDecodeDiskPacketShortBuffer(t *testing.T) {
	if _, err := DecodeDiskPacket(make([]byte, PacketSize-1)); err == nil {
		t.Fatal("expected error decoding a truncated packet")
	}
}

func TestDecodeDiskPacketBadSizeByte(t *testing.T) {
	pkt := NewDiskPacket(1, 2, 0x7E00)
	enc := pkt.Encode()
	enc[0] = PacketSize - 1

	if _, err := DecodeDiskPacket(enc[:]); err != errBadPacketSize {
		t.Fatalf("expected the size-mismatch error; got %v", err)
	}
}
