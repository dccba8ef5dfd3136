package boot

import "testing"

func TestGeometryBlockCount(t *testing.T) {
	// The read must cover the container header plus the payload rounded
	// up to whole blocks, independent of the payload's exact size.
	for blocks := int64(1); blocks <= 64; blocks++ {
		for _, payloadBytes := range []int64{
			(blocks-1)*BlockSize + 1,
			blocks*BlockSize - 1,
			blocks * BlockSize,
		} {
			g := GeometryFor(payloadBytes, 0)
			if exp, got := uint16(blocks), g.PayloadBlocks; got != exp {
				t.Errorf("payload %d bytes: expected %d payload blocks; got %d", payloadBytes, exp, got)
			}
			if exp, got := uint16(blocks+1), g.ReadBlocks(); got != exp {
				t.Errorf("payload %d bytes: expected read of %d blocks; got %d", payloadBytes, exp, got)
			}
		}
	}
}

func TestGeometryDegeneratePayload(t *testing.T) {
	// A zero-byte payload must still read the header block; no underflow,
	// no zero-block read.
	g := GeometryFor(0, 0)
	if g.PayloadBlocks != 0 {
		t.Errorf("expected 0 payload blocks; got %d", g.PayloadBlocks)
	}
	if got := g.ReadBlocks(); got != 1 {
		t.Errorf("expected read of 1 block for empty payload; got %d", got)
	}

	g = GeometryFor(1, 0)
	if got := g.ReadBlocks(); got != 2 {
		t.Errorf("expected read of 2 blocks for 1-byte payload; got %d", got)
	}
}

func TestGeometryAddresses(t *testing.T) {
	specs := []struct {
		extra         uint16
		payloadBytes  int64
		expHeaderLBA  uint64
		expKernelLBA  uint64
		expHeaderAddr uint32
		expReadBlocks uint16
	}{
		{0, 8 * BlockSize, 1, 2, LoadBase + BlockSize, 9},
		{0, 0, 1, 2, LoadBase + BlockSize, 1},
		{2, 4 * BlockSize, 3, 4, LoadBase + 3*BlockSize, 7},
	}

	for specIndex, spec := range specs {
		g := GeometryFor(spec.payloadBytes, spec.extra)

		if got := g.HeaderLBA(); got != spec.expHeaderLBA {
			t.Errorf("[spec %d] expected header LBA %d; got %d", specIndex, spec.expHeaderLBA, got)
		}
		if got := g.KernelLBA(); got != spec.expKernelLBA {
			t.Errorf("[spec %d] expected kernel LBA %d; got %d", specIndex, spec.expKernelLBA, got)
		}
		if got := g.HeaderAddr(); got != spec.expHeaderAddr {
			t.Errorf("[spec %d] expected header address %x; got %x", specIndex, spec.expHeaderAddr, got)
		}
		if got := g.ReadBlocks(); got != spec.expReadBlocks {
			t.Errorf("[spec %d] expected %d read blocks; got %d", specIndex, spec.expReadBlocks, got)
		}
		if exp, got := g.HeaderAddr()+BlockSize, g.KernelAddr(); got != exp {
			t.Errorf("[spec %d] expected kernel address %x; got %x", specIndex, exp, got)
		}
	}
}
