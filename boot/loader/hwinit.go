package loader

import (
	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/firmware"
)

// Step is one opaque hardware bring-up action executed before the mode
// transition. On return the corresponding facility is in a defined, usable
// state or the step has reported failure per its own policy; the
// programming sequences themselves belong to the platform collaborators,
// not to this loader.
type Step struct {
	// Name identifies the step in traces and logs.
	Name string

	// Init brings the facility up.
	Init func(fw firmware.Services, hw cpu.CPU) *boot.Error
}

// InitHardware runs the steps in their fixed order, stopping at the first
// failure.
func InitHardware(fw firmware.Services, hw cpu.CPU, steps []Step) *boot.Error {
	for i := range steps {
		if err := steps[i].Init(fw, hw); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSteps returns the canonical bring-up order: video mode
// negotiation, FPU enable, vector unit enable, interrupt controller remap.
// The order is load-bearing: the controller remap must precede the mode
// transition so no legacy vector overlaps a protected-mode exception.
func DefaultSteps() []Step {
	return []Step{
		{Name: "vesa", Init: initVideo},
		{Name: "fpu", Init: initFPU},
		{Name: "sse", Init: initSSE},
		{Name: "pic", Init: remapPIC},
	}
}

// The default steps stand in for the platform's own bring-up procedures.
// Each is a call-and-return black box with no observable state in the
// machine model; their contracts live with the hardware, not here.

func initVideo(fw firmware.Services, hw cpu.CPU) *boot.Error { return nil }
func initFPU(fw firmware.Services, hw cpu.CPU) *boot.Error   { return nil }
func initSSE(fw firmware.Services, hw cpu.CPU) *boot.Error   { return nil }
func remapPIC(fw firmware.Services, hw cpu.CPU) *boot.Error  { return nil }
