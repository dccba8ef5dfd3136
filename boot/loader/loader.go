// Package loader implements the boot stages that run between the firmware
// handing over the boot block and the kernel taking control: the stage-0
// disk read, the opaque hardware bring-up steps, the transition to flat
// 32-bit protected mode and the one-shot kernel handoff.
//
// The whole sequence is synchronous and strictly ordered on a single
// hardware thread. There is no retry budget and no cancellation: the one
// defined failure path prints a fixed diagnostic and halts the CPU for
// good; every other fault is a build-time defect that manifests as an
// unresponsive machine.
package loader

import (
	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/firmware"
)

// Boot runs the full sequence. It returns only in simulation: either the
// fatal-path error after the machine halted, or nil once the idle wait
// state ran out of wakeups. On hardware the equivalent code never returns.
func Boot(ctx *boot.Context, fw firmware.Services, hw cpu.CPU, mem cpu.Memory, steps []Step) *boot.Error {
	if err := Stage0(ctx, fw, hw); err != nil {
		return err
	}
	if err := CheckContainer(ctx, hw, mem); err != nil {
		return err
	}
	if err := InitHardware(fw, hw, steps); err != nil {
		hang(hw)
		return err
	}
	if err := EnterProtectedMode(hw, mem); err != nil {
		hang(hw)
		return err
	}
	return Handoff(ctx, hw, mem)
}

// hang stops the CPU permanently: interrupts masked, halted, never resumed.
func hang(hw cpu.CPU) {
	hw.DisableInterrupts()
	for hw.Halt() {
	}
}
