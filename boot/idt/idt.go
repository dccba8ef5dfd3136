// Package idt covers the loader's minimal involvement with the interrupt
// descriptor table: an empty-but-valid table reference installed during the
// mode transition, and the vector reserved for the one-shot kernel handoff.
package idt

import "unboot/boot/cpu"

// HandoffVector is the software interrupt number reserved exclusively for
// the one-time transfer of control into the loaded kernel. No other
// component may raise or install this vector.
const HandoffVector uint8 = 0xFF

// EmptyPointer returns a valid interrupt table reference describing no
// entries. The loader installs it so the register holds defined contents
// before the kernel builds a real table; any interrupt taken against it
// still faults, which is why interrupts stay disabled throughout the
// transition.
func EmptyPointer() cpu.TablePointer {
	return cpu.TablePointer{}
}
