// Package sim provides a simulated machine for exercising the boot stage
// off real hardware: flat physical memory, a block device behind the
// firmware extended-read service, a VGA-style text console behind the
// firmware text service, and an implementation of the privileged CPU
// primitives that records an ordered event trace instead of touching
// hardware.
//
// Loaded payload bytes never execute. The machine instead maps code
// addresses to registered Go callbacks; raising an interrupt whose handler
// address carries a callback invokes it. This hook table is the single
// point where raw bytes read from disk are treated as callable code.
package sim

import (
	"fmt"

	"unboot/boot"
	"unboot/boot/cpu"
	"unboot/firmware"
)

// DefaultMemSize is the simulated physical memory size. Large enough for
// the loader image, the flat-mode stack and the console framebuffer.
const DefaultMemSize = 4 << 20

// ErrDiskRead models the carry flag the extended-read service raises for an
// unreadable or out-of-range request.
var ErrDiskRead = &boot.Error{Module: "sim", Message: "could not read disk"}

// Machine is a single-CPU machine in its pre-boot state.
type Machine struct {
	mem  []byte
	disk []byte

	console console

	vectors   [256]uint32
	hooks     map[uint32]func(*Machine)
	hookCalls map[uint32]int

	events []string

	interruptsOn bool
	peSet        bool
	protected    bool
	poweredOff   bool

	gdtr cpu.TablePointer
	idtr cpu.TablePointer

	codeSel  uint16
	dataSel  uint16
	stackPtr uint32

	wakeups   int
	diskFault bool
}

// New returns a machine with the given medium inserted and DefaultMemSize
// bytes of zeroed memory.
func New(disk []byte) *Machine {
	m := &Machine{
		mem:       make([]byte, DefaultMemSize),
		disk:      disk,
		hooks:     make(map[uint32]func(*Machine)),
		hookCalls: make(map[uint32]int),
	}
	m.console.fb = m.mem

	// Mirror what the firmware does before jumping to the boot block:
	// block 0 of the medium is already resident at the load base.
	if len(disk) >= boot.BlockSize {
		copy(m.mem[boot.LoadBase:], disk[:boot.BlockSize])
	}
	return m
}

func (m *Machine) trace(format string, args ...interface{}) {
	m.events = append(m.events, fmt.Sprintf(format, args...))
}

// ReadSectors implements the firmware extended-read contract against the
// inserted medium. Out-of-range requests fail with the carry-flag error and
// leave BlockCount reflecting the zero blocks transferred.
func (m *Machine) ReadSectors(drive uint8, pkt *firmware.DiskPacket) *boot.Error {
	m.trace("disk read drive=%#x lba=%d count=%d dest=%#x", drive, pkt.StartLBA, pkt.BlockCount, pkt.DestOffset)

	if m.diskFault {
		m.diskFault = false
		pkt.BlockCount = 0
		return ErrDiskRead
	}

	diskBlocks := uint64(len(m.disk)) / boot.BlockSize
	if pkt.StartLBA+uint64(pkt.BlockCount) > diskBlocks {
		pkt.BlockCount = 0
		return ErrDiskRead
	}

	dest := uint32(pkt.DestSegment)<<4 + uint32(pkt.DestOffset)
	size := uint32(pkt.BlockCount) * boot.BlockSize
	if int64(dest)+int64(size) > int64(len(m.mem)) {
		pkt.BlockCount = 0
		return ErrDiskRead
	}

	src := pkt.StartLBA * boot.BlockSize
	copy(m.mem[dest:dest+size], m.disk[src:src+uint64(size)])
	return nil
}

// PutChar implements the firmware teletype output contract.
func (m *Machine) PutChar(c byte) {
	m.console.put(c)
}

// DisableInterrupts implements cpu.CPU.
func (m *Machine) DisableInterrupts() {
	m.interruptsOn = false
	m.trace("cli")
}

// EnableInterrupts implements cpu.CPU.
func (m *Machine) EnableInterrupts() {
	m.interruptsOn = true
	m.trace("sti")
}

// InstallGDT implements cpu.CPU.
func (m *Machine) InstallGDT(ptr cpu.TablePointer) {
	m.gdtr = ptr
	m.trace("lgdt base=%#x limit=%d", ptr.Base, ptr.Limit)
}

// InstallIDT implements cpu.CPU.
func (m *Machine) InstallIDT(ptr cpu.TablePointer) {
	m.idtr = ptr
	m.trace("lidt base=%#x limit=%d", ptr.Base, ptr.Limit)
}

// EnableProtection implements cpu.CPU.
func (m *Machine) EnableProtection() {
	m.peSet = true
	m.trace("cr0.pe=1")
}

// FarJump implements cpu.CPU. The new code selector takes effect here; the
// machine is in protected mode once the jump lands.
func (m *Machine) FarJump(selector uint16, offset uint32) {
	m.codeSel = selector
	m.protected = m.peSet
	m.trace("farjmp cs=%#x off=%#x", selector, offset)
}

// LoadDataSegments implements cpu.CPU.
func (m *Machine) LoadDataSegments(selector uint16) {
	m.dataSel = selector
	m.trace("segments sel=%#x", selector)
}

// SetStackPointer implements cpu.CPU.
func (m *Machine) SetStackPointer(sp uint32) {
	m.stackPtr = sp
	m.trace("esp=%#x", sp)
}

// SetVector implements cpu.CPU.
func (m *Machine) SetVector(vector uint8, handler uint32) {
	m.vectors[vector] = handler
	m.trace("vector %#x -> %#x", vector, handler)
}

// RaiseInterrupt implements cpu.CPU. If a hook is registered at the
// vector's handler address it runs synchronously, exactly as a software
// interrupt transfers to its handler.
func (m *Machine) RaiseInterrupt(vector uint8) {
	handler := m.vectors[vector]
	m.trace("int %#x handler=%#x", vector, handler)

	if hook, ok := m.hooks[handler]; ok {
		m.hookCalls[handler]++
		hook(m)
		return
	}
	m.trace("int %#x unhandled", vector)
}

// Halt implements cpu.CPU. A halted CPU with interrupts masked can never
// resume, so the machine powers off; with interrupts on it consumes one
// queued wakeup per call and powers off when none remain.
func (m *Machine) Halt() bool {
	m.trace("hlt")

	if !m.poweredOff && m.interruptsOn && m.wakeups > 0 {
		m.wakeups--
		return true
	}
	m.poweredOff = true
	return false
}

// Bytes implements cpu.Memory.
func (m *Machine) Bytes(addr, length uint32) []byte {
	if int64(addr)+int64(length) > int64(len(m.mem)) {
		return nil
	}
	return m.mem[addr : addr+length]
}

// Write implements cpu.Memory.
func (m *Machine) Write(addr uint32, p []byte) bool {
	if int64(addr)+int64(len(p)) > int64(len(m.mem)) {
		return false
	}
	copy(m.mem[addr:], p)
	return true
}

// RegisterEntryHook maps a code address to a callback. Raising an interrupt
// whose installed handler equals addr invokes fn.
func (m *Machine) RegisterEntryHook(addr uint32, fn func(*Machine)) {
	m.hooks[addr] = fn
}

// EntryCalls reports how many times the hook at addr has run.
func (m *Machine) EntryCalls(addr uint32) int {
	return m.hookCalls[addr]
}

// QueueWakeups arms n hardware-interrupt wakeups for future Halt calls.
func (m *Machine) QueueWakeups(n int) {
	m.wakeups += n
}

// InjectDiskFault makes the next ReadSectors call fail regardless of its
// range, simulating an unreadable medium.
func (m *Machine) InjectDiskFault() {
	m.diskFault = true
}

// Console returns everything written through the firmware text service so
// far.
func (m *Machine) Console() string {
	return string(m.console.transcript)
}

// Events returns the ordered trace of privileged operations and firmware
// calls.
func (m *Machine) Events() []string {
	return m.events
}

// Protected reports whether the CPU completed the transition to protected
// mode.
func (m *Machine) Protected() bool {
	return m.protected
}

// InterruptsEnabled reports the interrupt flag.
func (m *Machine) InterruptsEnabled() bool {
	return m.interruptsOn
}

// PoweredOff reports whether the CPU halted with no way to resume.
func (m *Machine) PoweredOff() bool {
	return m.poweredOff
}

// GDTR returns the installed global descriptor table pointer.
func (m *Machine) GDTR() cpu.TablePointer {
	return m.gdtr
}

// IDTR returns the installed interrupt descriptor table pointer.
func (m *Machine) IDTR() cpu.TablePointer {
	return m.idtr
}

// CodeSelector returns the selector loaded by the last far jump.
func (m *Machine) CodeSelector() uint16 {
	return m.codeSel
}

// DataSelector returns the selector loaded into the data segments.
func (m *Machine) DataSelector() uint16 {
	return m.dataSel
}

// StackPointer returns the last installed stack pointer.
func (m *Machine) StackPointer() uint32 {
	return m.stackPtr
}

// Vector returns the handler installed for an interrupt vector.
func (m *Machine) Vector(vector uint8) uint32 {
	return m.vectors[vector]
}
