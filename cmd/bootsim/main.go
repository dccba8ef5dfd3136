// Command bootsim runs a bootable image through the simulated machine:
// stage-0 read, hardware init, the protected-mode transition and the kernel
// handoff, reporting each phase and the final machine state.
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"unboot/boot"
	"unboot/boot/loader"
	"unboot/image"
	"unboot/sim"
)

func main() {
	imgPath := flag.String("image", "disk.img", "bootable image path")
	extra := flag.Uint("extra-loader-blocks", 0, "loader blocks between boot block and header")
	drive := flag.Uint("drive", 0x80, "firmware drive identifier")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	img, err := os.ReadFile(*imgPath)
	if err != nil {
		log.Fatal("read image", zap.Error(err))
	}

	info, err := image.Inspect(img, uint16(*extra))
	if err != nil {
		log.Fatal("inspect image", zap.Error(err))
	}
	log.Info("image",
		zap.String("volume", info.Header.VolumeName),
		zap.Uint32("header_version", info.Header.Version),
		zap.Uint64("header_lba", info.Geometry.HeaderLBA()),
		zap.Uint64("kernel_lba", info.Geometry.KernelLBA()),
		zap.Uint16("payload_blocks", info.Geometry.PayloadBlocks),
		zap.Uint32("entry", info.Entry),
	)

	m := sim.New(img)
	m.RegisterEntryHook(info.Entry, func(m *sim.Machine) {
		log.Info("kernel entered", zap.Uint32("entry", info.Entry))
	})

	ctx := &boot.Context{
		Drive:    uint8(*drive),
		Geometry: info.Geometry,
	}
	if err := loader.Boot(ctx, m, m, m, loader.DefaultSteps()); err != nil {
		log.Error("boot failed",
			zap.String("error", err.Message),
			zap.String("module", err.Module),
			zap.String("console", m.Console()),
		)
		os.Exit(1)
	}

	log.Info("boot complete",
		zap.Bool("protected_mode", m.Protected()),
		zap.Uint32("kernel_entry", ctx.KernelEntry),
		zap.Int("entry_calls", m.EntryCalls(ctx.KernelEntry)),
		zap.Bool("interrupts", m.InterruptsEnabled()),
	)
	for _, ev := range m.Events() {
		log.Debug("trace", zap.String("event", ev))
	}
}
