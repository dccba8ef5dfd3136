// Command mkimage builds a bootable UnFS image from a YAML build config:
// a signed boot block, the container header at its computed block address
// and the kernel payload rounded up to whole blocks.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"unboot/boot"
	"unboot/image"
)

func main() {
	cfgPath := flag.String("c", "mkimage.yml", "build config path")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "mkimage: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := image.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	img, err := layout.Build()
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.Output, img, 0644); err != nil {
		return err
	}

	g := layout.Geometry()
	fmt.Printf("%s: %s (%d blocks)\n", cfg.Output, humanize.IBytes(uint64(len(img))), len(img)/boot.BlockSize)
	fmt.Printf("  boot block   lba 0\n")
	if g.ExtraLoaderBlocks > 0 {
		fmt.Printf("  loader rest  lba 1       %d blocks\n", g.ExtraLoaderBlocks)
	}
	fmt.Printf("  unfs header  lba %-7d %q\n", g.HeaderLBA(), layout.Header.VolumeName)
	fmt.Printf("  kernel       lba %-7d %s (%d blocks)\n",
		g.KernelLBA(), humanize.IBytes(uint64(len(layout.Kernel))), g.PayloadBlocks)
	return nil
}
