package image

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"unboot/boot"
	"unboot/unfs"
)

// Config is the YAML build description consumed by mkimage.
type Config struct {
	// Stage0 is the path of the boot block code. Optional: an empty
	// path produces a zero-filled (but still signed) boot block, which
	// is enough for simulation where block 0 is never executed.
	Stage0 string `yaml:"stage0"`

	// Kernel is the path of the kernel payload. Required.
	Kernel string `yaml:"kernel"`

	// VolumeName is the container's volume label.
	VolumeName string `yaml:"volume_name"`

	// ExtraLoaderBlocks reserves loader blocks between the boot block
	// and the container header.
	ExtraLoaderBlocks uint16 `yaml:"extra_loader_blocks"`

	// Output is the path the built image is written to.
	Output string `yaml:"output"`
}

// LoadConfig reads and decodes a build config.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &Config{}
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Layout resolves the config into a buildable layout, reading the
// referenced files.
func (c *Config) Layout() (*Layout, error) {
	if c.Kernel == "" {
		return nil, fmt.Errorf("config names no kernel payload")
	}
	if c.Output == "" {
		return nil, fmt.Errorf("config names no output path")
	}

	kernel, err := os.ReadFile(c.Kernel)
	if err != nil {
		return nil, fmt.Errorf("read kernel: %w", err)
	}

	var stage0 []byte
	if c.Stage0 != "" {
		if stage0, err = os.ReadFile(c.Stage0); err != nil {
			return nil, fmt.Errorf("read stage0: %w", err)
		}
	}

	// A single-file medium: no root entry list to walk and no free-space
	// map, so both pointers stay zero and the payload is found by fixed
	// offset.
	return &Layout{
		Stage0:     stage0,
		LoaderRest: make([]byte, int(c.ExtraLoaderBlocks)*boot.BlockSize),
		Header: unfs.Header{
			Version:    unfs.Version,
			VolumeName: c.VolumeName,
		},
		Kernel: kernel,
	}, nil
}
