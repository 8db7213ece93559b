// Package config loads the VM's ambient tunables: call-depth and
// value-stack limits, and GC stress/grow-factor knobs. None of these are
// language features; they're operational knobs exposed to the host
// environment rather than hardcoded.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/gloxlang/glox/internal/vm"
)

// Config is the merged ambient configuration for one glox invocation.
// Env vars take precedence over glox.yaml, which takes precedence over
// the zero value's built-in defaults (applied by internal/vm itself when
// a field is left at zero).
type Config struct {
	// StackMax is the VM's value-stack capacity, in slots.
	StackMax int `yaml:"stack_max" env:"STACK_MAX"`
	// FramesMax is the VM's maximum call depth.
	FramesMax int `yaml:"frames_max" env:"FRAMES_MAX"`
	// GCStress forces a collection on every allocation, for shaking out
	// premature-sweep bugs.
	GCStress bool `yaml:"gc_stress" env:"GLOX_GC_STRESS"`
	// GCGrowFactor multiplies bytesAllocated to pick the next collection
	// threshold (internal/vm/heap.go's default is 2).
	GCGrowFactor uint64 `yaml:"gc_grow_factor" env:"GLOX_GC_GROW_FACTOR"`
}

// FileName is the optional config file glox looks for in the current
// directory.
const FileName = "glox.yaml"

// Load reads FileName if present in dir, then overlays environment
// variables on top of it, and returns the merged result. A missing
// glox.yaml is not an error; unset env vars simply leave the YAML (or
// zero) value alone.
func Load(dir string) (Config, error) {
	var cfg Config

	path := filepath.Join(dir, FileName)
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// Limits extracts the vm.New() sizing options this config carries. Fields
// left at zero fall back to the VM's own built-in defaults.
func (c Config) Limits() vm.Limits {
	return vm.Limits{FramesMax: c.FramesMax, StackMax: c.StackMax}
}

// ApplyGC installs this config's GC stress/grow-factor knobs onto an
// already-constructed VM's heap.
func (c Config) ApplyGC(v *vm.VM) {
	if c.GCStress {
		v.Heap().SetStressGC(true)
	}
	if c.GCGrowFactor > 0 {
		v.Heap().SetGCGrowFactor(c.GCGrowFactor)
	}
}
