// Package sysinfo samples the generator's own resource usage for
// progress reporting.
package sysinfo

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Sample is a point-in-time reading of the current process.
type Sample struct {
	CPUPercent float64
	RSSBytes   uint64
}

// Sampler reads CPU and memory usage of the running process. Readings
// are best-effort: on platforms where gopsutil cannot provide a value
// the field stays zero rather than failing the run.
type Sampler struct {
	proc *process.Process
}

// NewSampler attaches to the current process. Uses gopsutil; no
// external shelling (no ps fallback).
func NewSampler() (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	// Warm-up call so subsequent CPU samples are meaningful on all platforms.
	_, _ = proc.CPUPercent()
	return &Sampler{proc: proc}, nil
}

// Read returns the current sample. Errors degrade to zero values.
func (s *Sampler) Read() Sample {
	var out Sample
	if cpu, err := s.proc.CPUPercent(); err == nil {
		out.CPUPercent = cpu
	}
	if mem, err := s.proc.MemoryInfo(); err == nil && mem != nil {
		out.RSSBytes = mem.RSS
	}
	return out
}
