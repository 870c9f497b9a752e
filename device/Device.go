// Package device selects the device a training run is placed on
package device

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/sirupsen/logrus"
)

// Kind is a kind of compute device
type Kind string

const (
	CPU Kind = "cpu"
	GPU Kind = "gpu"
)

// Device describes the device a training run is placed on
type Device struct {
	Kind      Kind
	Name      string
	Cores     int // Physical cores, 0 if unknown
	Threads   int // Logical cores usable by the process
	Vectorize bool
}

// String implements the fmt.Stringer interface
func (d Device) String() string {
	return fmt.Sprintf("%v: %v (%v cores, %v threads)", d.Kind, d.Name,
		d.Cores, d.Threads)
}

// CUDAAvailable reports whether a CUDA backend is compiled into this
// build. No CUDA backend is shipped, so GPU requests fall back to the
// CPU.
func CUDAAvailable() bool {
	return false
}

// Host returns the CPU of the host machine
func Host() Device {
	name := cpuid.CPU.BrandName
	if name == "" {
		name = cpuid.CPU.VendorString
	}
	if name == "" {
		name = runtime.GOARCH
	}

	return Device{
		Kind:      CPU,
		Name:      name,
		Cores:     cpuid.CPU.PhysicalCores,
		Threads:   runtime.GOMAXPROCS(0),
		Vectorize: cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3),
	}
}

// Select returns the device to train on. If useGPU is set but no GPU
// backend is available, a warning is logged to log and the host CPU is
// returned.
func Select(useGPU bool, log logrus.FieldLogger) Device {
	if useGPU && !CUDAAvailable() {
		log.WithField("use_gpu", useGPU).Warn("select: no CUDA backend " +
			"available, falling back to CPU")
	}
	return Host()
}
