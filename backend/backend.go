package backend

import (
	"errors"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested driver is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Driver names.
const (
	// NameWGPU is the pure Go WebGPU driver (backend/wgpu).
	NameWGPU = "wgpu"

	// NameHeadless is the recording driver without a GPU (backend/headless).
	NameHeadless = "headless"
)
