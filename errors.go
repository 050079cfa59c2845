package triangle

import "errors"

// Initialization errors. Init wraps the underlying cause with one of these,
// so callers can test the failing stage with errors.Is.
var (
	ErrInstance         = errors.New("triangle: create instance")
	ErrSurface          = errors.New("triangle: create surface")
	ErrAdapterRequest   = errors.New("triangle: request adapter")
	ErrDeviceRequest    = errors.New("triangle: request device")
	ErrSurfaceConfigure = errors.New("triangle: configure surface")
	ErrShaderLoad       = errors.New("triangle: load shader")
	ErrShaderModule     = errors.New("triangle: create shader module")
	ErrPipeline         = errors.New("triangle: create render pipeline")
)

// Negotiation errors.
var (
	// ErrNegotiationTimeout is returned when a request callback did not fire
	// within the negotiation timeout.
	ErrNegotiationTimeout = errors.New("triangle: negotiation timed out")

	// ErrNilHandle is returned when a request callback reported success
	// without delivering a handle.
	ErrNilHandle = errors.New("triangle: callback reported success with a nil handle")
)

// State errors.
var (
	ErrNotInitialized     = errors.New("triangle: context not initialized")
	ErrAlreadyInitialized = errors.New("triangle: context already initialized")
	ErrClosed             = errors.New("triangle: context closed")
)

// Runtime errors.
var (
	// ErrFrameSkipped is returned by Render when no frame was presented.
	// It is never fatal; the next tick renders normally.
	ErrFrameSkipped = errors.New("triangle: frame skipped")

	// ErrZeroSize is returned when the surface would be configured with a
	// zero width or height, e.g. while the window is minimized.
	ErrZeroSize = errors.New("triangle: zero surface size")

	// ErrLeakedHandles is returned by Close when handles outlived teardown.
	ErrLeakedHandles = errors.New("triangle: handles alive after teardown")
)
