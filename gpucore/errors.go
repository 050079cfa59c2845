package gpucore

import "errors"

// RequestStatus is the outcome reported to a request callback.
type RequestStatus uint8

const (
	// RequestStatusSuccess means the handle argument is valid.
	RequestStatusSuccess RequestStatus = iota
	// RequestStatusError means the request failed; the message explains why.
	RequestStatusError
	// RequestStatusUnavailable means no matching object exists on this system.
	RequestStatusUnavailable
	// RequestStatusInstanceDropped means the owner was released first.
	RequestStatusInstanceDropped
)

func (s RequestStatus) String() string {
	switch s {
	case RequestStatusSuccess:
		return "Success"
	case RequestStatusError:
		return "Error"
	case RequestStatusUnavailable:
		return "Unavailable"
	case RequestStatusInstanceDropped:
		return "InstanceDropped"
	default:
		return "Unknown"
	}
}

// RequestAdapterCallback receives the result of Instance.RequestAdapter.
type RequestAdapterCallback func(status RequestStatus, adapter Adapter, message string)

// RequestDeviceCallback receives the result of Adapter.RequestDevice.
type RequestDeviceCallback func(status RequestStatus, device Device, message string)

// ErrorType categorizes an uncaptured device error.
type ErrorType uint8

const (
	ErrorTypeValidation ErrorType = iota + 1
	ErrorTypeOutOfMemory
	ErrorTypeInternal
	ErrorTypeDeviceLost
	ErrorTypeUnknown
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "Validation"
	case ErrorTypeOutOfMemory:
		return "OutOfMemory"
	case ErrorTypeInternal:
		return "Internal"
	case ErrorTypeDeviceLost:
		return "DeviceLost"
	default:
		return "Unknown"
	}
}

// ErrorCallback receives GPU errors that were not captured by the caller.
type ErrorCallback func(typ ErrorType, message string)

// Errors returned by Surface.GetCurrentTexture.
var (
	ErrOutOfMemory = errors.New("gpucore: out of memory")
	ErrDeviceLost  = errors.New("gpucore: device lost")
)
