package triangle

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

type requestResult[T releaser] struct {
	status  gpucore.RequestStatus
	handle  T
	message string
}

// await issues a callback-based request and blocks until the callback
// fires, ctx is done or timeout elapses. The callback writes into a
// single-slot channel; a callback that arrives after await gave up (or a
// second callback) releases the handle it delivers.
//
// A failure status is returned as an error wrapping failed and carrying the
// driver message. Success with a nil handle is ErrNilHandle.
func await[T releaser](
	ctx context.Context,
	timeout time.Duration,
	failed error,
	request func(cb func(gpucore.RequestStatus, T, string)),
) (T, error) {
	var zero T
	ch := make(chan requestResult[T], 1)

	var (
		mu        sync.Mutex
		fired     bool
		abandoned bool
	)
	request(func(status gpucore.RequestStatus, h T, msg string) {
		mu.Lock()
		if fired || abandoned {
			mu.Unlock()
			if status == gpucore.RequestStatusSuccess && !isNil(h) {
				Logger().Warn("triangle: releasing handle from late callback", "stage", failed)
				h.Release()
			}
			return
		}
		fired = true
		ch <- requestResult[T]{status: status, handle: h, message: msg}
		mu.Unlock()
	})

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	var r requestResult[T]
	select {
	case r = <-ch:
	case <-ctx.Done():
		if !giveUp(&mu, &abandoned, ch, &r) {
			return zero, fmt.Errorf("%w: %w", failed, ctx.Err())
		}
	case <-expired:
		if !giveUp(&mu, &abandoned, ch, &r) {
			return zero, fmt.Errorf("%w: %w after %v", failed, ErrNegotiationTimeout, timeout)
		}
	}

	if r.status != gpucore.RequestStatusSuccess {
		return zero, fmt.Errorf("%w: %s: %s", failed, r.status, r.message)
	}
	if isNil(r.handle) {
		return zero, fmt.Errorf("%w: %w", failed, ErrNilHandle)
	}
	return r.handle, nil
}

// giveUp marks the request abandoned. It reports whether a result raced in
// before the mark, in which case the result is stored in r and used.
func giveUp[T releaser](mu *sync.Mutex, abandoned *bool, ch chan requestResult[T], r *requestResult[T]) bool {
	mu.Lock()
	defer mu.Unlock()
	*abandoned = true
	select {
	case *r = <-ch:
		return true
	default:
		return false
	}
}

// isNil reports whether h is the zero handle: a nil interface, or one
// holding a nil pointer.
func isNil[T releaser](h T) bool {
	v := reflect.ValueOf(h)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// requestAdapter asks inst for a high-performance adapter able to present to
// surface.
func requestAdapter(ctx context.Context, o *options, inst gpucore.Instance, surface gpucore.Surface) (gpucore.Adapter, error) {
	opts := &gpucore.RequestAdapterOptions{
		CompatibleSurface:    surface,
		PowerPreference:      gputypes.PowerPreferenceHighPerformance,
		ForceFallbackAdapter: o.forceFallback,
	}
	return await(ctx, o.timeout, ErrAdapterRequest, func(cb func(gpucore.RequestStatus, gpucore.Adapter, string)) {
		inst.RequestAdapter(opts, cb)
	})
}

// requestDevice asks adapter for a device with the default descriptor.
func requestDevice(ctx context.Context, o *options, adapter gpucore.Adapter) (gpucore.Device, error) {
	desc := &gpucore.DeviceDescriptor{Label: "triangle device"}
	return await(ctx, o.timeout, ErrDeviceRequest, func(cb func(gpucore.RequestStatus, gpucore.Device, string)) {
		adapter.RequestDevice(desc, cb)
	})
}
