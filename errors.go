package snapshot

import "errors"

// Errors reported by the scheduler, the pass builder and presets.
// None of them escape OnFrameRenderPoint or EndOfFrame; they surface through
// logs, Future.Err and Stats.
var (
	// ErrNilDevice is returned when a scheduler is created without a device.
	ErrNilDevice = errors.New("snapshot: nil device")

	// ErrPreviewSurfaceMissing is returned when a preview context has no
	// surface to capture from. The request is skipped for this cycle.
	ErrPreviewSurfaceMissing = errors.New("snapshot: preview surface not found")

	// ErrSchedulerClosed is returned for work submitted after Close.
	ErrSchedulerClosed = errors.New("snapshot: scheduler is closed")

	// ErrRequestReleased is returned when a request's output texture was
	// released while its commands were waiting for the end of the frame.
	ErrRequestReleased = errors.New("snapshot: output texture released before execution")

	// ErrUnknownName is returned when a preset names an unknown enum value.
	ErrUnknownName = errors.New("snapshot: unknown name")

	// ErrInvalidSize is returned by devices for non-positive texture sizes.
	ErrInvalidSize = errors.New("snapshot: invalid texture size")
)
