package alloc

import "errors"

var (
	// ErrAllocFailed indicates the allocator could not satisfy a request
	// (exhausted budget, exhausted arena cap, or a backing failure).
	ErrAllocFailed = errors.New("alloc: cannot satisfy allocation request")

	// ErrCapacityOverflow indicates a requested capacity whose byte size
	// does not fit in address-space arithmetic. It is detected before any
	// allocator call is made.
	ErrCapacityOverflow = errors.New("alloc: capacity overflow")
)
