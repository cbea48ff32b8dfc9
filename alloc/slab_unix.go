//go:build linux || darwin

package alloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapSlab acquires a slab of anonymous memory outside the host heap.
func mapSlab(size int) ([]byte, bool, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false, fmt.Errorf("%w: mmap: %v", ErrAllocFailed, err)
	}
	return data, true, nil
}

func releaseSlab(data []byte, mapped bool) {
	if mapped {
		_ = unix.Munmap(data)
	}
}
