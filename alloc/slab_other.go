//go:build !(linux || darwin)

package alloc

// mapSlab falls back to the host heap on platforms without anonymous mmap.
func mapSlab(size int) ([]byte, bool, error) {
	return make([]byte, size), false, nil
}

func releaseSlab(data []byte, mapped bool) {}
