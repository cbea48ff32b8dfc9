package alloc

// Limit wraps another Allocator and enforces budgets on it: a cap on live
// bytes and a cap on the number of successful acquisitions. Once a budget is
// exhausted the next request fails with ErrAllocFailed while the wrapped
// allocator and every container built on it remain in their prior valid
// state.
//
// A Limit with an allocation-count budget is the deterministic fault
// injector used throughout the container tests: NewLimit(Global{}, -1, k)
// fails the (k+1)-th acquisition.
type Limit struct {
	inner Allocator

	maxBytes  int // -1 = unlimited
	maxAllocs int // -1 = unlimited

	liveBytes int
	allocs    int
}

// NewLimit wraps inner with a live-byte budget and an acquisition-count
// budget. A negative budget is unlimited.
func NewLimit(inner Allocator, maxBytes, maxAllocs int) *Limit {
	return &Limit{inner: inner, maxBytes: maxBytes, maxAllocs: maxAllocs}
}

// charge checks the budgets for an acquisition of delta additional bytes.
func (l *Limit) charge(delta int) error {
	if l.maxAllocs >= 0 && l.allocs >= l.maxAllocs {
		return ErrAllocFailed
	}
	if l.maxBytes >= 0 && l.liveBytes+delta > l.maxBytes {
		return ErrAllocFailed
	}
	return nil
}

func (l *Limit) Allocate(layout Layout) (Block, error) {
	if layout.Size == 0 {
		return Block{}, nil
	}
	if err := l.charge(int(layout.Size)); err != nil {
		return Block{}, err
	}
	b, err := l.inner.Allocate(layout)
	if err != nil {
		return Block{}, err
	}
	l.allocs++
	l.liveBytes += int(layout.Size)
	return b, nil
}

func (l *Limit) Deallocate(b Block, layout Layout) {
	l.inner.Deallocate(b, layout)
	l.liveBytes -= int(layout.Size)
}

func (l *Limit) Grow(b Block, oldLayout, newLayout Layout) (Block, error) {
	delta := int(newLayout.Size - oldLayout.Size)
	if err := l.charge(delta); err != nil {
		return Block{}, err
	}
	nb, err := l.inner.Grow(b, oldLayout, newLayout)
	if err != nil {
		return Block{}, err
	}
	l.allocs++
	l.liveBytes += delta
	return nb, nil
}

func (l *Limit) Shrink(b Block, oldLayout, newLayout Layout) (Block, error) {
	nb, err := l.inner.Shrink(b, oldLayout, newLayout)
	if err != nil {
		return Block{}, err
	}
	l.liveBytes -= int(oldLayout.Size - newLayout.Size)
	return nb, nil
}

// LiveBytes returns the bytes currently charged against the budget.
func (l *Limit) LiveBytes() int { return l.liveBytes }

// Allocs returns the number of successful acquisitions (allocations and
// grows).
func (l *Limit) Allocs() int { return l.allocs }
