// Package text provides an owned, allocator-backed string. The content is
// valid UTF-8 at every point observable from outside the type: constructors
// and mutators validate their input and fail with ErrInvalidEncoding before
// the buffer is touched.
package text

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tavern-works/rune/alloc"
	"github.com/tavern-works/rune/vec"
)

// ErrInvalidEncoding indicates input that is not (or would not produce)
// valid UTF-8.
var ErrInvalidEncoding = errors.New("text: invalid encoding")

// String owns a growable byte buffer holding valid UTF-8. The zero capacity
// state holds no allocation.
//
// A String is not safe for concurrent use.
type String struct {
	buf *vec.Vec[byte]
}

// New creates an empty string with no allocation.
func New(a alloc.Allocator) *String {
	return &String{buf: vec.New[byte](a)}
}

// FromString creates an owned copy of s. Go permits byte strings that are
// not UTF-8; those fail with ErrInvalidEncoding before any allocation.
func FromString(a alloc.Allocator, s string) (*String, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidEncoding
	}
	return fromValidated(a, []byte(s))
}

// FromBytes creates an owned string from b, validating first so that a
// failure leaves no allocation behind.
func FromBytes(a alloc.Allocator, b []byte) (*String, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidEncoding
	}
	return fromValidated(a, b)
}

// FromBytesUnchecked creates an owned string from b without validating.
// The caller vouches that b is valid UTF-8; this is the only way to bypass
// the check.
func FromBytesUnchecked(a alloc.Allocator, b []byte) (*String, error) {
	return fromValidated(a, b)
}

func fromValidated(a alloc.Allocator, b []byte) (*String, error) {
	buf, err := vec.FromSlice(a, b)
	if err != nil {
		return nil, err
	}
	return &String{buf: buf}, nil
}

// Len returns the length in bytes.
func (s *String) Len() int { return s.buf.Len() }

// Cap returns the allocated capacity in bytes.
func (s *String) Cap() int { return s.buf.Cap() }

// IsEmpty reports whether the string has no content.
func (s *String) IsEmpty() bool { return s.buf.Len() == 0 }

// Bytes returns the content as a view. It is invalidated by any mutating
// operation and must not be modified.
func (s *String) Bytes() []byte { return s.buf.Slice() }

// String returns the content as a host string copy.
func (s *String) String() string { return string(s.buf.Slice()) }

// Reserve ensures capacity for additional more bytes.
func (s *String) Reserve(additional int) error { return s.buf.Reserve(additional) }

// AppendString appends v, which must be valid UTF-8.
func (s *String) AppendString(v string) error {
	if !utf8.ValidString(v) {
		return ErrInvalidEncoding
	}
	return s.buf.AppendSlice([]byte(v))
}

// AppendBytes appends b, which must itself be valid UTF-8. Appending a
// complete valid sequence to a valid string cannot produce an invalid one.
func (s *String) AppendBytes(b []byte) error {
	if !utf8.Valid(b) {
		return ErrInvalidEncoding
	}
	return s.buf.AppendSlice(b)
}

// AppendRune appends one code point. Surrogates and out-of-range values
// fail with ErrInvalidEncoding.
func (s *String) AppendRune(r rune) error {
	if !utf8.ValidRune(r) {
		return ErrInvalidEncoding
	}
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return s.buf.AppendSlice(tmp[:n])
}

// Truncate shortens the string to n bytes. A no-op when n >= Len. n must
// fall on a code point boundary; cutting a code point in half is a caller
// contract violation and panics.
func (s *String) Truncate(n int) {
	if n < 0 || n >= s.buf.Len() {
		return
	}
	if n > 0 && !utf8.RuneStart(s.buf.Slice()[n]) {
		panic(fmt.Sprintf("text: truncate at %d is not a code point boundary", n))
	}
	s.buf.Truncate(n)
}

// Clear removes the content, keeping capacity.
func (s *String) Clear() { s.buf.Clear() }

// Close releases the string's storage back to its allocator.
func (s *String) Close() { s.buf.Close() }
