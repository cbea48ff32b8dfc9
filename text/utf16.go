package text

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/tavern-works/rune/alloc"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// FromUTF16LE creates an owned string from UTF-16LE code units, as produced
// by hosts that speak two-byte text. Odd lengths and unpaired surrogates
// fail with ErrInvalidEncoding before any allocation.
func FromUTF16LE(a alloc.Allocator, b []byte) (*String, error) {
	if err := validateUTF16LE(b); err != nil {
		return nil, err
	}
	decoded, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return FromBytesUnchecked(a, decoded)
}

// UTF16LE returns the content encoded as UTF-16LE code units.
func (s *String) UTF16LE() ([]byte, error) {
	return utf16le.NewEncoder().Bytes(s.buf.Slice())
}

// validateUTF16LE rejects odd byte counts and unpaired surrogates. The
// decoder would substitute replacement characters for those; the contract
// here is an error, not silent repair.
func validateUTF16LE(b []byte) error {
	if len(b)%2 != 0 {
		return ErrInvalidEncoding
	}
	for i := 0; i < len(b); i += 2 {
		u := uint16(b[i]) | uint16(b[i+1])<<8
		switch {
		case u >= 0xd800 && u < 0xdc00:
			// High surrogate: the next unit must be a low surrogate.
			if i+3 >= len(b) {
				return ErrInvalidEncoding
			}
			next := uint16(b[i+2]) | uint16(b[i+3])<<8
			if next < 0xdc00 || next >= 0xe000 {
				return ErrInvalidEncoding
			}
			i += 2
		case u >= 0xdc00 && u < 0xe000:
			// Low surrogate with no preceding high surrogate.
			return ErrInvalidEncoding
		}
	}
	return nil
}
