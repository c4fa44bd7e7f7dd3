// ABOUTME: Deterministic reference addressing used by tests and the reference host
// ABOUTME: Canonical form is the human address right-padded with zero bytes

package host

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultCanonicalLength is the canonical address length used by NewMockApi.
const DefaultCanonicalLength = 20

// minHumanLength is the shortest human address MockApi accepts.
const minHumanLength = 3

// MockApi implements Api by zero-padding human addresses to a fixed length.
// Human addresses must be 3..CanonicalLength bytes of valid UTF-8 without NUL
// bytes or surrounding whitespace, which makes human -> canonical -> human the
// identity for every accepted address.
type MockApi struct {
	CanonicalLength int
}

// NewMockApi returns a MockApi with DefaultCanonicalLength.
func NewMockApi() MockApi {
	return MockApi{CanonicalLength: DefaultCanonicalLength}
}

func (a MockApi) length() int {
	if a.CanonicalLength <= 0 {
		return DefaultCanonicalLength
	}
	return a.CanonicalLength
}

// CanonicalAddress implements Api.
func (a MockApi) CanonicalAddress(human HumanAddr) (CanonicalAddr, error) {
	s := string(human)
	switch {
	case len(s) < minHumanLength:
		return nil, fmt.Errorf("%w: %q is shorter than %d bytes", ErrInvalidAddress, s, minHumanLength)
	case len(s) > a.length():
		return nil, fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidAddress, s, a.length())
	case !utf8.ValidString(s):
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidAddress, s)
	case strings.ContainsRune(s, 0):
		return nil, fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidAddress, s)
	case strings.TrimSpace(s) != s:
		return nil, fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidAddress, s)
	}

	canonical := make([]byte, a.length())
	copy(canonical, s)
	return canonical, nil
}

// HumanAddress implements Api.
func (a MockApi) HumanAddress(canonical CanonicalAddr) (HumanAddr, error) {
	if len(canonical) != a.length() {
		return "", fmt.Errorf("%w: canonical address has %d bytes, want %d", ErrInvalidAddress, len(canonical), a.length())
	}

	trimmed := bytes.TrimRight(canonical, "\x00")
	if len(trimmed) < minHumanLength || !utf8.Valid(trimmed) {
		return "", fmt.Errorf("%w: canonical address %x does not decode", ErrInvalidAddress, []byte(canonical))
	}
	return HumanAddr(trimmed), nil
}
