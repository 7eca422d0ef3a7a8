package uuid

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidFormat = errors.New("invalid uuid format")

// UUID - 16 байт, RFC 4122
type UUID [16]byte

// Nil is the zero UUID.
var Nil UUID

// New возвращает новый UUID v4
func New() (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(rand.Reader, u[:]); err != nil {
		return Nil, err
	}
	u[6] = (u[6] & 0x0f) | 0x40 // версия 4
	u[8] = (u[8] & 0x3f) | 0x80 // вариант RFC 4122
	return u, nil
}

// NewString returns a fresh v4 id as text, falling back to the nil id if the
// system random source fails.
func NewString() string {
	u, err := New()
	if err != nil {
		return Nil.String()
	}
	return u.String()
}

func (u UUID) IsNil() bool {
	return u == Nil
}

// String форматирует UUID в xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [36]byte
	encodeHex(buf[:], u)
	return string(buf[:])
}

// Parse accepts only the canonical 36-character form, any letter case.
func Parse(s string) (UUID, error) {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return Nil, ErrInvalidFormat
	}

	var u UUID
	groups := [5][2]int{{0, 8}, {9, 13}, {14, 18}, {19, 23}, {24, 36}}
	offset := 0
	for _, g := range groups {
		n, err := hex.Decode(u[offset:], []byte(s[g[0]:g[1]]))
		if err != nil {
			return Nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		offset += n
	}
	return u, nil
}

// MarshalText implements encoding.TextMarshaler, so JSON uses the string form.
func (u UUID) MarshalText() ([]byte, error) {
	var buf [36]byte
	encodeHex(buf[:], u)
	return buf[:], nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := Parse(string(data))
	if err != nil {
		return err
	}
	*u = id
	return nil
}

func encodeHex(dst []byte, u UUID) {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:], u[10:16])
}
