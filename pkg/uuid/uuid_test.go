package uuid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_VersionAndVariant(t *testing.T) {
	u, err := New()
	require.NoError(t, err)

	assert.False(t, u.IsNil())
	assert.Equal(t, byte(0x40), u[6]&0xf0)
	assert.Equal(t, byte(0x80), u[8]&0xc0)

	s := u.String()
	assert.Len(t, s, 36)
	assert.Equal(t, byte('4'), s[14])
}

func TestParse(t *testing.T) {
	u, err := Parse("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	require.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", u.String())

	for _, bad := range []string{
		"",
		"6ba7b8109dad11d180b400c04fd430c8",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c",
		"6ba7b810-9dad-11d1-80b4_00c04fd430c8",
		"zba7b810-9dad-11d1-80b4-00c04fd430c8",
	} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestJSON_UsesStringForm(t *testing.T) {
	u, err := New()
	require.NoError(t, err)

	payload := struct {
		ID UUID `json:"id"`
	}{ID: u}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+u.String()+`"}`, string(data))
}
