package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1.0.0", 1, true},
		{"1", 1, true},
		{"2.3", 2, true},
		{" 1.2.3 ", 1, true},
		{"", 0, false},
		{"v1.0.0", 0, false},
		{"-1.0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MajorVersion(tt.in)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion(SchemaVersion))
	assert.NoError(t, CheckVersion("1.9.0-beta"))
	assert.ErrorIs(t, CheckVersion("2.0.0"), ErrUnsupportedVersion)
	assert.ErrorIs(t, CheckVersion("0.9.0"), ErrUnsupportedVersion)
	assert.ErrorIs(t, CheckVersion("garbage"), ErrUnsupportedVersion)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEqual(t, "CARD", k.Label())
	}

	_, err := ParseKind("Character_Card")
	assert.Error(t, err)
	assert.Equal(t, "CARD", Kind("other").Label())
}
