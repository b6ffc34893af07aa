package payload

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Numbers(t *testing.T) {
	tests := []struct {
		in   any
		want json.Number
	}{
		{7, "7"},
		{int8(-8), "-8"},
		{int16(16), "16"},
		{int32(-32), "-32"},
		{int64(math.MinInt64), "-9223372036854775808"},
		{uint(1), "1"},
		{uint8(255), "255"},
		{uint16(65535), "65535"},
		{uint32(4294967295), "4294967295"},
		{float32(0.25), "0.25"},
		{1.0, "1"},
		{-0.000001, "-0.000001"},
		{0.0000001, "1e-7"},
		// The literal rounds to 123456789012345685803008; ...569 is the
		// shortest string that parses back to it.
		{123456789012345678901234.0, "1.2345678901234569e+23"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err, "%T(%v)", tt.in, tt.in)
		assert.Equal(t, tt.want, got, "%T(%v)", tt.in, tt.in)
	}
}

func TestNormalize_Structures(t *testing.T) {
	in := map[string]any{
		"list":   []string{"a"},
		"nested": map[any]any{"k": 1},
		"recs":   []Record{{"x": true}},
		"null":   nil,
	}

	got, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"list":   []any{"a"},
		"nested": map[string]any{"k": json.Number("1")},
		"recs":   []any{map[string]any{"x": true}},
		"null":   nil,
	}, got)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"NaN", math.NaN()},
		{"non-string key", map[any]any{1: "x"}},
		{"bad number", json.Number("abc")},
		{"func", func() {}},
		{"nested bad", map[string]any{"a": []any{struct{}{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeRecord_Nil(t *testing.T) {
	rec, err := NormalizeRecord(nil)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
