package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.05", "50000000000000000"},
		{"0.000000000000000001", "1"},
		{"2.5", "2500000000000000000"},
		{".5", "500000000000000000"},
		{"100", "100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEther(tt.in)
			require.NoError(t, err)
			want, ok := new(big.Int).SetString(tt.want, 10)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseEtherRejections(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"0",
		"0.0",
		"-1",
		"1.2.3",
		"0.0000000000000000001", // 19 decimal places
	} {
		t.Run(in, func(t *testing.T) {
			_, err := parseEther(in)
			assert.Error(t, err)
		})
	}
}
