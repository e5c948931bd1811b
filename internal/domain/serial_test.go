package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSerialShape(t *testing.T) {
	serial := NewSerial("TPC")
	require.Regexp(t, regexp.MustCompile(`^TPC-[0-9A-Z]+-\d{6}$`), serial)
}

func TestNewSerialVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewSerial("TPC")] = true
	}
	// best-effort uniqueness: the random suffix should vary within one millisecond
	require.Greater(t, len(seen), 1)
}
