package cmd

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the CLI layer doesn't leak goroutines across a command
// invocation (the errgroup-based concurrent reads of compress and archive
// are where this package spins up goroutines).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
