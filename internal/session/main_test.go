package session

import (
	"testing"

	"go.uber.org/goleak"
)

// Validation runs on its own goroutine; every test must leave none behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
