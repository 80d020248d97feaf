package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// MiniRedis is the in-process redis server used by tests.
type MiniRedis = miniredis.Miniredis

// StartMiniRedis runs an in-process redis server for the test.
func StartMiniRedis(t testing.TB) *MiniRedis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}
