package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "RENTIVA_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether the process runs under the test harness. The
// entry points use it to skip connecting to real stores when a package
// test compiles one of the binaries.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the flag after a test mutates the environment.
func RefreshTestMode() {
	detectTestMode()
}
