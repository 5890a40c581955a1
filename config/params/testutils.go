package params

import "testing"

// SetupTestConfigCleanup preserves the active configuration and restores it
// when the test finishes, so tests can override freely.
func SetupTestConfigCleanup(t testing.TB) {
	prev := rewardConfig
	t.Cleanup(func() {
		rewardConfig = prev
	})
}
