// Package testutils holds small helpers shared by command tests.
package testutils

import (
	"os"
	"testing"
)

// SetEnv sets the given environment variables and returns a function that
// restores the previous values.
func SetEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	previous := make(map[string]*string, len(vars))
	for key, value := range vars {
		if old, ok := os.LookupEnv(key); ok {
			v := old
			previous[key] = &v
		} else {
			previous[key] = nil
		}
		if err := os.Setenv(key, value); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}

	return func() {
		for key, old := range previous {
			if old == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *old)
			}
		}
	}
}
