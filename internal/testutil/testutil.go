// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"
)

// Unsetenv removes key from the environment for the duration of the test,
// restoring the original value through t.Cleanup. t.Setenv cannot express
// "unset", so tests that must not see a variable use this instead.
func Unsetenv(t testing.TB, key string) {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if !existed {
			return
		}
		if err := os.Setenv(key, prev); err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	})
}
