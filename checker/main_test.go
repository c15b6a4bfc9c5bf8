package checker

import (
	"testing"

	"go.uber.org/goleak"
)

// checker runs and timeouts must not leave process watchers behind
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
