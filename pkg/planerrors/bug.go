package planerrors

import (
	"fmt"
	"os"
	"strings"
)

// Based on: https://stackoverflow.com/a/58945030
func isInTests() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// IsInTests returns true if the current binary is a go test binary.
func IsInTests() bool {
	return isInTests()
}

// MustBugf returns an error representing a bug in the planner: an invariant that an upstream
// component (validator, parser) was supposed to guarantee did not hold. Will panic if run under
// testing.
func MustBugf(format string, args ...any) error {
	if isInTests() {
		panic(fmt.Sprintf(format, args...))
	}

	return fmt.Errorf("BUG: "+format, args...)
}

// MustPanicf panics unconditionally. It is reserved for constructors whose misuse cannot be
// reported through an error return.
func MustPanicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
