package testutil

import (
	"go.uber.org/goleak"
)

// GoLeakIgnores returns the goroutines that long-lived caches leave running.
func GoLeakIgnores() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreAnyFunction("github.com/Yiling-J/theine-go/internal.(*Store[...]).maintance"),
		goleak.IgnoreAnyFunction("github.com/Yiling-J/theine-go/internal.(*Store[...]).maintance.func1"),
	}
}
