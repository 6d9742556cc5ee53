package webapp

import (
	"runtime"
	"strings"
)

// ownPackagePrefix identifies this package's frames so inference skips
// them when walking the call stack.
const ownPackagePrefix = "github.com/wudcwctw/webapp/webapp."

// inferHostClass walks the call stack for the nearest frame outside this
// package and returns its fully qualified function name. Used only as a
// diagnostic identity label when no application instance was supplied, so
// it reports failure instead of failing hard.
func inferHostClass() (string, bool) {
	pc := make([]uintptr, 32)
	n := runtime.Callers(2, pc)
	if n == 0 {
		return "", false
	}

	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		fn := frame.Function
		if fn != "" &&
			!strings.HasPrefix(fn, ownPackagePrefix) &&
			!strings.HasPrefix(fn, "runtime.") {
			return fn, true
		}
		if !more {
			return "", false
		}
	}
}
